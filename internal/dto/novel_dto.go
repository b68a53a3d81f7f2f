package dto

// CreateNovelRequest: payload for publishing a new novel
type CreateNovelRequest struct {
	Title        string  `json:"title" binding:"required,min=1,max=200"`
	Summary      string  `json:"summary" binding:"max=5000"`
	CoverImage   *string `json:"cover_image,omitempty" binding:"omitempty,url"`
	TranslatorID *string `json:"translator_id,omitempty" binding:"omitempty,uuid"`
	CategoryIDs  []int64 `json:"category_ids,omitempty"`
}

// UpdateNovelRequest: payload for editing a novel
type UpdateNovelRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=200"`
	Summary     string  `json:"summary" binding:"max=5000"`
	CoverImage  *string `json:"cover_image,omitempty" binding:"omitempty,url"`
	Status      *string `json:"status,omitempty" binding:"omitempty,oneof=ongoing completed hiatus"`
	CategoryIDs []int64 `json:"category_ids,omitempty"`
}

// CreateChapterRequest: payload for adding a chapter; the chapter number
// is assigned server-side
type CreateChapterRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Content string `json:"content" binding:"required,min=1"`
}

// UpdateChapterRequest: payload for editing a chapter body
type UpdateChapterRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Content string `json:"content" binding:"required,min=1"`
}

// CreateCategoryRequest: admin payload for adding a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}
