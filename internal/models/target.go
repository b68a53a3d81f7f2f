package models

// TargetKind tags what a comment or reaction is attached to. A tagged
// {kind, id} pair replaces the three-nullable-columns shape so call sites
// never branch on "which field is set".
type TargetKind string

const (
	TargetNovel   TargetKind = "novel"
	TargetChapter TargetKind = "chapter"
	TargetComment TargetKind = "comment"
)

type Target struct {
	Kind TargetKind `json:"kind"`
	ID   int64      `json:"id"`
}

func NovelTarget(id int64) Target   { return Target{Kind: TargetNovel, ID: id} }
func ChapterTarget(id int64) Target { return Target{Kind: TargetChapter, ID: id} }
func CommentTarget(id int64) Target { return Target{Kind: TargetComment, ID: id} }

// Valid reports whether the kind is one of the known tags.
func (t Target) Valid() bool {
	switch t.Kind {
	case TargetNovel, TargetChapter, TargetComment:
		return t.ID > 0
	}
	return false
}
