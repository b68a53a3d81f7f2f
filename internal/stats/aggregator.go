// Package stats maintains the denormalized per-novel counters. Every
// mutation path that creates or deletes a counted entity goes through
// ApplyDelta inside the same transaction as the source mutation; nothing
// else writes the statistics table.
package stats

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nineworlds/internal/models"
)

type Kind string

const (
	KindViews     Kind = "views"
	KindComments  Kind = "comments"
	KindReactions Kind = "reactions"
	KindChapters  Kind = "chapters"
)

var kindColumns = map[Kind]string{
	KindViews:     "total_views",
	KindComments:  "total_comments",
	KindReactions: "total_reactions",
	KindChapters:  "total_chapters",
}

type Aggregator interface {
	// EnsureRow creates the zeroed statistics row for a new novel.
	EnsureRow(tx *gorm.DB, novelID int64) error
	// ApplyDelta applies a signed delta to one counter of one novel.
	ApplyDelta(tx *gorm.DB, novelID int64, kind Kind, delta int) error
	// ApplyDeltaForTarget resolves the owning novel through the
	// chapter/comment reference chain first. A dangling reference skips
	// the delta without failing the surrounding transaction.
	ApplyDeltaForTarget(tx *gorm.DB, target models.Target, kind Kind, delta int) error
	// ResolveNovelID follows target -> novel references.
	ResolveNovelID(tx *gorm.DB, target models.Target) (int64, error)
	// Recount recomputes one novel's totals from the source tables.
	Recount(tx *gorm.DB, novelID int64) (*models.NovelStatistics, error)
}

type aggregator struct {
	logger *slog.Logger
}

func NewAggregator(logger *slog.Logger) Aggregator {
	return &aggregator{logger: logger}
}

func (a *aggregator) EnsureRow(tx *gorm.DB, novelID int64) error {
	row := models.NovelStatistics{NovelID: novelID}
	if err := tx.Create(&row).Error; err != nil {
		return fmt.Errorf("create statistics row: %w", err)
	}
	return nil
}

func (a *aggregator) ApplyDelta(tx *gorm.DB, novelID int64, kind Kind, delta int) error {
	column, ok := kindColumns[kind]
	if !ok {
		return fmt.Errorf("unknown counter kind %q", kind)
	}
	if delta == 0 {
		return nil
	}
	return tx.Model(&models.NovelStatistics{}).
		Where("novel_id = ?", novelID).
		Updates(map[string]any{
			column:       gorm.Expr(column+" + ?", delta),
			"updated_at": time.Now(),
		}).Error
}

func (a *aggregator) ApplyDeltaForTarget(tx *gorm.DB, target models.Target, kind Kind, delta int) error {
	novelID, err := a.ResolveNovelID(tx, target)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Counters are best-effort relative to orphaned references; the
		// source mutation still commits.
		a.logger.Warn("skipping counter update for dangling target",
			"kind", string(target.Kind), "id", target.ID)
		return nil
	}
	if err != nil {
		return err
	}
	return a.ApplyDelta(tx, novelID, kind, delta)
}

func (a *aggregator) ResolveNovelID(tx *gorm.DB, target models.Target) (int64, error) {
	switch target.Kind {
	case models.TargetNovel:
		return target.ID, nil
	case models.TargetChapter:
		var chapter models.Chapter
		if err := tx.Select("novel_id").First(&chapter, target.ID).Error; err != nil {
			return 0, err
		}
		return chapter.NovelID, nil
	case models.TargetComment:
		var comment models.Comment
		if err := tx.Select("target_kind", "target_id").First(&comment, target.ID).Error; err != nil {
			return 0, err
		}
		// Replies nest one level, so a comment target chain terminates at
		// a novel or chapter.
		return a.ResolveNovelID(tx, comment.Target())
	}
	return 0, fmt.Errorf("unknown target kind %q", target.Kind)
}

func (a *aggregator) Recount(tx *gorm.DB, novelID int64) (*models.NovelStatistics, error) {
	row := models.NovelStatistics{NovelID: novelID}

	if err := tx.Model(&models.Chapter{}).
		Where("novel_id = ? AND is_deleted = FALSE", novelID).
		Count(&row.TotalChapters).Error; err != nil {
		return nil, err
	}

	chapterTargets := tx.Model(&models.Chapter{}).Select("id").Where("novel_id = ?", novelID)

	if err := tx.Model(&models.Comment{}).
		Where("is_deleted = FALSE").
		Where(
			tx.Where("target_kind = ? AND target_id = ?", models.TargetNovel, novelID).
				Or("target_kind = ? AND target_id IN (?)", models.TargetChapter, chapterTargets),
		).
		Count(&row.TotalComments).Error; err != nil {
		return nil, err
	}

	commentTargets := tx.Model(&models.Comment{}).Select("id").
		Where(
			tx.Where("target_kind = ? AND target_id = ?", models.TargetNovel, novelID).
				Or("target_kind = ? AND target_id IN (?)", models.TargetChapter, chapterTargets),
		)

	if err := tx.Model(&models.Reaction{}).
		Where(
			tx.Where("target_kind = ? AND target_id = ?", models.TargetNovel, novelID).
				Or("target_kind = ? AND target_id IN (?)", models.TargetChapter, chapterTargets).
				Or("target_kind = ? AND target_id IN (?)", models.TargetComment, commentTargets),
		).
		Count(&row.TotalReactions).Error; err != nil {
		return nil, err
	}

	var novel models.Novel
	if err := tx.Select("views").First(&novel, novelID).Error; err != nil {
		return nil, err
	}
	var chapterViews int64
	if err := tx.Model(&models.Chapter{}).
		Where("novel_id = ?", novelID).
		Select("COALESCE(SUM(views), 0)").
		Scan(&chapterViews).Error; err != nil {
		return nil, err
	}
	row.TotalViews = novel.Views + chapterViews

	row.UpdatedAt = time.Now()
	if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("store recounted statistics: %w", err)
	}
	return &row, nil
}
