package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"nineworlds/internal/models"
)

// AdminLogRepository is append-only. There is deliberately no update or
// delete method.
type AdminLogRepository interface {
	Append(ctx context.Context, adminID, action string, details map[string]any) error
	List(ctx context.Context, page, pageSize int) ([]models.AdminLog, int64, error)
}

type adminLogRepository struct {
	db *gorm.DB
}

func NewAdminLogRepository(db *gorm.DB) AdminLogRepository {
	return &adminLogRepository{db: db}
}

func (r *adminLogRepository) Append(ctx context.Context, adminID, action string, details map[string]any) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal admin log details: %w", err)
	}
	entry := models.AdminLog{
		AdminID: adminID,
		Action:  action,
		Details: string(payload),
	}
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *adminLogRepository) List(ctx context.Context, page, pageSize int) ([]models.AdminLog, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.AdminLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.AdminLog
	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
