package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"receiving-dashboard/internal/logger"
	"receiving-dashboard/internal/models"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LogOptions struct {
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Actor       string
	Description string
	After       any
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) WriteLog(ctx context.Context, opts LogOptions) error {
	after := datatypes.JSON("null")
	if opts.After != nil {
		b, err := json.Marshal(opts.After)
		if err != nil {
			return fmt.Errorf("encode audit snapshot: %w", err)
		}
		after = datatypes.JSON(b)
	}

	entry := models.AuditLog{
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Actor:       opts.Actor,
		Description: opts.Description,
		AfterData:   after,
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// Record writes a log entry and only logs a failure; audit never fails the caller's write.
func (s *Service) Record(ctx context.Context, opts LogOptions) {
	if s == nil {
		return
	}
	if err := s.WriteLog(ctx, opts); err != nil {
		logger.FromContext(ctx).Warn("audit log not written",
			zap.String("entity_type", opts.EntityType),
			zap.Uint("entity_id", opts.EntityID),
			zap.Error(err),
		)
	}
}

type ListFilter struct {
	EntityType string
	EntityID   uint
	Limit      int
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]models.AuditLog, error) {
	q := s.db.WithContext(ctx).Model(&models.AuditLog{})
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID > 0 {
		q = q.Where("entity_id = ?", f.EntityID)
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 500
	}

	var logs []models.AuditLog
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}
