package receiving

import (
	"context"
	"fmt"
	"strings"
	"time"

	"receiving-dashboard/internal/audit"
	"receiving-dashboard/internal/models"
	"receiving-dashboard/internal/telemetry"
	"receiving-dashboard/internal/validation"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DateLayout = "2006-01-02"

type Entry struct {
	Date           time.Time
	OrdersReceived int
	EstimatedUnits int
}

func (e Entry) validate() error {
	if e.Date.IsZero() {
		return validation.New("date", "date is required")
	}
	if e.OrdersReceived < 0 {
		return validation.New("orders_received", "orders_received cannot be negative")
	}
	if e.EstimatedUnits < 0 {
		return validation.New("estimated_units", "estimated_units cannot be negative")
	}
	return nil
}

// ParseDate reads a YYYY-MM-DD day as UTC midnight.
func ParseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, validation.New(field, "%s is required", field)
	}
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, validation.New(field, "%s must be formatted YYYY-MM-DD", field)
	}
	return d.UTC(), nil
}

func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

type Store struct {
	db      *gorm.DB
	audit   *audit.Service
	metrics *telemetry.Metrics
}

func NewStore(db *gorm.DB, auditSvc *audit.Service) *Store {
	return &Store{db: db, audit: auditSvc}
}

func (s *Store) WithMetrics(m *telemetry.Metrics) *Store {
	s.metrics = m
	return s
}

// Upsert writes the day's baseline; re-entering a day overwrites it (last write wins).
func (s *Store) Upsert(ctx context.Context, e Entry) (*models.DailyReceivingRecord, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}

	rec := models.DailyReceivingRecord{
		Date:           Day(e.Date),
		OrdersReceived: e.OrdersReceived,
		EstimatedUnits: e.EstimatedUnits,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"orders_received", "estimated_units", "updated_at"}),
		}).
		Create(&rec).Error
	if err != nil {
		return nil, fmt.Errorf("upsert receiving record: %w", err)
	}

	saved, err := s.Get(ctx, rec.Date)
	if err != nil {
		return nil, fmt.Errorf("reload receiving record: %w", err)
	}

	s.metrics.ObserveReceivingUpsert()
	s.audit.Record(ctx, audit.LogOptions{
		EntityType:  "daily_receiving",
		EntityID:    saved.ID,
		Action:      models.AuditActionUpsert,
		Description: fmt.Sprintf("receiving saved for %s: %d orders, %d units", saved.Date.Format(DateLayout), saved.OrdersReceived, saved.EstimatedUnits),
		After: map[string]any{
			"date":            saved.Date.Format(DateLayout),
			"orders_received": saved.OrdersReceived,
			"estimated_units": saved.EstimatedUnits,
		},
	})
	return saved, nil
}

// Get returns gorm.ErrRecordNotFound when the day has no record.
func (s *Store) Get(ctx context.Context, date time.Time) (*models.DailyReceivingRecord, error) {
	var rec models.DailyReceivingRecord
	if err := s.db.WithContext(ctx).Where("date = ?", Day(date)).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListRange returns records with from <= date < to, ascending.
func (s *Store) ListRange(ctx context.Context, from, to time.Time) ([]models.DailyReceivingRecord, error) {
	recs := make([]models.DailyReceivingRecord, 0)
	err := s.db.WithContext(ctx).
		Where("date >= ? AND date < ?", Day(from), Day(to)).
		Order("date asc").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list receiving records: %w", err)
	}
	return recs, nil
}

func (s *Store) ListMonth(ctx context.Context, year int, month time.Month) ([]models.DailyReceivingRecord, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return s.ListRange(ctx, first, first.AddDate(0, 1, 0))
}
