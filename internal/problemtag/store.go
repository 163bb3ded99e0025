package problemtag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"receiving-dashboard/internal/audit"
	"receiving-dashboard/internal/logger"
	"receiving-dashboard/internal/models"
	"receiving-dashboard/internal/reference"
	"receiving-dashboard/internal/telemetry"
	"receiving-dashboard/internal/validation"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxListLimit caps the submissions overview.
const MaxListLimit = 500

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

// Submit validates req and writes the submission with all of its lines in one transaction.
// Customer and employee are resolved before the lines are checked, so errors follow form order.
func (s *Store) Submit(ctx context.Context, req SubmitRequest) (*models.ProblemTagSubmission, error) {
	dateFound, err := req.validateHeader()
	if err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	customerID, err := reference.FindCustomerID(tx, req.Customer)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validation.New("customer", "customer %q not found", strings.TrimSpace(req.Customer))
		}
		return nil, fmt.Errorf("resolve customer: %w", err)
	}
	employeeID, err := reference.FindEmployeeID(tx, req.Employee)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validation.New("employee", "employee %q not found", strings.TrimSpace(req.Employee))
		}
		return nil, fmt.Errorf("resolve employee: %w", err)
	}
	if err := req.validateLines(); err != nil {
		tx.Rollback()
		return nil, err
	}

	sub := models.ProblemTagSubmission{
		DateFound:  dateFound,
		CustomerID: customerID,
		EmployeeID: employeeID,
		PONumber:   strings.TrimSpace(req.PONumber),
		JobName:    strings.TrimSpace(req.JobName),
		TeamName:   strings.TrimSpace(req.TeamName),
		AuthorName: strings.TrimSpace(req.AuthorName),
		Notes:      strings.TrimSpace(req.Notes),
	}
	if err := tx.Omit(clause.Associations).Create(&sub).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("insert submission: %w", err)
	}

	lines := req.toLines()
	for i := range lines {
		lines[i].SubmissionID = sub.ID
		if err := tx.Create(&lines[i]).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("insert line %d: %w", lines[i].Position, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("commit submission: %w", err)
	}

	total := 0
	byType := make(map[string]int)
	for _, ln := range lines {
		total += ln.Quantity
		byType[string(ln.ProblemType)] += ln.Quantity
	}
	s.metrics.ObserveSubmission(byType)
	s.audit.Record(ctx, audit.LogOptions{
		EntityType:  "problem_tag",
		EntityID:    sub.ID,
		Action:      models.AuditActionCreate,
		Actor:       sub.AuthorName,
		Description: fmt.Sprintf("problem tag saved: %s, %d line(s), %d unit(s)", sub.DateFound.Format(DateLayout), len(lines), total),
		After: map[string]any{
			"id":          sub.ID,
			"date_found":  sub.DateFound.Format(DateLayout),
			"customer_id": sub.CustomerID,
			"employee_id": sub.EmployeeID,
			"lines":       len(lines),
			"quantity":    total,
		},
	})

	saved, err := s.Get(ctx, sub.ID)
	if err != nil {
		// The write is committed; answer with what was inserted rather than failing the request.
		logger.FromContext(ctx).Warn("reload saved problem tag", zap.Uint("id", sub.ID), zap.Error(err))
		sub.Customer = models.Customer{ID: sub.CustomerID, Name: strings.Join(strings.Fields(req.Customer), " ")}
		sub.Employee = models.Employee{ID: sub.EmployeeID, Name: strings.Join(strings.Fields(req.Employee), " ")}
		sub.Lines = lines
		return &sub, nil
	}
	return saved, nil
}

// Get loads a submission with its customer, employee and ordered lines.
func (s *Store) Get(ctx context.Context, id uint) (*models.ProblemTagSubmission, error) {
	var sub models.ProblemTagSubmission
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Employee").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		First(&sub, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Store) Lines(ctx context.Context, submissionID uint) ([]models.ProblemTagLine, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.ProblemTagSubmission{}).Where("id = ?", submissionID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("find submission: %w", err)
	}
	if count == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	lines := make([]models.ProblemTagLine, 0)
	if err := s.db.WithContext(ctx).Where("submission_id = ?", submissionID).Order("position asc").Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	return lines, nil
}

// List returns the newest submissions first, limited to MaxListLimit.
func (s *Store) List(ctx context.Context, limit int) ([]models.ProblemTagSubmission, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}

	subs := make([]models.ProblemTagSubmission, 0)
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Employee").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Order("date_found desc").
		Order("created_at desc").
		Order("id desc").
		Limit(limit).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}
