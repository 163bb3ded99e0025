package reference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"receiving-dashboard/internal/audit"
	"receiving-dashboard/internal/models"
	"receiving-dashboard/internal/validation"

	"golang.org/x/text/cases"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrEmptyName is returned for blank names; it is a validation error.
var ErrEmptyName = validation.New("name", "name is required")

// Store holds the customer and employee dropdown lists.
type Store struct {
	db    *gorm.DB
	audit *audit.Service
}

func NewStore(db *gorm.DB, auditSvc *audit.Service) *Store {
	return &Store{db: db, audit: auditSvc}
}

func (s *Store) ListCustomers(ctx context.Context) ([]string, error) {
	return s.listNames(ctx, &models.Customer{})
}

func (s *Store) ListEmployees(ctx context.Context) ([]string, error) {
	return s.listNames(ctx, &models.Employee{})
}

// AddCustomer inserts name unless it already exists (case-insensitive).
// created reports whether a row was written.
func (s *Store) AddCustomer(ctx context.Context, name string) (created bool, err error) {
	display, key, err := normalizeName(name)
	if err != nil {
		return false, err
	}
	row := models.Customer{Name: display, NameKey: key, Active: true}
	return s.insertIfAbsent(ctx, "customer", &row, func() uint { return row.ID }, display)
}

func (s *Store) AddEmployee(ctx context.Context, name string) (created bool, err error) {
	display, key, err := normalizeName(name)
	if err != nil {
		return false, err
	}
	row := models.Employee{Name: display, NameKey: key, Active: true}
	return s.insertIfAbsent(ctx, "employee", &row, func() uint { return row.ID }, display)
}

// SeedEmployees adds the configured starting list; existing names are left alone.
func (s *Store) SeedEmployees(ctx context.Context, names []string) (int, error) {
	added := 0
	for _, n := range names {
		created, err := s.AddEmployee(ctx, n)
		if errors.Is(err, ErrEmptyName) {
			continue
		}
		if err != nil {
			return added, err
		}
		if created {
			added++
		}
	}
	return added, nil
}

func (s *Store) listNames(ctx context.Context, model any) ([]string, error) {
	names := make([]string, 0)
	err := s.db.WithContext(ctx).
		Model(model).
		Where("active = ?", true).
		Order("name_key asc").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}
	return names, nil
}

func (s *Store) insertIfAbsent(ctx context.Context, entity string, row any, id func() uint, display string) (bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name_key"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, fmt.Errorf("add %s: %w", entity, res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	s.audit.Record(ctx, audit.LogOptions{
		EntityType:  entity,
		EntityID:    id(),
		Action:      models.AuditActionCreate,
		Description: fmt.Sprintf("%s added: %s", entity, display),
		After:       map[string]any{"id": id(), "name": display},
	})
	return true, nil
}

// FindCustomerID resolves a dropdown name to its id. Returns gorm.ErrRecordNotFound when absent.
func FindCustomerID(tx *gorm.DB, name string) (uint, error) {
	return findID(tx, &models.Customer{}, name)
}

func FindEmployeeID(tx *gorm.DB, name string) (uint, error) {
	return findID(tx, &models.Employee{}, name)
}

func findID(tx *gorm.DB, model any, name string) (uint, error) {
	_, key, err := normalizeName(name)
	if err != nil {
		return 0, gorm.ErrRecordNotFound
	}
	var ids []uint
	if err := tx.Model(model).Where("name_key = ?", key).Limit(1).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return ids[0], nil
}

// normalizeName collapses inner whitespace; the key is the case-folded form.
func normalizeName(name string) (display, key string, err error) {
	display = strings.Join(strings.Fields(name), " ")
	if display == "" {
		return "", "", ErrEmptyName
	}
	return display, cases.Fold().String(display), nil
}
