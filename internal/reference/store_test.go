package reference

import (
	"context"
	"testing"

	"receiving-dashboard/internal/audit"
	"receiving-dashboard/internal/database/dbtest"
	"receiving-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStore(t *testing.T) (*Store, *gorm.DB) {
	db := dbtest.New(t)
	return NewStore(db, audit.NewService(db)), db
}

func TestAddCustomerIsIdempotentIgnoringCase(t *testing.T) {
	store, db := newStore(t)
	ctx := context.Background()

	created, err := store.AddCustomer(ctx, "Acme")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.AddCustomer(ctx, "Acme")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = store.AddCustomer(ctx, "  ACME ")
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	names, err := store.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme"}, names)
}

func TestAddRejectsBlankName(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.AddEmployee(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestListEmployeesOrderedAndVisibleImmediately(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	for _, n := range []string{"zoe Park", "Ana Ruiz", "bo  Chen"} {
		_, err := store.AddEmployee(ctx, n)
		require.NoError(t, err)
	}

	names, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana Ruiz", "bo Chen", "zoe Park"}, names)
}

func TestListSkipsInactive(t *testing.T) {
	store, db := newStore(t)
	ctx := context.Background()

	_, err := store.AddCustomer(ctx, "Old Co")
	require.NoError(t, err)
	_, err = store.AddCustomer(ctx, "New Co")
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Customer{}).Where("name_key = ?", "old co").Update("active", false).Error)

	names, err := store.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"New Co"}, names)
}

func TestSeedEmployeesCountsOnlyNewNames(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	added, err := store.SeedEmployees(ctx, []string{"Ana Ruiz", "", "ana ruiz", "Bo Chen"})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = store.SeedEmployees(ctx, []string{"Ana Ruiz", "Bo Chen"})
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}

func TestFindIDIgnoresCase(t *testing.T) {
	store, db := newStore(t)
	ctx := context.Background()

	_, err := store.AddCustomer(ctx, "Acme")
	require.NoError(t, err)

	id, err := FindCustomerID(db, "ACME")
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = FindCustomerID(db, "Globex")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = FindEmployeeID(db, "")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAddWritesAuditEntry(t *testing.T) {
	store, db := newStore(t)

	_, err := store.AddCustomer(context.Background(), "Acme")
	require.NoError(t, err)
	_, err = store.AddCustomer(context.Background(), "acme")
	require.NoError(t, err)

	var logs []models.AuditLog
	require.NoError(t, db.Where("entity_type = ?", "customer").Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditActionCreate, logs[0].Action)
	assert.Contains(t, string(logs[0].AfterData), "Acme")
}

func TestNormalizeNameFoldsCase(t *testing.T) {
	display, key, err := normalizeName("  José   Núñez ")
	require.NoError(t, err)
	assert.Equal(t, "José Núñez", display)
	assert.Equal(t, "josé núñez", key)

	_, key2, err := normalizeName("JOSÉ NÚÑEZ")
	require.NoError(t, err)
	assert.Equal(t, key, key2)

	_, _, err = normalizeName("\t")
	assert.ErrorIs(t, err, ErrEmptyName)
}
