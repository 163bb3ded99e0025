package audit

import (
	"context"
	"testing"

	"receiving-dashboard/internal/database/dbtest"
	"receiving-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLogStoresSnapshot(t *testing.T) {
	svc := NewService(dbtest.New(t))
	ctx := context.Background()

	err := svc.WriteLog(ctx, LogOptions{
		EntityType:  "daily_receiving",
		EntityID:    7,
		Action:      models.AuditActionUpsert,
		Description: "receiving saved",
		After:       map[string]int{"estimated_units": 150},
	})
	require.NoError(t, err)

	logs, err := svc.List(ctx, ListFilter{EntityType: "daily_receiving"})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, uint(7), logs[0].EntityID)
	assert.JSONEq(t, `{"estimated_units":150}`, string(logs[0].AfterData))
}

func TestWriteLogWithoutSnapshot(t *testing.T) {
	svc := NewService(dbtest.New(t))

	require.NoError(t, svc.WriteLog(context.Background(), LogOptions{EntityType: "customer", EntityID: 1, Action: models.AuditActionCreate}))

	logs, err := svc.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "null", string(logs[0].AfterData))
}

func TestListFiltersAndOrdersNewestFirst(t *testing.T) {
	svc := NewService(dbtest.New(t))
	ctx := context.Background()

	for i := uint(1); i <= 3; i++ {
		svc.Record(ctx, LogOptions{EntityType: "problem_tag", EntityID: i, Action: models.AuditActionCreate})
	}
	svc.Record(ctx, LogOptions{EntityType: "employee", EntityID: 1, Action: models.AuditActionCreate})

	logs, err := svc.List(ctx, ListFilter{EntityType: "problem_tag"})
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, uint(3), logs[0].EntityID)
	assert.Equal(t, uint(1), logs[2].EntityID)

	logs, err = svc.List(ctx, ListFilter{EntityType: "problem_tag", EntityID: 2})
	require.NoError(t, err)
	require.Len(t, logs, 1)

	logs, err = svc.List(ctx, ListFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestRecordOnNilServiceIsNoop(t *testing.T) {
	var svc *Service
	assert.NotPanics(t, func() {
		svc.Record(context.Background(), LogOptions{EntityType: "customer"})
	})
}

func TestWriteLogRejectsUnencodableSnapshot(t *testing.T) {
	svc := NewService(dbtest.New(t))

	err := svc.WriteLog(context.Background(), LogOptions{EntityType: "customer", After: make(chan int)})
	assert.Error(t, err)
}
