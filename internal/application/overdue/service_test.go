package overdue

import (
	"context"
	"testing"
	"time"

	"parkwise-backend/internal/domain"
	"parkwise-backend/internal/infrastructure/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOverdueTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return &Service{DB: db}, db
}

func openEntry(t *testing.T, db *gorm.DB, userID uint, age time.Duration) {
	require.NoError(t, db.Create(&domain.LedgerEntry{
		UserID:        userID,
		SpotID:        userID,
		LotID:         1,
		VehicleNumber: "V-overdue",
		EntryTime:     time.Now().Add(-age),
	}).Error)
}

func TestScan_ThresholdAndOrdering(t *testing.T) {
	svc, db := setupOverdueTest(t)
	openEntry(t, db, 1, 30*time.Minute)
	openEntry(t, db, 2, 3*time.Hour)
	openEntry(t, db, 3, 26*time.Hour)

	alerts, err := svc.Scan(context.Background(), 2*time.Hour)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	// Most overdue first.
	assert.EqualValues(t, 3, alerts[0].UserID)
	assert.EqualValues(t, 2, alerts[1].UserID)
	assert.Greater(t, alerts[0].Elapsed, alerts[1].Elapsed)
}

func TestScan_IgnoresClosedEntries(t *testing.T) {
	svc, db := setupOverdueTest(t)
	exit := time.Now()
	cost := 90.0
	require.NoError(t, db.Create(&domain.LedgerEntry{
		UserID:        1,
		SpotID:        1,
		LotID:         1,
		VehicleNumber: "V-done",
		EntryTime:     time.Now().Add(-48 * time.Hour),
		ExitTime:      &exit,
		Cost:          &cost,
	}).Error)

	alerts, err := svc.Scan(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestScan_NoOpenEntries(t *testing.T) {
	svc, _ := setupOverdueTest(t)

	alerts, err := svc.Scan(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}
