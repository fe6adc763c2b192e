package overdue

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	overduesvc "parkwise-backend/internal/application/overdue"
	"parkwise-backend/internal/domain"
	"parkwise-backend/internal/infrastructure/database"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOverdueApp(t *testing.T) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	h := &Handlers{
		Service:          &overduesvc.Service{DB: db},
		DefaultThreshold: 24 * time.Hour,
	}
	app := fiber.New()
	app.Get("/alerts/overdue", h.Alerts)
	return app, db
}

func TestAlerts_DefaultThreshold(t *testing.T) {
	app, db := setupOverdueApp(t)
	require.NoError(t, db.Create(&domain.LedgerEntry{
		UserID: 1, SpotID: 1, LotID: 1,
		VehicleNumber: "V-1", EntryTime: time.Now().Add(-30 * time.Hour),
	}).Error)
	require.NoError(t, db.Create(&domain.LedgerEntry{
		UserID: 2, SpotID: 2, LotID: 1,
		VehicleNumber: "V-2", EntryTime: time.Now().Add(-2 * time.Hour),
	}).Error)

	resp, err := app.Test(httptest.NewRequest("GET", "/alerts/overdue", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	data, _ := body["data"].([]interface{})
	require.Len(t, data, 1)
	meta, _ := body["metadata"].(map[string]interface{})
	assert.EqualValues(t, 24, meta["threshold_hours"])
}

func TestAlerts_CustomThreshold(t *testing.T) {
	app, db := setupOverdueApp(t)
	require.NoError(t, db.Create(&domain.LedgerEntry{
		UserID: 1, SpotID: 1, LotID: 1,
		VehicleNumber: "V-1", EntryTime: time.Now().Add(-2 * time.Hour),
	}).Error)

	resp, err := app.Test(httptest.NewRequest("GET", "/alerts/overdue?threshold_hours=1", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	data, _ := body["data"].([]interface{})
	assert.Len(t, data, 1)

	resp, err = app.Test(httptest.NewRequest("GET", "/alerts/overdue?threshold_hours=nope", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}
