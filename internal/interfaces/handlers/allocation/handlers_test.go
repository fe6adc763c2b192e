package allocation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	allocsvc "parkwise-backend/internal/application/allocation"
	lotsvc "parkwise-backend/internal/application/lots"
	"parkwise-backend/internal/domain"
	"parkwise-backend/internal/infrastructure/database"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupApp(t *testing.T, userID uint) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	h := &Handlers{Service: allocsvc.NewService(db)}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("identity", domain.Identity{UserID: userID, Role: domain.RoleUser})
		return c.Next()
	})
	app.Post("/reserve", h.Reserve)
	app.Post("/release", h.Release)
	app.Get("/active", h.Active)
	app.Get("/history", h.History)
	return app, db
}

func createLot(t *testing.T, db *gorm.DB, spots int) *domain.Lot {
	svc := &lotsvc.Service{DB: db}
	lot, err := svc.CreateLot(context.Background(), lotsvc.CreateLotInput{
		Name: "Lot", Address: "x", TotalSpots: spots,
		Pricing: domain.Pricing{BasePrice: 50, BaseDurationHours: 1, ExtraHourPrice: 20},
	})
	require.NoError(t, err)
	return lot
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()
	b, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var body map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestReserveHandler_Success(t *testing.T) {
	app, db := setupApp(t, 1)
	lot := createLot(t, db, 2)

	status, body := postJSON(t, app, "/reserve", fiber.Map{
		"lot_id": lot.ID, "vehicle_number": "KA-01-AB-1234",
	})
	assert.Equal(t, 201, status)
	assert.Equal(t, "success", body["status"])
	data, _ := body["data"].(map[string]interface{})
	assert.Equal(t, "Spot-1", data["spot_number"])
}

func TestReserveHandler_Validation(t *testing.T) {
	app, db := setupApp(t, 1)
	lot := createLot(t, db, 2)

	status, _ := postJSON(t, app, "/reserve", fiber.Map{"vehicle_number": "KA-01-AB-1234"})
	assert.Equal(t, 400, status)

	status, _ = postJSON(t, app, "/reserve", fiber.Map{"lot_id": lot.ID, "vehicle_number": ""})
	assert.Equal(t, 400, status)
}

func TestReserveHandler_Conflicts(t *testing.T) {
	app, db := setupApp(t, 1)
	lot := createLot(t, db, 1)

	status, _ := postJSON(t, app, "/reserve", fiber.Map{"lot_id": lot.ID, "vehicle_number": "V-1"})
	require.Equal(t, 201, status)

	// Same user again: already reserved.
	status, body := postJSON(t, app, "/reserve", fiber.Map{"lot_id": lot.ID, "vehicle_number": "V-1"})
	assert.Equal(t, 409, status)
	errObj, _ := body["error"].(map[string]interface{})
	assert.Contains(t, errObj["message"], "active reservation")
}

func TestReserveHandler_LotFullAndNotFound(t *testing.T) {
	app, db := setupApp(t, 2)
	lot := createLot(t, db, 1)

	// Occupy the only spot with another user.
	other := allocsvc.NewService(db)
	_, err := other.Reserve(context.Background(), 99, lot.ID, "V-other")
	require.NoError(t, err)

	status, _ := postJSON(t, app, "/reserve", fiber.Map{"lot_id": lot.ID, "vehicle_number": "V-2"})
	assert.Equal(t, 409, status)

	status, _ = postJSON(t, app, "/reserve", fiber.Map{"lot_id": 999, "vehicle_number": "V-2"})
	assert.Equal(t, 404, status)
}

func TestReleaseHandler_NoActiveIsOK(t *testing.T) {
	app, _ := setupApp(t, 1)

	status, body := postJSON(t, app, "/release", fiber.Map{})
	assert.Equal(t, 200, status)
	assert.Equal(t, "success", body["status"])
	assert.Nil(t, body["data"])
}

func TestReleaseHandler_ReturnsReceipt(t *testing.T) {
	app, db := setupApp(t, 1)
	lot := createLot(t, db, 1)

	status, _ := postJSON(t, app, "/reserve", fiber.Map{"lot_id": lot.ID, "vehicle_number": "V-1"})
	require.Equal(t, 201, status)

	status, body := postJSON(t, app, "/release", fiber.Map{})
	assert.Equal(t, 200, status)
	data, _ := body["data"].(map[string]interface{})
	assert.Equal(t, "Spot-1", data["spot_number"])
	assert.InDelta(t, 50.0, data["cost"].(float64), 0.01)
}

func TestActiveAndHistoryHandlers(t *testing.T) {
	app, db := setupApp(t, 1)
	lot := createLot(t, db, 1)

	req := httptest.NewRequest("GET", "/active", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	status, _ := postJSON(t, app, "/reserve", fiber.Map{"lot_id": lot.ID, "vehicle_number": "V-1"})
	require.Equal(t, 201, status)
	status, _ = postJSON(t, app, "/release", fiber.Map{})
	require.Equal(t, 200, status)

	req = httptest.NewRequest("GET", "/history", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	entries, _ := body["data"].([]interface{})
	assert.Len(t, entries, 1)
}
