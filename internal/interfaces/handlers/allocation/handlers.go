package allocation

import (
	"errors"

	allocsvc "parkwise-backend/internal/application/allocation"
	"parkwise-backend/internal/domain"
	"parkwise-backend/internal/middleware"
	"parkwise-backend/internal/pkg/response"
	"parkwise-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *allocsvc.Service
}

// Reserve POST /api/v1/parking/reserve
func (h *Handlers) Reserve(c *fiber.Ctx) error {
	var body struct {
		LotID         uint   `json:"lot_id"`
		VehicleNumber string `json:"vehicle_number"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if body.LotID == 0 {
		return response.Error(c, "lot_id is required", fiber.StatusBadRequest, nil)
	}
	if !validation.IsValidVehicleNumber(body.VehicleNumber) {
		return response.Error(c, "Invalid vehicle number", fiber.StatusBadRequest, nil)
	}

	ident, _ := middleware.GetIdentity(c)
	handle, err := h.Service.Reserve(c.Context(), ident.UserID, body.LotID, body.VehicleNumber)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyReserved):
			return response.Error(c, "You already have an active reservation", fiber.StatusConflict, nil)
		case errors.Is(err, domain.ErrLotFull):
			return response.Error(c, "No available spots in this lot", fiber.StatusConflict, nil)
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Lot not found")
		default:
			return response.Error(c, "Reservation failed", fiber.StatusInternalServerError, nil)
		}
	}

	return response.SuccessCreated(c, "Spot reserved", handle, nil)
}

// Release POST /api/v1/parking/release
func (h *Handlers) Release(c *fiber.Ctx) error {
	ident, _ := middleware.GetIdentity(c)

	receipt, err := h.Service.Release(c.Context(), ident.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInterval) {
			return response.Error(c, "Entry time is in the future; cannot bill", fiber.StatusUnprocessableEntity, nil)
		}
		return response.Error(c, "Release failed", fiber.StatusInternalServerError, nil)
	}
	if receipt == nil {
		return response.Success(c, "No active reservation to release", nil, nil)
	}

	return response.Success(c, "Spot released", fiber.Map{
		"spot_number":    receipt.SpotNumber,
		"duration_hours": receipt.Duration.Hours(),
		"cost":           receipt.Cost,
		"orphaned":       receipt.Orphaned,
	}, nil)
}

// Active GET /api/v1/parking/active
func (h *Handlers) Active(c *fiber.Ctx) error {
	ident, _ := middleware.GetIdentity(c)

	handle, err := h.Service.ActiveReservation(c.Context(), ident.UserID)
	if err != nil {
		return response.Error(c, "Lookup failed", fiber.StatusInternalServerError, nil)
	}
	if handle == nil {
		return response.Success(c, "No active reservation", nil, nil)
	}
	return response.Success(c, "Active reservation", handle, nil)
}

// History GET /api/v1/parking/history
func (h *Handlers) History(c *fiber.Ctx) error {
	ident, _ := middleware.GetIdentity(c)

	entries, err := h.Service.UserHistory(c.Context(), ident.UserID)
	if err != nil {
		return response.Error(c, "Lookup failed", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Parking history", entries, nil)
}
