package lots

import (
	"errors"

	lotsvc "parkwise-backend/internal/application/lots"
	"parkwise-backend/internal/domain"
	"parkwise-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *lotsvc.Service
}

// CreateLot POST /api/v1/lots (admin)
func (h *Handlers) CreateLot(c *fiber.Ctx) error {
	var body struct {
		Name              string  `json:"name"`
		Address           string  `json:"address"`
		PinCode           string  `json:"pin_code"`
		TotalSpots        int     `json:"total_spots"`
		BasePrice         float64 `json:"base_price"`
		BaseDurationHours float64 `json:"base_duration_hours"`
		ExtraHourPrice    float64 `json:"extra_hour_price"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if body.Name == "" || body.Address == "" {
		return response.Error(c, "name and address are required", fiber.StatusBadRequest, nil)
	}
	if body.TotalSpots <= 0 {
		return response.Error(c, "total_spots must be a positive number", fiber.StatusBadRequest, nil)
	}
	if body.BasePrice < 0 || body.BaseDurationHours < 0 || body.ExtraHourPrice < 0 {
		return response.Error(c, "pricing values must not be negative", fiber.StatusBadRequest, nil)
	}

	lot, err := h.Service.CreateLot(c.Context(), lotsvc.CreateLotInput{
		Name:       body.Name,
		Address:    body.Address,
		PinCode:    body.PinCode,
		TotalSpots: body.TotalSpots,
		Pricing: domain.Pricing{
			BasePrice:         body.BasePrice,
			BaseDurationHours: body.BaseDurationHours,
			ExtraHourPrice:    body.ExtraHourPrice,
		},
	})
	if err != nil {
		return response.Error(c, "Lot creation failed", fiber.StatusInternalServerError, nil)
	}

	return response.SuccessCreated(c, "Lot created", lot, nil)
}

// ListLots GET /api/v1/lots
func (h *Handlers) ListLots(c *fiber.Ctx) error {
	lots, err := h.Service.ListLots(c.Context())
	if err != nil {
		return response.Error(c, "Lookup failed", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Lots", lots, nil)
}

// GetLot GET /api/v1/lots/:id
func (h *Handlers) GetLot(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.Error(c, "Invalid lot id", fiber.StatusBadRequest, nil)
	}

	lot, err := h.Service.GetLot(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Lot not found")
		}
		return response.Error(c, "Lookup failed", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Lot", lot, nil)
}

// UpdateLot PATCH /api/v1/lots/:id (admin) — metadata and pricing only.
func (h *Handlers) UpdateLot(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.Error(c, "Invalid lot id", fiber.StatusBadRequest, nil)
	}

	var body struct {
		Name              *string  `json:"name"`
		Address           *string  `json:"address"`
		PinCode           *string  `json:"pin_code"`
		BasePrice         *float64 `json:"base_price"`
		BaseDurationHours *float64 `json:"base_duration_hours"`
		ExtraHourPrice    *float64 `json:"extra_hour_price"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	lot, err := h.Service.UpdateLotMetadata(c.Context(), uint(id), lotsvc.UpdateLotMetadataInput{
		Name:              body.Name,
		Address:           body.Address,
		PinCode:           body.PinCode,
		BasePrice:         body.BasePrice,
		BaseDurationHours: body.BaseDurationHours,
		ExtraHourPrice:    body.ExtraHourPrice,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Lot not found")
		}
		return response.Error(c, "Update failed", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Lot updated", lot, nil)
}

// DeleteLot DELETE /api/v1/lots/:id (admin) — guarded by ledger history.
func (h *Handlers) DeleteLot(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.Error(c, "Invalid lot id", fiber.StatusBadRequest, nil)
	}

	if err := h.Service.DeleteLot(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Lot not found")
		case errors.Is(err, domain.ErrHasHistory):
			return response.Error(c, "Lot has reservation history and cannot be deleted", fiber.StatusConflict, nil)
		default:
			return response.Error(c, "Delete failed", fiber.StatusInternalServerError, nil)
		}
	}
	return response.Success(c, "Lot deleted", nil, nil)
}

// Spots GET /api/v1/lots/:id/spots
func (h *Handlers) Spots(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.Error(c, "Invalid lot id", fiber.StatusBadRequest, nil)
	}

	spots, err := h.Service.SpotsForLot(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Lot not found")
		}
		return response.Error(c, "Lookup failed", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Spots", spots, nil)
}

// Occupancy GET /api/v1/lots/:id/occupancy
func (h *Handlers) Occupancy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.Error(c, "Invalid lot id", fiber.StatusBadRequest, nil)
	}

	occ, err := h.Service.Occupancy(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Lot not found")
		}
		return response.Error(c, "Lookup failed", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Occupancy", occ, nil)
}
