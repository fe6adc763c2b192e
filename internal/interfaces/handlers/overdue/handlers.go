package overdue

import (
	"strconv"
	"time"

	overduesvc "parkwise-backend/internal/application/overdue"
	"parkwise-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service          *overduesvc.Service
	DefaultThreshold time.Duration
}

// Alerts GET /api/v1/alerts/overdue?threshold_hours= (admin)
func (h *Handlers) Alerts(c *fiber.Ctx) error {
	threshold := h.DefaultThreshold

	if raw := c.Query("threshold_hours"); raw != "" {
		hours, err := strconv.ParseFloat(raw, 64)
		if err != nil || hours <= 0 {
			return response.Error(c, "threshold_hours must be a positive number", fiber.StatusBadRequest, nil)
		}
		threshold = time.Duration(hours * float64(time.Hour))
	}

	alerts, err := h.Service.Scan(c.Context(), threshold)
	if err != nil {
		return response.Error(c, "Scan failed", fiber.StatusInternalServerError, nil)
	}

	return response.Success(c, "Overdue reservations", alerts, fiber.Map{
		"threshold_hours": threshold.Hours(),
		"count":           len(alerts),
	})
}
