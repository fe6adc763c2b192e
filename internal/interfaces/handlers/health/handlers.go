package health

import (
	"context"

	"parkwise-backend/internal/application/lots"
	healthsvc "parkwise-backend/internal/health"
	"parkwise-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	Rdb    *redis.Client
	DB     healthsvc.DBPinger
	LotSvc *lots.Service
}

// JSON GET /health/json — liveness plus the occupancy-consistency report.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	report := healthsvc.Collect(context.Background(), h.Rdb, h.DB, h.LotSvc)
	status := fiber.StatusOK
	if report.Status != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(report)
}

// Reset GET /health/reset — clears the request counters.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	if h.Rdb != nil {
		h.Rdb.Del(context.Background(),
			middleware.KeyReqTotal,
			middleware.KeyReqErrors,
			middleware.KeyResTime,
			middleware.KeyResCount,
			middleware.KeyLastReq,
		)
	}
	return c.JSON(fiber.Map{"status": "reset"})
}
