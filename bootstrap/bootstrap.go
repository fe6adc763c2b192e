package bootstrap

import (
	"parkwise-backend/internal/config"
	"parkwise-backend/internal/interfaces/router"

	"github.com/gofiber/fiber/v2"
)

// New creates the Fiber app from environment config.
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	app, _, _, _, err := router.CreateApp(cfg)
	return app, err
}
