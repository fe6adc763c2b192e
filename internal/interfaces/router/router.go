package router

import (
	"time"

	allocsvc "parkwise-backend/internal/application/allocation"
	lotsvc "parkwise-backend/internal/application/lots"
	overduesvc "parkwise-backend/internal/application/overdue"
	"parkwise-backend/internal/auth"
	"parkwise-backend/internal/config"
	"parkwise-backend/internal/infrastructure/database"
	allochandler "parkwise-backend/internal/interfaces/handlers/allocation"
	authhandler "parkwise-backend/internal/interfaces/handlers/auth"
	healthhandler "parkwise-backend/internal/interfaces/handlers/health"
	lothandler "parkwise-backend/internal/interfaces/handlers/lots"
	overduehandler "parkwise-backend/internal/interfaces/handlers/overdue"
	"parkwise-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with all middleware and routes. The lot
// service is returned so the caller can run the periodic consistency check.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, *lotsvc.Service, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
	}))

	sessionCfg := middleware.SessionConfig{
		Secret:       cfg.SessionSecret,
		RedisURL:     cfg.RedisURL,
		IsProduction: cfg.Env == "production",
	}
	sessionHandler, redisClient, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(redisClient))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, nil, err
		}
		if err := auth.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return nil, nil, nil, nil, err
		}
	}

	var lotService *lotsvc.Service
	if db != nil {
		lotService = &lotsvc.Service{DB: db}
	}

	healthHandlers := &healthhandler.Handlers{
		Rdb:    redisClient,
		LotSvc: lotService,
	}
	if db != nil {
		healthHandlers.DB = &gormDBPinger{db: db}
	}
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/health/reset", healthHandlers.Reset)

	authHandlers := &authhandler.Handlers{DB: db, Rdb: redisClient, Config: sessionCfg}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/register", authHandlers.Register)
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	if db != nil {
		allocService := allocsvc.NewService(db)
		allocHandlers := &allochandler.Handlers{Service: allocService}
		parkingGroup := app.Group("/api/v1/parking", middleware.RequireAuth())
		parkingGroup.Post("/reserve", allocHandlers.Reserve)
		parkingGroup.Post("/release", allocHandlers.Release)
		parkingGroup.Get("/active", allocHandlers.Active)
		parkingGroup.Get("/history", allocHandlers.History)

		lotHandlers := &lothandler.Handlers{Service: lotService}
		lotGroup := app.Group("/api/v1/lots", middleware.RequireAuth())
		lotGroup.Get("/", lotHandlers.ListLots)
		lotGroup.Get("/:id", lotHandlers.GetLot)
		lotGroup.Get("/:id/spots", lotHandlers.Spots)
		lotGroup.Get("/:id/occupancy", lotHandlers.Occupancy)
		lotGroup.Post("/", middleware.RequireAdmin(), lotHandlers.CreateLot)
		lotGroup.Patch("/:id", middleware.RequireAdmin(), lotHandlers.UpdateLot)
		lotGroup.Delete("/:id", middleware.RequireAdmin(), lotHandlers.DeleteLot)

		overdueService := &overduesvc.Service{DB: db}
		overdueHandlers := &overduehandler.Handlers{
			Service:          overdueService,
			DefaultThreshold: time.Duration(cfg.OverdueThresholdHours * float64(time.Hour)),
		}
		alertGroup := app.Group("/api/v1/alerts", middleware.RequireAuth(), middleware.RequireAdmin())
		alertGroup.Get("/overdue", overdueHandlers.Alerts)
	}

	return app, db, redisClient, lotService, nil
}
