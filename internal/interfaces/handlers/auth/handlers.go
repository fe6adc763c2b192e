package auth

import (
	"errors"

	authsvc "parkwise-backend/internal/auth"
	"parkwise-backend/internal/middleware"
	"parkwise-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Handlers struct {
	DB     *gorm.DB
	Rdb    *redis.Client
	Config middleware.SessionConfig
}

// Register POST /api/v1/auth/register — normal users only; role is forced.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var body authsvc.RegisterInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	u, err := authsvc.RegisterUser(h.DB, body)
	if err != nil {
		if errors.Is(err, authsvc.ErrEmailTaken) {
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		}
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}

	return response.SuccessCreated(c, "Registered successfully", fiber.Map{
		"user_id": u.ID,
		"email":   u.Email,
	}, nil)
}

// Login POST /api/v1/auth/login — verifies credentials and starts a session.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var body authsvc.LoginInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	u, err := authsvc.LoginUser(h.DB, body)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrEmailPasswordRequired):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, authsvc.ErrInvalidEmail), errors.Is(err, authsvc.ErrIncorrectPassword):
			return response.Unauthorized(c, err.Error())
		default:
			return response.Error(c, "Login failed", fiber.StatusInternalServerError, nil)
		}
	}

	ident := authsvc.IdentityOf(u)
	if err := middleware.StartSession(c, h.Rdb, h.Config, ident); err != nil {
		log.Error().Err(err).Msg("session start failed")
		return response.Error(c, "Login failed", fiber.StatusInternalServerError, nil)
	}

	return response.Success(c, "Logged in", ident, nil)
}

// Me GET /api/v1/auth/me — returns the session identity.
func (h *Handlers) Me(c *fiber.Ctx) error {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		return response.Unauthorized(c, authsvc.ErrNotAuthenticated.Error())
	}
	return response.Success(c, "Authenticated", ident, nil)
}

// Logout DELETE /api/v1/auth/logout — ends the session.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if err := middleware.EndSession(c, h.Rdb); err != nil {
		return response.Error(c, "Logout failed", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Logged out", nil, nil)
}
