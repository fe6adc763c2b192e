package middleware

import (
	"context"
	"encoding/json"
	"time"

	"parkwise-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionConfig for the Redis-backed session.
type SessionConfig struct {
	Secret       string
	RedisURL     string
	IsProduction bool
}

const (
	sessionCookieName  = "parkwise.sid"
	SessionRedisPrefix = "session:"
	sessionMaxAge      = 24 * time.Hour
)

const identityLocal = "identity"

// Session returns a Fiber middleware that loads the caller's identity from
// Redis into Locals. The session payload is the typed domain.Identity, not
// a free-form map; handlers downstream only ever see the verified
// (user, role) pair.
func Session(cfg SessionConfig) (fiber.Handler, *redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	rdb := redis.NewClient(opt)

	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(sessionCookieName)
		if sessionID != "" {
			b, err := rdb.Get(context.Background(), SessionRedisPrefix+sessionID).Bytes()
			if err == nil {
				var ident domain.Identity
				if json.Unmarshal(b, &ident) == nil && ident.UserID != 0 {
					c.Locals(identityLocal, ident)
				}
			}
		}
		c.Locals("session_id", sessionID)
		return c.Next()
	}, rdb, nil
}

// StartSession stores the identity in Redis and sets the session cookie.
func StartSession(c *fiber.Ctx, rdb *redis.Client, cfg SessionConfig, ident domain.Identity) error {
	sessionID := uuid.New().String()
	b, err := json.Marshal(ident)
	if err != nil {
		return err
	}
	if err := rdb.Set(context.Background(), SessionRedisPrefix+sessionID, b, sessionMaxAge).Err(); err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		MaxAge:   int(sessionMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   cfg.IsProduction,
		SameSite: "Lax",
		Path:     "/",
	})
	c.Locals(identityLocal, ident)
	return nil
}

// EndSession deletes the session from Redis and clears the cookie.
func EndSession(c *fiber.Ctx, rdb *redis.Client) error {
	if sid, _ := c.Locals("session_id").(string); sid != "" {
		if err := rdb.Del(context.Background(), SessionRedisPrefix+sid).Err(); err != nil {
			return err
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		Path:     "/",
	})
	c.Locals(identityLocal, nil)
	return nil
}

// GetIdentity returns the verified identity for the request, if any.
func GetIdentity(c *fiber.Ctx) (domain.Identity, bool) {
	ident, ok := c.Locals(identityLocal).(domain.Identity)
	return ident, ok
}
