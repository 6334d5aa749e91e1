package session

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CookieName is the browser cookie carrying the session identifier.
const CookieName = "sid"

const localsKey = "session_id"

// Config tunes the session cookie.
type Config struct {
	TTL    time.Duration
	Secure bool
}

// Middleware binds every request to a session identifier, issuing a new cookie when the
// browser has none or sends a malformed one.
func Middleware(cfg Config) fiber.Handler {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Cookies(CookieName))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Cookie(&fiber.Cookie{
			Name:     CookieName,
			Value:    id,
			Path:     "/",
			MaxAge:   int(ttl.Seconds()),
			HTTPOnly: true,
			Secure:   cfg.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		c.Locals(localsKey, id)

		return c.Next()
	}
}

// ID returns the session identifier bound by Middleware, or an empty string.
func ID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if value, ok := c.Locals(localsKey).(string); ok {
		return value
	}
	return ""
}
