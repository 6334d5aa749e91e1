package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/idcard-api/internal/service"
	"github.com/noah-isme/idcard-api/internal/utils"
)

// TokenCookie is the HTTP-only cookie carrying the signed session token.
const TokenCookie = "token"

const actorKey = "actor"

// Authenticator resolves a session token into the acting user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (service.Actor, error)
}

// RequireSession validates the token cookie and redirects to loginPath when it is missing or invalid.
// Lookup failures other than service.ErrUnauthenticated answer 500 and keep the cookie.
func RequireSession(authenticator Authenticator, loginPath string, logger zerolog.Logger) fiber.Handler {
	if loginPath == "" {
		loginPath = service.LoginPage
	}
	logger = logger.With().Str("component", "session_auth").Logger()

	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(c.Cookies(TokenCookie))
		if token == "" {
			return c.Redirect(loginPath, fiber.StatusFound)
		}

		actor, err := authenticator.Authenticate(c.UserContext(), token)
		if errors.Is(err, service.ErrUnauthenticated) {
			ClearTokenCookie(c)
			return c.Redirect(loginPath, fiber.StatusFound)
		}
		if err != nil {
			logger.Error().Err(err).Str("correlation_id", GetCorrelationID(c)).Str("path", c.Path()).Msg("session lookup failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to verify session")
		}

		c.Locals("user_id", actor.UserID)
		c.Locals("user_role", actor.Role)
		c.Locals("school_id", actor.SchoolID)
		c.Locals(actorKey, actor)

		return c.Next()
	}
}

// ActorFrom returns the actor bound by RequireSession.
func ActorFrom(c *fiber.Ctx) (service.Actor, bool) {
	actor, ok := c.Locals(actorKey).(service.Actor)
	return actor, ok
}

// ClearTokenCookie expires the session token cookie.
func ClearTokenCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
