package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/idcard-api/internal/dto"
	"github.com/noah-isme/idcard-api/internal/middleware"
	"github.com/noah-isme/idcard-api/internal/service"
	"github.com/noah-isme/idcard-api/internal/utils"
)

// AuthHandlerConfig tunes the session cookie and login throttling.
type AuthHandlerConfig struct {
	SecureCookie bool
	LoginLimiter fiber.Handler
}

// AuthHandler serves signup, login and logout.
type AuthHandler struct {
	service service.AuthService
	config  AuthHandlerConfig
	logger  zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AuthService, config AuthHandlerConfig, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires the public auth routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Get("/login", h.loginPage)
	if h.config.LoginLimiter != nil {
		router.Post("/login", h.config.LoginLimiter, h.login)
	} else {
		router.Post("/login", h.login)
	}
	router.Post("/signup", h.signup)
	router.Get("/logout", h.Logout)
}

func (h *AuthHandler) loginPage(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "login", dto.LoginPageResponse{Error: c.Query("error")})
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to log in")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(time.Until(result.ExpiresAt).Seconds()),
		HTTPOnly: true,
		Secure:   h.config.SecureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	requestLogger(h.logger, c).Info().Str("user_id", result.Response.User.ID).Msg("user logged in")
	return utils.SendSuccess(c, "login successful", result.Response)
}

func (h *AuthHandler) signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.Signup(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to sign up")
	}

	return utils.SendCreated(c, "signup successful, please log in", user)
}

// Logout clears the session token and sends the browser to the login page.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	middleware.ClearTokenCookie(c)
	return utils.SendRedirect(c, service.LoginPage)
}
