package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/newsdesk/newsroom/internal/api/dto"
	"github.com/newsdesk/newsroom/internal/auth"
	"github.com/newsdesk/newsroom/internal/service"
	apperrors "github.com/newsdesk/newsroom/pkg/util"
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name     string
	HTTPOnly bool
	Secure   bool
	MaxAge   time.Duration
}

// AuthHandler exposes registration and session endpoints.
type AuthHandler struct {
	auth     *service.AuthService
	payloads *PayloadReader
	cookie   CookieConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, payloads *PayloadReader, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{auth: authService, payloads: payloads, cookie: cookie}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := h.payloads.Read(c, &req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}
	return created(c, dto.NewUserView(user))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := h.payloads.Read(c, &req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(h.sessionCookie(result.Token, result.ExpiresAt))
	return ok(c, dto.LoginResponse{
		Token:     result.Token,
		Role:      string(result.User.Role),
		ExpiresAt: result.ExpiresAt,
		User:      dto.NewUserView(result.User),
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	cookie := h.sessionCookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	c.Cookie(cookie)
	return done(c, "logged out")
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, found := auth.PrincipalFromContext(c)
	if !found {
		return apperrors.NewUnauthorized("unauthorized")
	}
	return ok(c, dto.NewUserView(principal.User))
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HTTPOnly: h.cookie.HTTPOnly,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
