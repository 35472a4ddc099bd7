package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/newsdesk/newsroom/internal/domain"
	apperrors "github.com/newsdesk/newsroom/pkg/util"
)

const principalKey = "auth_principal"

// AuthMiddleware extracts tokens from requests and loads principals.
type AuthMiddleware struct {
	tokens     *TokenManager
	guard      *Guard
	cookieName string
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, guard *Guard, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, guard: guard, cookieName: cookieName}
}

// TokenFromRequest reads a bearer token, falling back to the session cookie.
func TokenFromRequest(c *fiber.Ctx, cookieName string) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return c.Cookies(cookieName)
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token := TokenFromRequest(c, m.cookieName)
	if token == "" {
		return apperrors.NewUnauthorized("unauthorized")
	}

	claims, err := m.tokens.Verify(token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	principal, err := m.guard.Authorize(c.UserContext(), claims)
	if err != nil {
		return err
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// Optional loads a principal when a valid token is present and otherwise
// continues anonymously.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	token := TokenFromRequest(c, m.cookieName)
	if token == "" {
		return c.Next()
	}
	claims, err := m.tokens.Verify(token)
	if err != nil {
		return c.Next()
	}
	if principal, err := m.guard.Authorize(c.UserContext(), claims); err == nil {
		c.Locals(principalKey, principal)
	}
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	return principal, ok && principal != nil
}

// RequireRoles must run after Handle. It rejects principals whose stored role
// is not listed.
func RequireRoles(roles ...domain.RoleName) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("unauthorized")
		}
		if err := principal.require(roles...); err != nil {
			return err
		}
		return c.Next()
	}
}
