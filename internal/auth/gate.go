package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/newsdesk/newsroom/internal/domain"
)

// Redirect targets used by the dashboard gate.
const (
	LoginPath = "/login"
	HomePath  = "/"
)

// DashboardGate screens navigation under prefix before any handler runs.
// It trusts the role claim and never touches storage, so it is advisory:
// API routes still authorize through Guard.
func DashboardGate(tokens *TokenManager, cookieName, prefix string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !underPrefix(c.Path(), prefix) {
			return c.Next()
		}

		token := TokenFromRequest(c, cookieName)
		if token == "" {
			return c.Redirect(LoginPath, fiber.StatusFound)
		}
		claims, err := tokens.Verify(token)
		if err != nil {
			return c.Redirect(LoginPath, fiber.StatusFound)
		}
		if claims.Role == "" || claims.Role == domain.RoleUser {
			return c.Redirect(HomePath, fiber.StatusFound)
		}
		return c.Next()
	}
}

// underPrefix matches case-insensitively because fiber routes that way by
// default.
func underPrefix(path, prefix string) bool {
	path, prefix = strings.ToLower(path), strings.ToLower(prefix)
	return path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/")
}
