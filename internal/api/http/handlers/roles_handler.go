package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/newsdesk/newsroom/internal/service"
)

// RolesHandler lists role definitions.
type RolesHandler struct {
	roles *service.RoleService
}

// NewRolesHandler constructs handler.
func NewRolesHandler(roles *service.RoleService) *RolesHandler {
	return &RolesHandler{roles: roles}
}

// List handles GET /api/roles.
func (h *RolesHandler) List(c *fiber.Ctx) error {
	roles, err := h.roles.List(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, roles)
}
