package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/newsdesk/newsroom/internal/api/dto"
	"github.com/newsdesk/newsroom/internal/auth"
	"github.com/newsdesk/newsroom/internal/domain"
	"github.com/newsdesk/newsroom/internal/service"
)

// UsersHandler exposes admin account management.
type UsersHandler struct {
	users    *service.UserService
	payloads *PayloadReader
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService, payloads *PayloadReader) *UsersHandler {
	return &UsersHandler{users: users, payloads: payloads}
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, dto.NewUserViews(users))
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.UserCreateRequest
	if err := h.payloads.Read(c, &req); err != nil {
		return err
	}
	principal, _ := auth.PrincipalFromContext(c)

	user, err := h.users.Create(c.UserContext(), principal, service.UserCreateInput{
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

// Update handles PATCH /api/users.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UserUpdateRequest
	if err := h.payloads.Read(c, &req); err != nil {
		return err
	}
	principal, _ := auth.PrincipalFromContext(c)

	input := service.UserUpdateInput{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Password:  req.Password,
	}
	if req.Role != nil {
		role := domain.RoleName(*req.Role)
		input.Role = &role
	}

	user, err := h.users.Update(c.UserContext(), principal, input)
	if err != nil {
		return err
	}
	return ok(c, dto.NewUserView(user))
}

// Delete handles DELETE /api/users.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	var req dto.IDRequest
	if err := h.payloads.Read(c, &req); err != nil {
		return err
	}
	principal, _ := auth.PrincipalFromContext(c)

	if err := h.users.Delete(c.UserContext(), principal, req.ID); err != nil {
		return err
	}
	return done(c, "deleted")
}
