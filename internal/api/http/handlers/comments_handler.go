package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/newsdesk/newsroom/internal/api/dto"
	"github.com/newsdesk/newsroom/internal/auth"
	"github.com/newsdesk/newsroom/internal/service"
)

// CommentsHandler exposes article comments.
type CommentsHandler struct {
	comments *service.CommentService
	payloads *PayloadReader
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(comments *service.CommentService, payloads *PayloadReader) *CommentsHandler {
	return &CommentsHandler{comments: comments, payloads: payloads}
}

// List handles GET /api/news/:id/comments.
func (h *CommentsHandler) List(c *fiber.Ctx) error {
	comments, err := h.comments.List(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewCommentViews(comments))
}

// Create handles POST /api/news/:id/comments.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	var req dto.CommentCreateRequest
	if err := h.payloads.Read(c, &req); err != nil {
		return err
	}
	principal, _ := auth.PrincipalFromContext(c)

	comment, err := h.comments.Add(c.UserContext(), principal, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return created(c, dto.NewCommentView(comment))
}
