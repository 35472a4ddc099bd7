package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/newsdesk/newsroom/internal/api/dto"
	"github.com/newsdesk/newsroom/internal/auth"
	"github.com/newsdesk/newsroom/internal/service"
)

// ArticlesHandler exposes the news endpoints.
type ArticlesHandler struct {
	articles *service.ArticleService
	payloads *PayloadReader
}

// NewArticlesHandler constructs handler.
func NewArticlesHandler(articles *service.ArticleService, payloads *PayloadReader) *ArticlesHandler {
	return &ArticlesHandler{articles: articles, payloads: payloads}
}

// List handles GET /api/news.
func (h *ArticlesHandler) List(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	articles, err := h.articles.List(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return ok(c, dto.NewArticleViews(articles))
}

// Get handles GET /api/news/:id.
func (h *ArticlesHandler) Get(c *fiber.Ctx) error {
	article, err := h.articles.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, dto.NewArticleView(article))
}

// FrontPage handles GET /api/front-page.
func (h *ArticlesHandler) FrontPage(c *fiber.Ctx) error {
	page, err := h.articles.FrontPage(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, dto.NewFrontPageView(page))
}

// Create handles POST /api/news.
func (h *ArticlesHandler) Create(c *fiber.Ctx) error {
	var req dto.ArticleCreateRequest
	if err := h.payloads.Read(c, &req); err != nil {
		return err
	}
	principal, _ := auth.PrincipalFromContext(c)

	article, err := h.articles.Create(c.UserContext(), principal, service.ArticleCreateInput{
		Title:           req.Title,
		Content:         req.Content,
		Image:           req.Image,
		IsMain:          req.IsMain,
		IsHeader:        req.IsHeader,
		EditorSelection: req.EditorSelection,
	})
	if err != nil {
		return err
	}
	return created(c, dto.NewArticleView(article))
}

// Update handles PATCH /api/news.
func (h *ArticlesHandler) Update(c *fiber.Ctx) error {
	var req dto.ArticleUpdateRequest
	if err := h.payloads.Read(c, &req); err != nil {
		return err
	}
	principal, _ := auth.PrincipalFromContext(c)

	article, err := h.articles.Update(c.UserContext(), principal, service.ArticleUpdateInput{
		ID:              req.ID,
		Title:           req.Title,
		Content:         req.Content,
		Image:           req.Image,
		IsMain:          req.IsMain,
		IsHeader:        req.IsHeader,
		EditorSelection: req.EditorSelection,
	})
	if err != nil {
		return err
	}
	return ok(c, dto.NewArticleView(article))
}

// Delete handles DELETE /api/news.
func (h *ArticlesHandler) Delete(c *fiber.Ctx) error {
	var req dto.IDRequest
	if err := h.payloads.Read(c, &req); err != nil {
		return err
	}
	principal, _ := auth.PrincipalFromContext(c)

	if err := h.articles.Delete(c.UserContext(), principal, req.ID); err != nil {
		return err
	}
	return done(c, "deleted")
}
