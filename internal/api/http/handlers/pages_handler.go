package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/newsdesk/newsroom/internal/auth"
	"github.com/newsdesk/newsroom/internal/domain"
	"github.com/newsdesk/newsroom/internal/service"
	"github.com/newsdesk/newsroom/internal/web"
	apperrors "github.com/newsdesk/newsroom/pkg/util"
)

// PagesHandler serves the server-rendered site. Routes are expected to run
// behind AuthMiddleware.Optional so the viewer is known when signed in.
type PagesHandler struct {
	renderer *web.Renderer
	articles *service.ArticleService
	comments *service.CommentService
	users    *service.UserService
	roles    *service.RoleService
}

// PagesDependencies lists the services pages read from.
type PagesDependencies struct {
	Renderer *web.Renderer
	Articles *service.ArticleService
	Comments *service.CommentService
	Users    *service.UserService
	Roles    *service.RoleService
}

// NewPagesHandler constructs handler.
func NewPagesHandler(deps PagesDependencies) *PagesHandler {
	return &PagesHandler{
		renderer: deps.Renderer,
		articles: deps.Articles,
		comments: deps.Comments,
		users:    deps.Users,
		roles:    deps.Roles,
	}
}

// Home renders the front page.
func (h *PagesHandler) Home(c *fiber.Ctx) error {
	page, err := h.articles.FrontPage(c.UserContext())
	if err != nil {
		return h.renderError(c, err)
	}
	return h.render(c, fiber.StatusOK, web.PageHome, "Newsroom", web.HomeContent{Page: page})
}

// Article renders one article with its comments.
func (h *PagesHandler) Article(c *fiber.Ctx) error {
	article, err := h.articles.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.renderError(c, err)
	}
	comments, err := h.comments.List(c.UserContext(), article.ID)
	if err != nil {
		return h.renderError(c, err)
	}
	return h.render(c, fiber.StatusOK, web.PageArticle, article.Title, web.ArticleContent{
		Article:  article,
		Comments: comments,
	})
}

// Login renders the sign-in form.
func (h *PagesHandler) Login(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, web.PageLogin, "Sign in", nil)
}

// Register renders the sign-up form.
func (h *PagesHandler) Register(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, web.PageRegister, "Create account", nil)
}

// Dashboard lists the articles the viewer may manage.
func (h *PagesHandler) Dashboard(c *fiber.Ctx) error {
	principal, found := auth.PrincipalFromContext(c)
	if !found {
		return c.Redirect(auth.LoginPath, fiber.StatusFound)
	}
	if !principal.Role().CanPublish() {
		return c.Redirect(auth.HomePath, fiber.StatusFound)
	}

	articles, err := h.articles.List(c.UserContext(), principal)
	if err != nil {
		return h.renderError(c, err)
	}
	return h.render(c, fiber.StatusOK, web.PageDashboard, "Dashboard", web.DashboardContent{Articles: articles})
}

// Users renders account administration; non-admins go back to the dashboard.
func (h *PagesHandler) Users(c *fiber.Ctx) error {
	principal, found := auth.PrincipalFromContext(c)
	if !found {
		return c.Redirect(auth.LoginPath, fiber.StatusFound)
	}
	if principal.Role() != domain.RoleAdmin {
		return c.Redirect("/dashboard", fiber.StatusFound)
	}

	users, err := h.users.List(c.UserContext())
	if err != nil {
		return h.renderError(c, err)
	}
	roles, err := h.roles.List(c.UserContext())
	if err != nil {
		return h.renderError(c, err)
	}
	return h.render(c, fiber.StatusOK, web.PageUsers, "Users", web.UsersContent{Users: users, Roles: roles})
}

// NotFound renders the error page for unknown paths outside /api.
func (h *PagesHandler) NotFound(c *fiber.Ctx) error {
	return h.renderError(c, apperrors.NewNotFound("page", nil))
}

func (h *PagesHandler) renderError(c *fiber.Ctx, err error) error {
	domainErr := apperrors.ToDomainError(err)
	if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
		// let the error middleware log it and answer
		return err
	}
	return h.render(c, domainErr.HTTPStatus, web.PageError, "Error", web.ErrorContent{
		Status:  domainErr.HTTPStatus,
		Message: domainErr.Message,
	})
}

func (h *PagesHandler) render(c *fiber.Ctx, status int, page, title string, content any) error {
	data := web.PageData{Title: title, Content: content}
	if principal, found := auth.PrincipalFromContext(c); found {
		data.Viewer = principal.User
	}
	c.Status(status)
	c.Type("html", "utf-8")
	return h.renderer.Render(c, page, data)
}
