// Package web renders the server-side pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/newsdesk/newsroom/internal/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Page names accepted by Render.
const (
	PageHome      = "home"
	PageArticle   = "article"
	PageLogin     = "login"
	PageRegister  = "register"
	PageDashboard = "dashboard"
	PageUsers     = "users"
	PageError     = "error"
)

var pages = []string{PageHome, PageArticle, PageLogin, PageRegister, PageDashboard, PageUsers, PageError}

// PageData is passed to every template.
type PageData struct {
	Title   string
	Viewer  *domain.User
	Content any
}

// HomeContent feeds the front page.
type HomeContent struct {
	Page *domain.FrontPage
}

// ArticleContent feeds the article page.
type ArticleContent struct {
	Article  *domain.Article
	Comments []domain.Comment
}

// DashboardContent feeds the article dashboard.
type DashboardContent struct {
	Articles []domain.Article
}

// UsersContent feeds the user administration page.
type UsersContent struct {
	Users []domain.User
	Roles []domain.Role
}

// ErrorContent feeds the error page.
type ErrorContent struct {
	Status  int
	Message string
}

// Renderer executes the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs()).ParseFS(templateFS,
			"templates/layout.tmpl",
			"templates/"+name+".tmpl",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes the named page. Output is buffered so a template error never
// leaves a half-written response.
func (r *Renderer) Render(w io.Writer, page string, data PageData) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func funcs() template.FuncMap {
	return template.FuncMap{
		// article bodies come from authors and admins and are rendered as markup
		"articleHTML": func(s string) template.HTML {
			return template.HTML(DecodeEntities(s)) // #nosec G203
		},
		"imageURL":  imageURL,
		"author":    func(s *domain.UserSummary) string { return s.DisplayName() },
		"date":      func(t time.Time) string { return t.Format("Jan 2, 2006") },
		"canPublish": func(u *domain.User) bool {
			return u != nil && u.Role.CanPublish()
		},
		"isAdmin": func(u *domain.User) bool {
			return u != nil && u.Role.Elevated()
		},
	}
}

// imageURL passes inline images and web URLs through; anything else renders
// as no image.
func imageURL(s string) template.URL {
	switch {
	case strings.HasPrefix(s, "data:image/"),
		strings.HasPrefix(s, "https://"),
		strings.HasPrefix(s, "http://"),
		strings.HasPrefix(s, "/"):
		return template.URL(s) // #nosec G203
	default:
		return ""
	}
}
