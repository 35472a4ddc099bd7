package dto

import (
	"time"

	"github.com/newsdesk/newsroom/internal/domain"
)

// ArticleView is an article with its author and comment count.
type ArticleView struct {
	ID              string              `json:"id"`
	Title           string              `json:"title"`
	Content         string              `json:"content"`
	Image           string              `json:"image"`
	IsMain          bool                `json:"isMain"`
	IsHeader        bool                `json:"isHeader"`
	EditorSelection bool                `json:"editorSelection"`
	Author          *domain.UserSummary `json:"author"`
	CommentCount    int                 `json:"commentCount"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// ArticleCreateRequest payload.
type ArticleCreateRequest struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	Image           string `json:"image"`
	IsMain          bool   `json:"isMain"`
	IsHeader        bool   `json:"isHeader"`
	EditorSelection bool   `json:"editorSelection"`
}

// ArticleUpdateRequest is a partial update.
type ArticleUpdateRequest struct {
	ID              string  `json:"id"`
	Title           *string `json:"title"`
	Content         *string `json:"content"`
	Image           *string `json:"image"`
	IsMain          *bool   `json:"isMain"`
	IsHeader        *bool   `json:"isHeader"`
	EditorSelection *bool   `json:"editorSelection"`
}

// FrontPageView is the home page layout.
type FrontPageView struct {
	Hero     *ArticleView  `json:"hero"`
	Featured []ArticleView `json:"featured"`
	Regular  []ArticleView `json:"regular"`
}

// NewArticleView projects an article for responses.
func NewArticleView(a *domain.Article) ArticleView {
	return ArticleView{
		ID:              a.ID,
		Title:           a.Title,
		Content:         a.Content,
		Image:           a.Image,
		IsMain:          a.IsMain,
		IsHeader:        a.IsHeader,
		EditorSelection: a.EditorSelection,
		Author:          a.Author,
		CommentCount:    a.CommentCount,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// NewArticleViews projects a list of articles.
func NewArticleViews(articles []domain.Article) []ArticleView {
	out := make([]ArticleView, 0, len(articles))
	for i := range articles {
		out = append(out, NewArticleView(&articles[i]))
	}
	return out
}

// NewFrontPageView projects a front page.
func NewFrontPageView(page *domain.FrontPage) FrontPageView {
	view := FrontPageView{
		Featured: NewArticleViews(page.Featured),
		Regular:  NewArticleViews(page.Regular),
	}
	if page.Hero != nil {
		hero := NewArticleView(page.Hero)
		view.Hero = &hero
	}
	return view
}
