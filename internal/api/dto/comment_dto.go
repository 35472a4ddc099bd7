package dto

import (
	"time"

	"github.com/newsdesk/newsroom/internal/domain"
)

// CommentCreateRequest payload.
type CommentCreateRequest struct {
	Content string `json:"content"`
}

// CommentView is a comment with its author.
type CommentView struct {
	ID        string              `json:"id"`
	ArticleID string              `json:"articleId"`
	Content   string              `json:"content"`
	Author    *domain.UserSummary `json:"author"`
	CreatedAt time.Time           `json:"createdAt"`
}

// NewCommentViews projects comments for responses.
func NewCommentViews(comments []domain.Comment) []CommentView {
	out := make([]CommentView, 0, len(comments))
	for i := range comments {
		out = append(out, NewCommentView(&comments[i]))
	}
	return out
}

// NewCommentView projects a comment.
func NewCommentView(c *domain.Comment) CommentView {
	return CommentView{
		ID:        c.ID,
		ArticleID: c.ArticleID,
		Content:   c.Content,
		Author:    c.Author,
		CreatedAt: c.CreatedAt,
	}
}
