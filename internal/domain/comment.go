package domain

import "time"

// Comment is a reader comment on an article.
type Comment struct {
	ID        string       `json:"id"`
	ArticleID string       `json:"articleId"`
	UserID    string       `json:"userId"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
	Author    *UserSummary `json:"-"`
}
