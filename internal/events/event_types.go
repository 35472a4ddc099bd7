package events

import (
	"time"

	"github.com/newsdesk/newsroom/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserLoggedIn   EventType = "user_logged_in"
	EventUserCreated    EventType = "user_created"
	EventUserUpdated    EventType = "user_updated"
	EventUserDeleted    EventType = "user_deleted"
	EventArticleCreated EventType = "article_created"
	EventArticleUpdated EventType = "article_updated"
	EventArticleDeleted EventType = "article_deleted"
	EventCommentAdded   EventType = "comment_added"
)

// ArticleEvents change what the front page shows.
var ArticleEvents = []EventType{
	EventArticleCreated,
	EventArticleUpdated,
	EventArticleDeleted,
	EventCommentAdded,
	EventUserUpdated,
	EventUserDeleted,
}

// AllEvents lists every event type, for subscribers that want everything.
var AllEvents = []EventType{
	EventUserRegistered,
	EventUserLoggedIn,
	EventUserCreated,
	EventUserUpdated,
	EventUserDeleted,
	EventArticleCreated,
	EventArticleUpdated,
	EventArticleDeleted,
	EventCommentAdded,
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string          `json:"user_id,omitempty"`
	Role   domain.RoleName `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	Resource   string      `json:"resource"`
	ResourceID string      `json:"resource_id"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload,omitempty"`
}

// ArticleChangedPayload describes article writes.
type ArticleChangedPayload struct {
	Title    string   `json:"title,omitempty"`
	Fields   []string `json:"fields,omitempty"`
	AuthorID string   `json:"author_id,omitempty"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID string `json:"comment_id"`
	Preview   string `json:"preview"`
}

// UserChangedPayload describes account writes.
type UserChangedPayload struct {
	Username string          `json:"username,omitempty"`
	Role     domain.RoleName `json:"role,omitempty"`
	Fields   []string        `json:"fields,omitempty"`
}
