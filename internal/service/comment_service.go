package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/newsdesk/newsroom/internal/auth"
	"github.com/newsdesk/newsroom/internal/domain"
	"github.com/newsdesk/newsroom/internal/events"
	"github.com/newsdesk/newsroom/internal/repository"
	apperrors "github.com/newsdesk/newsroom/pkg/util"
)

// CommentService handles reader comments.
type CommentService struct {
	comments   repository.CommentRepository
	articles   repository.ArticleRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// CommentDependencies bundles collaborators for the comment service.
type CommentDependencies struct {
	CommentRepo repository.CommentRepository
	ArticleRepo repository.ArticleRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	return &CommentService{
		comments:   deps.CommentRepo,
		articles:   deps.ArticleRepo,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
	}
}

// List returns an article's comments newest first. Unknown articles have none.
func (s *CommentService) List(ctx context.Context, articleID string) ([]domain.Comment, error) {
	comments, err := s.comments.ListByArticle(ctx, articleID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}

// Add posts a comment as caller.
func (s *CommentService) Add(ctx context.Context, caller *auth.Principal, articleID, content string) (*domain.Comment, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("unauthorized")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content is required", nil)
	}
	if _, err := s.articles.GetByID(ctx, articleID); err != nil {
		return nil, notFoundAs("article", err)
	}

	comment := &domain.Comment{
		ArticleID: articleID,
		UserID:    caller.ID(),
		Content:   content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, notFoundAs("article", err)
	}
	if comment.Author == nil {
		comment.Author = caller.User.Summary()
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventCommentAdded,
		Resource:   "article",
		ResourceID: articleID,
		Actor:      actorOf(caller),
		Payload:    events.CommentAddedPayload{CommentID: comment.ID, Preview: preview(content, 80)},
	})
	return comment, nil
}
