package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/newsdesk/newsroom/internal/auth"
	"github.com/newsdesk/newsroom/internal/cache"
	"github.com/newsdesk/newsroom/internal/domain"
	"github.com/newsdesk/newsroom/internal/events"
	"github.com/newsdesk/newsroom/internal/repository"
	apperrors "github.com/newsdesk/newsroom/pkg/util"
)

// ArticleService coordinates article workflows.
type ArticleService struct {
	articles   repository.ArticleRepository
	frontPage  cache.FrontPage
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ArticleDependencies bundles collaborators for the article service.
type ArticleDependencies struct {
	ArticleRepo repository.ArticleRepository
	FrontPage   cache.FrontPage
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// ArticleCreateInput describes a new article.
type ArticleCreateInput struct {
	Title           string
	Content         string
	Image           string
	IsMain          bool
	IsHeader        bool
	EditorSelection bool
}

// ArticleUpdateInput describes a partial update; nil fields are left alone.
type ArticleUpdateInput struct {
	ID              string
	Title           *string
	Content         *string
	Image           *string
	IsMain          *bool
	IsHeader        *bool
	EditorSelection *bool
}

// NewArticleService constructs the service.
func NewArticleService(deps ArticleDependencies) *ArticleService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArticleService{
		articles:   deps.ArticleRepo,
		frontPage:  deps.FrontPage,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// List returns articles newest first. Authors see only their own work;
// everyone else, anonymous callers included, sees everything.
func (s *ArticleService) List(ctx context.Context, caller *auth.Principal) ([]domain.Article, error) {
	var filter repository.ArticleFilter
	if caller != nil && caller.Role() == domain.RoleAuthor {
		id := caller.ID()
		filter.AuthorID = &id
	}
	articles, err := s.articles.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []domain.Article{}
	}
	return articles, nil
}

// Get returns one article.
func (s *ArticleService) Get(ctx context.Context, id string) (*domain.Article, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewNotFound("article", nil)
	}
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs("article", err)
	}
	return article, nil
}

// Create stores an article owned by caller. Header and editor flags are
// honoured for admins only.
func (s *ArticleService) Create(ctx context.Context, caller *auth.Principal, input ArticleCreateInput) (*domain.Article, error) {
	if caller == nil || !caller.Role().CanPublish() {
		return nil, apperrors.NewForbidden("forbidden")
	}

	article := &domain.Article{
		Title:    strings.TrimSpace(input.Title),
		Content:  input.Content,
		Image:    input.Image,
		IsMain:   input.IsMain,
		AuthorID: caller.ID(),
	}
	if article.Title == "" || strings.TrimSpace(article.Content) == "" || article.Image == "" {
		return nil, apperrors.NewValidationError("title, content, and image are required", nil)
	}
	if caller.Role().Elevated() {
		article.IsHeader = input.IsHeader
		article.EditorSelection = input.EditorSelection
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}
	if article.Author == nil {
		article.Author = caller.User.Summary()
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventArticleCreated,
		Resource:   "article",
		ResourceID: article.ID,
		Actor:      actorOf(caller),
		Payload:    events.ArticleChangedPayload{Title: article.Title, AuthorID: article.AuthorID},
	})
	return article, nil
}

// Update applies the provided fields when caller owns the article or is admin.
func (s *ArticleService) Update(ctx context.Context, caller *auth.Principal, input ArticleUpdateInput) (*domain.Article, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, apperrors.NewValidationError("invalid data", nil)
	}
	article, err := s.owned(ctx, caller, input.ID, "edit")
	if err != nil {
		return nil, err
	}

	var changed []string
	if input.Title != nil && strings.TrimSpace(*input.Title) != "" {
		article.Title = strings.TrimSpace(*input.Title)
		changed = append(changed, "title")
	}
	if input.Content != nil && strings.TrimSpace(*input.Content) != "" {
		article.Content = *input.Content
		changed = append(changed, "content")
	}
	if input.IsMain != nil {
		article.IsMain = *input.IsMain
		changed = append(changed, "isMain")
	}
	if caller.Role().Elevated() {
		if input.IsHeader != nil {
			article.IsHeader = *input.IsHeader
			changed = append(changed, "isHeader")
		}
		if input.EditorSelection != nil {
			article.EditorSelection = *input.EditorSelection
			changed = append(changed, "editorSelection")
		}
	}
	// an explicit empty image clears it
	if input.Image != nil {
		article.Image = *input.Image
		changed = append(changed, "image")
	}
	if len(changed) == 0 {
		return nil, apperrors.NewValidationError("nothing to update", nil)
	}

	if err := s.articles.Update(ctx, article); err != nil {
		return nil, notFoundAs("article", err)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventArticleUpdated,
		Resource:   "article",
		ResourceID: article.ID,
		Actor:      actorOf(caller),
		Payload:    events.ArticleChangedPayload{Title: article.Title, Fields: changed, AuthorID: article.AuthorID},
	})
	return article, nil
}

// Delete removes the article and its comments.
func (s *ArticleService) Delete(ctx context.Context, caller *auth.Principal, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewValidationError("invalid data", nil)
	}
	article, err := s.owned(ctx, caller, id, "delete")
	if err != nil {
		return err
	}
	if err := s.articles.Delete(ctx, article.ID); err != nil {
		return notFoundAs("article", err)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventArticleDeleted,
		Resource:   "article",
		ResourceID: article.ID,
		Actor:      actorOf(caller),
		Payload:    events.ArticleChangedPayload{Title: article.Title, AuthorID: article.AuthorID},
	})
	return nil
}

func (s *ArticleService) owned(ctx context.Context, caller *auth.Principal, id, verb string) (*domain.Article, error) {
	if caller == nil || !caller.Role().CanPublish() {
		return nil, apperrors.NewForbidden("forbidden")
	}
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs("article", err)
	}
	if !auth.CanModify(caller, article.AuthorID) {
		return nil, apperrors.NewForbidden("forbidden: you can only " + verb + " your own articles")
	}
	return article, nil
}

// FrontPage returns the cached home page layout, rebuilding it on a miss.
func (s *ArticleService) FrontPage(ctx context.Context) (*domain.FrontPage, error) {
	var (
		gen       uint64
		cacheable bool
	)
	if s.frontPage != nil {
		if page, ok := s.frontPage.Get(ctx); ok {
			return page, nil
		}
		var err error
		if gen, err = s.frontPage.Generation(ctx); err != nil {
			s.logger.Warn("front page cache generation unavailable", zap.Error(err))
		} else {
			cacheable = true
		}
	}

	articles, err := s.articles.List(ctx, repository.ArticleFilter{})
	if err != nil {
		return nil, err
	}
	page := domain.ArrangeFrontPage(articles)

	if cacheable {
		if err := s.frontPage.Set(ctx, gen, &page); err != nil {
			s.logger.Warn("front page cache write failed", zap.Error(err))
		}
	}
	return &page, nil
}
