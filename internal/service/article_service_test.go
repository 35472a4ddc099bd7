package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/newsdesk/newsroom/internal/auth"
	"github.com/newsdesk/newsroom/internal/cache"
	"github.com/newsdesk/newsroom/internal/domain"
	"github.com/newsdesk/newsroom/internal/events"
	"github.com/newsdesk/newsroom/internal/mocks"
	"github.com/newsdesk/newsroom/internal/repository"
	apperrors "github.com/newsdesk/newsroom/pkg/util"
)

func principal(id string, role domain.RoleName) *auth.Principal {
	return &auth.Principal{User: &domain.User{ID: id, Username: id, Role: role}}
}

func ptr[T any](v T) *T { return &v }

func newArticleService(t *testing.T) (*ArticleService, *mocks.MockArticleRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockArticleRepository(ctrl)
	svc := NewArticleService(ArticleDependencies{
		ArticleRepo: repo,
		FrontPage:   cache.NewMemory(0),
		Dispatcher:  events.NewInMemoryDispatcher(),
	})
	return svc, repo
}

func TestArticleService_List_FiltersAuthors(t *testing.T) {
	svc, repo := newArticleService(t)
	ctx := context.Background()

	repo.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, f repository.ArticleFilter) ([]domain.Article, error) {
			require.NotNil(t, f.AuthorID)
			assert.Equal(t, "author-1", *f.AuthorID)
			return nil, nil
		})
	got, err := svc.List(ctx, principal("author-1", domain.RoleAuthor))
	require.NoError(t, err)
	assert.NotNil(t, got)

	for _, caller := range []*auth.Principal{nil, principal("u", domain.RoleUser), principal("a", domain.RoleAdmin)} {
		repo.EXPECT().List(gomock.Any(), repository.ArticleFilter{}).Return([]domain.Article{{ID: "x"}}, nil)
		got, err := svc.List(ctx, caller)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
}

func TestArticleService_Create(t *testing.T) {
	ctx := context.Background()
	input := ArticleCreateInput{
		Title: " Title ", Content: "<p>x</p>", Image: "data:image/png;base64,AA==",
		IsMain: true, IsHeader: true, EditorSelection: true,
	}

	t.Run("author cannot set admin flags", func(t *testing.T) {
		svc, repo := newArticleService(t)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, a *domain.Article) error {
				a.ID = "new"
				return nil
			})

		got, err := svc.Create(ctx, principal("author-1", domain.RoleAuthor), input)
		require.NoError(t, err)
		assert.Equal(t, "Title", got.Title)
		assert.Equal(t, "author-1", got.AuthorID)
		assert.True(t, got.IsMain)
		assert.False(t, got.IsHeader)
		assert.False(t, got.EditorSelection)
		assert.Equal(t, "author-1", got.Author.Username)
	})

	t.Run("admin sets admin flags", func(t *testing.T) {
		svc, repo := newArticleService(t)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		got, err := svc.Create(ctx, principal("admin-1", domain.RoleAdmin), input)
		require.NoError(t, err)
		assert.True(t, got.IsHeader)
		assert.True(t, got.EditorSelection)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, _ := newArticleService(t)
		_, err := svc.Create(ctx, principal("admin-1", domain.RoleAdmin), ArticleCreateInput{Title: "t", Content: "c"})
		assert.True(t, apperrors.IsStatus(err, http.StatusBadRequest))
	})

	t.Run("plain user", func(t *testing.T) {
		svc, _ := newArticleService(t)
		_, err := svc.Create(ctx, principal("u", domain.RoleUser), input)
		assert.True(t, apperrors.IsStatus(err, http.StatusForbidden))
	})
}

func TestArticleService_Update(t *testing.T) {
	ctx := context.Background()
	stored := func() *domain.Article {
		return &domain.Article{ID: "a1", Title: "Old", Content: "c", Image: "img", AuthorID: "author-1"}
	}

	t.Run("owner updates", func(t *testing.T) {
		svc, repo := newArticleService(t)
		repo.EXPECT().GetByID(gomock.Any(), "a1").Return(stored(), nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		got, err := svc.Update(ctx, principal("author-1", domain.RoleAuthor), ArticleUpdateInput{
			ID: "a1", Title: ptr("New"), IsHeader: ptr(true), Image: ptr(""),
		})
		require.NoError(t, err)
		assert.Equal(t, "New", got.Title)
		assert.False(t, got.IsHeader)
		assert.Empty(t, got.Image)
	})

	t.Run("other author is forbidden", func(t *testing.T) {
		svc, repo := newArticleService(t)
		repo.EXPECT().GetByID(gomock.Any(), "a1").Return(stored(), nil)

		_, err := svc.Update(ctx, principal("author-2", domain.RoleAuthor), ArticleUpdateInput{ID: "a1", Title: ptr("New")})
		assert.True(t, apperrors.IsStatus(err, http.StatusForbidden))
	})

	t.Run("admin edits any article", func(t *testing.T) {
		svc, repo := newArticleService(t)
		repo.EXPECT().GetByID(gomock.Any(), "a1").Return(stored(), nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		got, err := svc.Update(ctx, principal("admin-1", domain.RoleAdmin), ArticleUpdateInput{ID: "a1", EditorSelection: ptr(true)})
		require.NoError(t, err)
		assert.True(t, got.EditorSelection)
	})

	t.Run("nothing to update", func(t *testing.T) {
		svc, repo := newArticleService(t)
		repo.EXPECT().GetByID(gomock.Any(), "a1").Return(stored(), nil)

		_, err := svc.Update(ctx, principal("author-1", domain.RoleAuthor), ArticleUpdateInput{ID: "a1", IsHeader: ptr(true)})
		assert.True(t, apperrors.IsStatus(err, http.StatusBadRequest))
	})

	t.Run("missing article", func(t *testing.T) {
		svc, repo := newArticleService(t)
		repo.EXPECT().GetByID(gomock.Any(), "nope").Return(nil, repository.ErrNotFound)

		_, err := svc.Update(ctx, principal("admin-1", domain.RoleAdmin), ArticleUpdateInput{ID: "nope", Title: ptr("x")})
		assert.True(t, apperrors.IsStatus(err, http.StatusNotFound))
	})

	t.Run("missing id", func(t *testing.T) {
		svc, _ := newArticleService(t)
		_, err := svc.Update(ctx, principal("admin-1", domain.RoleAdmin), ArticleUpdateInput{})
		assert.True(t, apperrors.IsStatus(err, http.StatusBadRequest))
	})
}

func TestArticleService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, repo := newArticleService(t)

	repo.EXPECT().GetByID(gomock.Any(), "a1").Return(&domain.Article{ID: "a1", AuthorID: "author-1"}, nil).Times(2)
	repo.EXPECT().Delete(gomock.Any(), "a1").Return(nil)

	err := svc.Delete(ctx, principal("author-2", domain.RoleAuthor), "a1")
	assert.True(t, apperrors.IsStatus(err, http.StatusForbidden))

	require.NoError(t, svc.Delete(ctx, principal("author-1", domain.RoleAuthor), "a1"))
}

func TestArticleService_FrontPageCached(t *testing.T) {
	ctx := context.Background()
	svc, repo := newArticleService(t)

	repo.EXPECT().List(gomock.Any(), repository.ArticleFilter{}).Return([]domain.Article{
		{ID: "a1"},
		{ID: "a2", IsMain: true},
	}, nil).Times(1)

	page, err := svc.FrontPage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a2", page.Hero.ID)

	again, err := svc.FrontPage(ctx)
	require.NoError(t, err)
	assert.Equal(t, page, again)
}

func TestArticleService_FrontPageNotCachedAcrossInvalidate(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockArticleRepository(ctrl)
	fp := cache.NewMemory(0)
	svc := NewArticleService(ArticleDependencies{ArticleRepo: repo, FrontPage: fp})

	// the article set changes after the rebuild has read it
	repo.EXPECT().List(gomock.Any(), repository.ArticleFilter{}).DoAndReturn(
		func(context.Context, repository.ArticleFilter) ([]domain.Article, error) {
			require.NoError(t, fp.Invalidate(ctx))
			return []domain.Article{{ID: "old", IsMain: true}}, nil
		})
	repo.EXPECT().List(gomock.Any(), repository.ArticleFilter{}).Return(
		[]domain.Article{{ID: "new", IsMain: true}}, nil)

	page, err := svc.FrontPage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "old", page.Hero.ID)

	page, err = svc.FrontPage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", page.Hero.ID)
}
