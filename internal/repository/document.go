package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/newsdesk/newsroom/internal/docstore"
	"github.com/newsdesk/newsroom/internal/domain"
)

const (
	collUsers     = "users"
	collUsernames = "usernames"
	collRoles     = "roles"
	collArticles  = "articles"
	collComments  = "comments"
)

// NewDocumentRepositories returns implementations backed by a docstore.Store
// (bbolt on disk, or memory for tests and development).
func NewDocumentRepositories(store docstore.Store) Repositories {
	return Repositories{
		Users:    &docUserRepository{store: store},
		Roles:    &docRoleRepository{store: store},
		Articles: &docArticleRepository{store: store},
		Comments: &docCommentRepository{store: store},
	}
}

func now() time.Time {
	return time.Now().UTC()
}

// usernameKey folds case so "Alice" and "alice" collide.
func usernameKey(username string) string {
	return strings.ToLower(username)
}

func summaryFor(tx docstore.Tx, userID string) *domain.UserSummary {
	if userID == "" {
		return nil
	}
	var user domain.User
	if err := docstore.GetJSON(tx, collUsers, userID, &user); err != nil {
		return nil
	}
	return user.Summary()
}

type docUserRepository struct {
	store docstore.Store
}

func (r *docUserRepository) Create(_ context.Context, user *domain.User) error {
	return mapDocError(r.store.Update(func(tx docstore.Tx) error {
		if _, err := tx.Get(collUsernames, usernameKey(user.Username)); err == nil {
			return ErrDuplicate
		}
		if err := r.requireRole(tx, user.Role); err != nil {
			return err
		}
		user.ID = uuid.NewString()
		user.CreatedAt = now()
		user.UpdatedAt = user.CreatedAt
		if err := tx.Put(collUsernames, usernameKey(user.Username), []byte(user.ID)); err != nil {
			return err
		}
		return docstore.PutJSON(tx, collUsers, user.ID, user)
	}))
}

func (r *docUserRepository) Update(_ context.Context, user *domain.User) error {
	return mapDocError(r.store.Update(func(tx docstore.Tx) error {
		var existing domain.User
		if err := docstore.GetJSON(tx, collUsers, user.ID, &existing); err != nil {
			return err
		}
		if err := r.requireRole(tx, user.Role); err != nil {
			return err
		}
		oldKey, newKey := usernameKey(existing.Username), usernameKey(user.Username)
		if oldKey != newKey {
			if _, err := tx.Get(collUsernames, newKey); err == nil {
				return ErrDuplicate
			}
			if err := tx.Delete(collUsernames, oldKey); err != nil && !errors.Is(err, docstore.ErrNotFound) {
				return err
			}
			if err := tx.Put(collUsernames, newKey, []byte(user.ID)); err != nil {
				return err
			}
		}
		user.CreatedAt = existing.CreatedAt
		user.UpdatedAt = now()
		return docstore.PutJSON(tx, collUsers, user.ID, user)
	}))
}

// requireRole mirrors the foreign key the SQL schema enforces.
func (r *docUserRepository) requireRole(tx docstore.Tx, name domain.RoleName) error {
	_, err := tx.Get(collRoles, string(name))
	return err
}

func (r *docUserRepository) Delete(_ context.Context, id string) error {
	return mapDocError(r.store.Update(func(tx docstore.Tx) error {
		var existing domain.User
		if err := docstore.GetJSON(tx, collUsers, id, &existing); err != nil {
			return err
		}
		if err := tx.Delete(collUsernames, usernameKey(existing.Username)); err != nil && !errors.Is(err, docstore.ErrNotFound) {
			return err
		}
		return tx.Delete(collUsers, id)
	}))
}

func (r *docUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.store.View(func(tx docstore.Tx) error {
		return docstore.GetJSON(tx, collUsers, id, &user)
	})
	if err != nil {
		return nil, mapDocError(err)
	}
	return &user, nil
}

func (r *docUserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.store.View(func(tx docstore.Tx) error {
		id, err := tx.Get(collUsernames, usernameKey(username))
		if err != nil {
			return err
		}
		return docstore.GetJSON(tx, collUsers, string(id), &user)
	})
	if err != nil {
		return nil, mapDocError(err)
	}
	return &user, nil
}

func (r *docUserRepository) List(_ context.Context) ([]domain.User, error) {
	var result []domain.User
	err := r.store.View(func(tx docstore.Tx) error {
		return docstore.Each(tx, collUsers, func(user *domain.User) error {
			result = append(result, *user)
			return nil
		})
	})
	if err != nil {
		return nil, mapDocError(err)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Username < result[j].Username
	})
	return result, nil
}

// Roles are keyed by name; the name doubles as the id.
type docRoleRepository struct {
	store docstore.Store
}

func (r *docRoleRepository) List(_ context.Context) ([]domain.Role, error) {
	var result []domain.Role
	err := r.store.View(func(tx docstore.Tx) error {
		return docstore.Each(tx, collRoles, func(role *domain.Role) error {
			result = append(result, *role)
			return nil
		})
	})
	return result, mapDocError(err)
}

func (r *docRoleRepository) GetByName(_ context.Context, name domain.RoleName) (*domain.Role, error) {
	var role domain.Role
	err := r.store.View(func(tx docstore.Tx) error {
		return docstore.GetJSON(tx, collRoles, string(name), &role)
	})
	if err != nil {
		return nil, mapDocError(err)
	}
	return &role, nil
}

func (r *docRoleRepository) EnsureDefaults(_ context.Context, roles []domain.Role) error {
	return mapDocError(r.store.Update(func(tx docstore.Tx) error {
		for _, role := range roles {
			if _, err := tx.Get(collRoles, string(role.Name)); err == nil {
				continue
			}
			role.ID = string(role.Name)
			if err := docstore.PutJSON(tx, collRoles, role.ID, role); err != nil {
				return err
			}
		}
		return nil
	}))
}

type docArticleRepository struct {
	store docstore.Store
}

func (r *docArticleRepository) Create(_ context.Context, article *domain.Article) error {
	return mapDocError(r.store.Update(func(tx docstore.Tx) error {
		if _, err := tx.Get(collUsers, article.AuthorID); err != nil {
			return err
		}
		article.ID = uuid.NewString()
		article.CreatedAt = now()
		article.UpdatedAt = article.CreatedAt
		if err := docstore.PutJSON(tx, collArticles, article.ID, article); err != nil {
			return err
		}
		article.Author = summaryFor(tx, article.AuthorID)
		return nil
	}))
}

func (r *docArticleRepository) Update(_ context.Context, article *domain.Article) error {
	return mapDocError(r.store.Update(func(tx docstore.Tx) error {
		var existing domain.Article
		if err := docstore.GetJSON(tx, collArticles, article.ID, &existing); err != nil {
			return err
		}
		article.AuthorID = existing.AuthorID
		article.CreatedAt = existing.CreatedAt
		article.UpdatedAt = now()
		return docstore.PutJSON(tx, collArticles, article.ID, article)
	}))
}

// Delete removes the article and its comments in one transaction.
func (r *docArticleRepository) Delete(_ context.Context, id string) error {
	return mapDocError(r.store.Update(func(tx docstore.Tx) error {
		if _, err := tx.Get(collArticles, id); err != nil {
			return err
		}
		var orphaned []string
		if err := docstore.Each(tx, collComments, func(c *domain.Comment) error {
			if c.ArticleID == id {
				orphaned = append(orphaned, c.ID)
			}
			return nil
		}); err != nil {
			return err
		}
		for _, commentID := range orphaned {
			if err := tx.Delete(collComments, commentID); err != nil {
				return err
			}
		}
		return tx.Delete(collArticles, id)
	}))
}

func (r *docArticleRepository) GetByID(_ context.Context, id string) (*domain.Article, error) {
	var article domain.Article
	err := r.store.View(func(tx docstore.Tx) error {
		if err := docstore.GetJSON(tx, collArticles, id, &article); err != nil {
			return err
		}
		counts, err := commentCounts(tx)
		if err != nil {
			return err
		}
		article.Author = summaryFor(tx, article.AuthorID)
		article.CommentCount = counts[article.ID]
		return nil
	})
	if err != nil {
		return nil, mapDocError(err)
	}
	return &article, nil
}

func (r *docArticleRepository) List(_ context.Context, filter ArticleFilter) ([]domain.Article, error) {
	var result []domain.Article
	err := r.store.View(func(tx docstore.Tx) error {
		counts, err := commentCounts(tx)
		if err != nil {
			return err
		}
		return docstore.Each(tx, collArticles, func(article *domain.Article) error {
			if filter.AuthorID != nil && article.AuthorID != *filter.AuthorID {
				return nil
			}
			article.Author = summaryFor(tx, article.AuthorID)
			article.CommentCount = counts[article.ID]
			result = append(result, *article)
			return nil
		})
	})
	if err != nil {
		return nil, mapDocError(err)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return paginate(result, filter.Limit, filter.Offset), nil
}

func commentCounts(tx docstore.Tx) (map[string]int, error) {
	counts := make(map[string]int)
	err := docstore.Each(tx, collComments, func(c *domain.Comment) error {
		counts[c.ArticleID]++
		return nil
	})
	return counts, err
}

func paginate[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		return items
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type docCommentRepository struct {
	store docstore.Store
}

func (r *docCommentRepository) Create(_ context.Context, comment *domain.Comment) error {
	return mapDocError(r.store.Update(func(tx docstore.Tx) error {
		if _, err := tx.Get(collArticles, comment.ArticleID); err != nil {
			return err
		}
		comment.ID = uuid.NewString()
		comment.CreatedAt = now()
		if err := docstore.PutJSON(tx, collComments, comment.ID, comment); err != nil {
			return err
		}
		comment.Author = summaryFor(tx, comment.UserID)
		return nil
	}))
}

func (r *docCommentRepository) ListByArticle(_ context.Context, articleID string) ([]domain.Comment, error) {
	var result []domain.Comment
	err := r.store.View(func(tx docstore.Tx) error {
		return docstore.Each(tx, collComments, func(c *domain.Comment) error {
			if c.ArticleID != articleID {
				return nil
			}
			c.Author = summaryFor(tx, c.UserID)
			result = append(result, *c)
			return nil
		})
	})
	if err != nil {
		return nil, mapDocError(err)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
