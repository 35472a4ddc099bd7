package repository

import (
	"context"

	"github.com/newsdesk/newsroom/internal/domain"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// RoleRepository defines persistence access for role definitions.
type RoleRepository interface {
	List(ctx context.Context) ([]domain.Role, error)
	GetByName(ctx context.Context, name domain.RoleName) (*domain.Role, error)
	EnsureDefaults(ctx context.Context, roles []domain.Role) error
}

// ArticleFilter narrows article listings.
type ArticleFilter struct {
	AuthorID *string
	Limit    int
	Offset   int
}

// ArticleRepository defines persistence access for articles. Reads populate
// Author and CommentCount.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	Update(ctx context.Context, article *domain.Article) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	List(ctx context.Context, filter ArticleFilter) ([]domain.Article, error)
}

// CommentRepository defines persistence access for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByArticle(ctx context.Context, articleID string) ([]domain.Comment, error)
}

// Repositories bundles one backend's implementations.
type Repositories struct {
	Users    UserRepository
	Roles    RoleRepository
	Articles ArticleRepository
	Comments CommentRepository
}
