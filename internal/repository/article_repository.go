package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/newsdesk/newsroom/internal/domain"
)

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository returns a Postgres-backed implementation.
func NewArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &articleRepository{pool: pool}
}

const articleSelect = `
        SELECT a.id, a.title, a.content, a.image, a.is_main, a.is_header, a.editor_selection,
               a.author_id, a.created_at, a.updated_at,
               u.id, u.first_name, u.last_name, u.username,
               (SELECT COUNT(*) FROM comments c WHERE c.article_id = a.id)
        FROM articles a LEFT JOIN users u ON u.id = a.author_id`

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	const query = `
        INSERT INTO articles (title, content, image, is_main, is_header, editor_selection, author_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		article.Title,
		article.Content,
		article.Image,
		article.IsMain,
		article.IsHeader,
		article.EditorSelection,
		article.AuthorID,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
	return mapPgError(err)
}

func (r *articleRepository) Update(ctx context.Context, article *domain.Article) error {
	const query = `
        UPDATE articles
        SET title=$1, content=$2, image=$3, is_main=$4, is_header=$5, editor_selection=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		article.Title,
		article.Content,
		article.Image,
		article.IsMain,
		article.IsHeader,
		article.EditorSelection,
		article.ID,
	).Scan(&article.UpdatedAt)
	return mapPgError(err)
}

// Delete removes the article; comments go with it via ON DELETE CASCADE.
func (r *articleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	article, err := scanArticle(r.pool.QueryRow(ctx, articleSelect+` WHERE a.id=$1`, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return article, nil
}

func (r *articleRepository) List(ctx context.Context, filter ArticleFilter) ([]domain.Article, error) {
	query := articleSelect
	args := []any{}
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		query += fmt.Sprintf(" WHERE a.author_id=$%d", len(args))
	}
	query += " ORDER BY a.created_at DESC"
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *article)
	}
	return result, rows.Err()
}

func scanArticle(row pgx.Row) (*domain.Article, error) {
	var (
		article  domain.Article
		authorID *string
		image    *string
		author   nullableSummary
	)
	if err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&image,
		&article.IsMain,
		&article.IsHeader,
		&article.EditorSelection,
		&authorID,
		&article.CreatedAt,
		&article.UpdatedAt,
		&author.ID,
		&author.FirstName,
		&author.LastName,
		&author.Username,
		&article.CommentCount,
	); err != nil {
		return nil, err
	}
	if authorID != nil {
		article.AuthorID = *authorID
	}
	if image != nil {
		article.Image = *image
	}
	article.Author = author.summary()
	return &article, nil
}

// nullableSummary scans the LEFT JOINed author columns.
type nullableSummary struct {
	ID        *string
	FirstName *string
	LastName  *string
	Username  *string
}

func (n nullableSummary) summary() *domain.UserSummary {
	if n.ID == nil {
		return nil
	}
	return &domain.UserSummary{
		ID:        *n.ID,
		FirstName: deref(n.FirstName),
		LastName:  deref(n.LastName),
		Username:  deref(n.Username),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
