package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/newsdesk/newsroom/internal/domain"
)

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository returns a Postgres-backed implementation.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (article_id, user_id, content)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	if err := r.pool.QueryRow(ctx, query,
		comment.ArticleID,
		comment.UserID,
		comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt); err != nil {
		return mapPgError(err)
	}

	var author nullableSummary
	err := r.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, username FROM users WHERE id=$1`, comment.UserID,
	).Scan(&author.ID, &author.FirstName, &author.LastName, &author.Username)
	if err != nil {
		return mapPgError(err)
	}
	comment.Author = author.summary()
	return nil
}

func (r *commentRepository) ListByArticle(ctx context.Context, articleID string) ([]domain.Comment, error) {
	const query = `
        SELECT c.id, c.article_id, c.user_id, c.content, c.created_at,
               u.id, u.first_name, u.last_name, u.username
        FROM comments c LEFT JOIN users u ON u.id = c.user_id
        WHERE c.article_id=$1
        ORDER BY c.created_at DESC`

	rows, err := r.pool.Query(ctx, query, articleID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var (
			comment domain.Comment
			userID  *string
			author  nullableSummary
		)
		if err := rows.Scan(
			&comment.ID,
			&comment.ArticleID,
			&userID,
			&comment.Content,
			&comment.CreatedAt,
			&author.ID,
			&author.FirstName,
			&author.LastName,
			&author.Username,
		); err != nil {
			return nil, err
		}
		comment.UserID = deref(userID)
		comment.Author = author.summary()
		result = append(result, comment)
	}
	return result, rows.Err()
}
