package postgres

import (
	"context"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// commentRepo only reads. Comments are written through Post.Save together with
// their post.
type commentRepo struct {
	db *pgxpool.Pool
}

func newCommentRepo(db *pgxpool.Pool) Comment {
	return &commentRepo{
		db: db,
	}
}

// FindPostComments returns pgx.ErrNoRows when the post does not exist.
func (r *commentRepo) FindPostComments(ctx context.Context, postID uuid.UUID) ([]model.Comment, error) {
	var comments []model.Comment
	if err := r.db.QueryRow(ctx, "SELECT p.comments FROM posts p WHERE p.id = $1", postID).Scan(&comments); err != nil {
		return nil, err
	}

	if comments == nil {
		comments = []model.Comment{}
	}

	return comments, nil
}
