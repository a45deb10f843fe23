package postgres

import (
	"context"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const MAX_LIMIT = 100

func maxLimit(limit *int) {
	if *limit > MAX_LIMIT {
		*limit = MAX_LIMIT
	}
}

type Author interface {
	Create(ctx context.Context, author model.Author) (*model.Author, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Author, error)
	FindByEmail(ctx context.Context, email string) (*model.Author, error)
	// FindByEmailWithPassword is the only lookup that loads the password hash.
	FindByEmailWithPassword(ctx context.Context, email string) (*model.Author, error)
	FindAll(ctx context.Context, limit int, offset int) ([]*model.Author, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*model.Author, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Post interface {
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	FindAll(ctx context.Context, title string, limit int, offset int) ([]*model.FullPost, int64, error)
	FindAuthorPosts(ctx context.Context, authorID uuid.UUID) ([]*model.FullPost, error)
	// Save writes the whole aggregate back. It fails with ErrVersionConflict
	// when the stored version no longer matches post.Version.
	Save(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Comment interface {
	FindPostComments(ctx context.Context, postID uuid.UUID) ([]model.Comment, error)
}

type PostgresRepository struct {
	Author
	Post
	Comment
}

func New(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		Author:  newAuthorRepo(db),
		Post:    newPostRepo(db),
		Comment: newCommentRepo(db),
	}
}
