package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fullPostColumns = `p.id, p.category, p.title, p.cover, p.read_time_value, p.read_time_unit, p.author_id, p.content, p.comments, p.version, p.created_at, p.updated_at,
	u.id, u.nome, u.cognome, u.email, u.avatar`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type postRepo struct {
	db *pgxpool.Pool
}

func newPostRepo(db *pgxpool.Pool) Post {
	return &postRepo{
		db: db,
	}
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Version = 0
	if post.Comments == nil {
		post.Comments = []model.Comment{}
	}
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO posts(category, title, cover, read_time_value, read_time_unit, author_id, content, comments, version, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		post.Category,
		post.Title,
		post.Cover,
		post.ReadTime.Value,
		post.ReadTime.Unit,
		post.AuthorID,
		post.Content,
		post.Comments,
		post.Version,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID); err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrUnknownAuthor
		}
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := r.db.QueryRow(
		ctx,
		`SELECT
		p.id, p.category, p.title, p.cover, p.read_time_value, p.read_time_unit, p.author_id, p.content, p.comments, p.version, p.created_at, p.updated_at
		FROM posts p
		WHERE p.id = $1`,
		id,
	).Scan(
		&post.ID,
		&post.Category,
		&post.Title,
		&post.Cover,
		&post.ReadTime.Value,
		&post.ReadTime.Unit,
		&post.AuthorID,
		&post.Content,
		&post.Comments,
		&post.Version,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &post, nil
}

func scanFullPosts(rows pgx.Rows) ([]*model.FullPost, error) {
	defer rows.Close()

	posts := []*model.FullPost{}
	for rows.Next() {
		var post model.FullPost
		if err := rows.Scan(
			&post.Post.ID,
			&post.Post.Category,
			&post.Post.Title,
			&post.Post.Cover,
			&post.Post.ReadTime.Value,
			&post.Post.ReadTime.Unit,
			&post.Post.AuthorID,
			&post.Post.Content,
			&post.Post.Comments,
			&post.Post.Version,
			&post.Post.CreatedAt,
			&post.Post.UpdatedAt,
			&post.Author.ID,
			&post.Author.Nome,
			&post.Author.Cognome,
			&post.Author.Email,
			&post.Author.Avatar,
		); err != nil {
			return nil, err
		}

		posts = append(posts, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepo) FindAll(ctx context.Context, title string, limit int, offset int) ([]*model.FullPost, int64, error) {
	maxLimit(&limit)

	pattern := "%" + likeEscaper.Replace(title) + "%"

	var total int64
	if err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM posts p WHERE p.title ILIKE $1 ESCAPE '\'`,
		pattern,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+fullPostColumns+`
		FROM posts p
		JOIN authors u ON p.author_id = u.id
		WHERE p.title ILIKE $1 ESCAPE '\'
		ORDER BY p.created_at DESC, p.id
		LIMIT $2
		OFFSET $3`,
		pattern,
		limit,
		offset,
	)
	if err != nil {
		return nil, 0, err
	}

	posts, err := scanFullPosts(rows)
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *postRepo) FindAuthorPosts(ctx context.Context, authorID uuid.UUID) ([]*model.FullPost, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+fullPostColumns+`
		FROM posts p
		JOIN authors u ON p.author_id = u.id
		WHERE p.author_id = $1
		ORDER BY p.created_at DESC, p.id`,
		authorID,
	)
	if err != nil {
		return nil, err
	}

	return scanFullPosts(rows)
}

func (r *postRepo) Save(ctx context.Context, post *model.Post) error {
	if post.Comments == nil {
		post.Comments = []model.Comment{}
	}

	var version int64
	err := r.db.QueryRow(
		ctx,
		`UPDATE posts SET
		category = $2, title = $3, cover = $4, read_time_value = $5, read_time_unit = $6, content = $7, comments = $8,
		updated_at = $9, version = version + 1
		WHERE id = $1 AND version = $10
		RETURNING version`,
		post.ID,
		post.Category,
		post.Title,
		post.Cover,
		post.ReadTime.Value,
		post.ReadTime.Unit,
		post.Content,
		post.Comments,
		post.UpdatedAt,
		post.Version,
	).Scan(&version)
	if err == nil {
		post.Version = version
		return nil
	}
	if err != pgx.ErrNoRows {
		return err
	}

	var exists bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)", post.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return pgx.ErrNoRows
	}

	return ErrVersionConflict
}

func (r *postRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
