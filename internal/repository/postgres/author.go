package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const authorColumns = "a.id, a.nome, a.cognome, a.email, a.data_di_nascita, a.avatar, a.account_kind, a.created_at, a.updated_at"

type authorRepo struct {
	db *pgxpool.Pool
}

func newAuthorRepo(db *pgxpool.Pool) Author {
	return &authorRepo{
		db: db,
	}
}

func scanAuthor(row pgx.Row, dest *model.Author, extra ...any) error {
	return row.Scan(append([]any{
		&dest.ID,
		&dest.Nome,
		&dest.Cognome,
		&dest.Email,
		&dest.DataDiNascita,
		&dest.Avatar,
		&dest.AccountKind,
		&dest.CreatedAt,
		&dest.UpdatedAt,
	}, extra...)...)
}

func (r *authorRepo) Create(ctx context.Context, author model.Author) (*model.Author, error) {
	now := time.Now()
	author.CreatedAt = now
	author.UpdatedAt = now
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO authors(nome, cognome, email, data_di_nascita, avatar, account_kind, password_hash, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		author.Nome,
		author.Cognome,
		author.Email,
		author.DataDiNascita,
		author.Avatar,
		author.AccountKind,
		author.PasswordHash,
		author.CreatedAt,
		author.UpdatedAt,
	).Scan(&author.ID); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	author.PasswordHash = ""
	return &author, nil
}

func (r *authorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	var author model.Author
	if err := scanAuthor(r.db.QueryRow(ctx, "SELECT "+authorColumns+" FROM authors a WHERE a.id = $1", id), &author); err != nil {
		return nil, err
	}

	return &author, nil
}

func (r *authorRepo) FindByEmail(ctx context.Context, email string) (*model.Author, error) {
	var author model.Author
	if err := scanAuthor(r.db.QueryRow(ctx, "SELECT "+authorColumns+" FROM authors a WHERE a.email = $1", email), &author); err != nil {
		return nil, err
	}

	return &author, nil
}

func (r *authorRepo) FindByEmailWithPassword(ctx context.Context, email string) (*model.Author, error) {
	var author model.Author
	if err := scanAuthor(
		r.db.QueryRow(ctx, "SELECT "+authorColumns+", a.password_hash FROM authors a WHERE a.email = $1", email),
		&author,
		&author.PasswordHash,
	); err != nil {
		return nil, err
	}

	return &author, nil
}

func (r *authorRepo) FindAll(ctx context.Context, limit int, offset int) ([]*model.Author, int64, error) {
	maxLimit(&limit)

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM authors").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(
		ctx,
		"SELECT "+authorColumns+" FROM authors a ORDER BY a.created_at, a.id LIMIT $1 OFFSET $2",
		limit,
		offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	authors := make([]*model.Author, 0, limit)
	for rows.Next() {
		var author model.Author
		if err := scanAuthor(rows, &author); err != nil {
			return nil, 0, err
		}

		authors = append(authors, &author)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return authors, total, nil
}

var allowedAuthorFields = []string{"nome", "cognome", "email", "data_di_nascita", "avatar"}

func (r *authorRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*model.Author, error) {
	if len(updates) == 0 {
		return r.FindByID(ctx, id)
	}

	allowedFieldsSet := make(map[string]struct{}, len(allowedAuthorFields))
	for _, field := range allowedAuthorFields {
		allowedFieldsSet[field] = struct{}{}
	}

	for field := range updates {
		if _, ok := allowedFieldsSet[field]; !ok {
			return nil, ErrFieldsNotAllowedToUpdate
		}
	}

	query := "UPDATE authors a SET "
	args := []interface{}{}
	i := 1

	for column, value := range updates {
		query += (column + " = $" + strconv.Itoa(i) + ", ")
		args = append(args, value)
		i++
	}

	query += "updated_at = $" + strconv.Itoa(i) + " WHERE a.id = $" + strconv.Itoa(i+1) + " RETURNING " + authorColumns
	args = append(args, time.Now(), id)

	var author model.Author
	if err := scanAuthor(r.db.QueryRow(ctx, query, args...), &author); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return &author, nil
}

func (r *authorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM authors WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
