package memrepo

import (
	"context"
	"testing"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthor_EmailUnique(t *testing.T) {
	ctx := context.Background()
	repo := New()

	_, err := repo.Author.Create(ctx, model.Author{Email: "m@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = repo.Author.Create(ctx, model.Author{Email: "m@x.com"})
	assert.ErrorIs(t, err, postgres.ErrDuplicateEmail)
}

func TestAuthor_PasswordOnlyOnExplicitLookup(t *testing.T) {
	ctx := context.Background()
	repo := New()

	created, err := repo.Author.Create(ctx, model.Author{Email: "m@x.com", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Empty(t, created.PasswordHash)

	byID, err := repo.Author.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, byID.PasswordHash)

	byEmail, err := repo.Author.FindByEmail(ctx, "m@x.com")
	require.NoError(t, err)
	assert.Empty(t, byEmail.PasswordHash)

	withPassword, err := repo.Author.FindByEmailWithPassword(ctx, "m@x.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", withPassword.PasswordHash)
}

func TestAuthor_UpdateRejectsUnknownField(t *testing.T) {
	ctx := context.Background()
	repo := New()

	created, err := repo.Author.Create(ctx, model.Author{Email: "m@x.com"})
	require.NoError(t, err)

	_, err = repo.Author.Update(ctx, created.ID, map[string]interface{}{"password_hash": "x"})
	assert.ErrorIs(t, err, postgres.ErrFieldsNotAllowedToUpdate)
}

func TestPost_SaveChecksVersion(t *testing.T) {
	ctx := context.Background()
	repo := New()

	author, err := repo.Author.Create(ctx, model.Author{Email: "m@x.com"})
	require.NoError(t, err)
	created, err := repo.Post.Create(ctx, model.Post{AuthorID: author.ID, Title: "t"})
	require.NoError(t, err)

	first, err := repo.Post.FindByID(ctx, created.ID)
	require.NoError(t, err)
	second, err := repo.Post.FindByID(ctx, created.ID)
	require.NoError(t, err)

	first.AppendComment(model.Comment{ID: uuid.New(), Text: "a"})
	require.NoError(t, repo.Post.Save(ctx, first))
	assert.Equal(t, int64(1), first.Version)

	second.AppendComment(model.Comment{ID: uuid.New(), Text: "b"})
	assert.ErrorIs(t, repo.Post.Save(ctx, second), postgres.ErrVersionConflict)

	comments, err := repo.Comment.FindPostComments(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "a", comments[0].Text)
}

func TestPost_UnknownAuthorAndMissingPost(t *testing.T) {
	ctx := context.Background()
	repo := New()

	_, err := repo.Post.Create(ctx, model.Post{AuthorID: uuid.New()})
	assert.ErrorIs(t, err, postgres.ErrUnknownAuthor)

	_, err = repo.Post.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	_, err = repo.Comment.FindPostComments(ctx, uuid.New())
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestPost_FindAllFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	repo := New()

	author, err := repo.Author.Create(ctx, model.Author{Email: "m@x.com", Nome: "Mario"})
	require.NoError(t, err)
	for _, title := range []string{"Go Tips", "golang generics", "Rust notes"} {
		_, err := repo.Post.Create(ctx, model.Post{AuthorID: author.ID, Title: title})
		require.NoError(t, err)
	}

	posts, total, err := repo.Post.FindAll(ctx, "GO", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, posts, 2)
	assert.Equal(t, "Mario", posts[0].Author.Nome)

	posts, total, err = repo.Post.FindAll(ctx, "", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, posts, 1)
}

func TestAuthor_DeleteCascadesPosts(t *testing.T) {
	ctx := context.Background()
	repo := New()

	author, err := repo.Author.Create(ctx, model.Author{Email: "m@x.com"})
	require.NoError(t, err)
	post, err := repo.Post.Create(ctx, model.Post{AuthorID: author.ID})
	require.NoError(t, err)

	require.NoError(t, repo.Author.Delete(ctx, author.ID))

	_, err = repo.Post.FindByID(ctx, post.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.ErrorIs(t, repo.Author.Delete(ctx, author.ID), pgx.ErrNoRows)
}
