package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newComments(p *Post, texts ...string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(texts))
	for _, text := range texts {
		id := uuid.New()
		p.AppendComment(Comment{ID: id, Text: text, User: "anon"})
		ids = append(ids, id)
	}
	return ids
}

func TestPostAppendAndLookup(t *testing.T) {
	var p Post
	ids := newComments(&p, "one", "two")

	require.Len(t, p.Comments, 2)
	assert.Equal(t, "two", p.Comments[1].Text)

	c, ok := p.Comment(ids[0])
	require.True(t, ok)
	assert.Equal(t, "one", c.Text)

	_, ok = p.Comment(uuid.New())
	assert.False(t, ok)
}

func TestPostEditComment(t *testing.T) {
	var p Post
	ids := newComments(&p, "one")

	text := "uno"
	c, ok := p.EditComment(ids[0], &text, nil)
	require.True(t, ok)
	assert.Equal(t, "uno", c.Text)
	assert.Equal(t, "anon", c.User)
	assert.Equal(t, "uno", p.Comments[0].Text)

	_, ok = p.EditComment(uuid.New(), &text, nil)
	assert.False(t, ok)
}

func TestPostAppendCommentIgnoresKnownID(t *testing.T) {
	var p Post
	ids := newComments(&p, "one")

	assert.False(t, p.AppendComment(Comment{ID: ids[0], Text: "again", User: "anon"}))
	require.Len(t, p.Comments, 1)
	assert.Equal(t, "one", p.Comments[0].Text)
}

func TestPostRemoveCommentKeepsOrder(t *testing.T) {
	var p Post
	ids := newComments(&p, "one", "two", "three")

	assert.True(t, p.RemoveComment(ids[1]))
	require.Len(t, p.Comments, 2)
	assert.Equal(t, "one", p.Comments[0].Text)
	assert.Equal(t, "three", p.Comments[1].Text)

	assert.False(t, p.RemoveComment(ids[1]))
}

func TestAuthorHasLocalCredential(t *testing.T) {
	assert.True(t, (&Author{AccountKind: AccountLocal, PasswordHash: "hash"}).HasLocalCredential())
	assert.False(t, (&Author{AccountKind: AccountLocal}).HasLocalCredential())
	assert.False(t, (&Author{AccountKind: AccountGoogle, PasswordHash: "hash"}).HasLocalCredential())
}
