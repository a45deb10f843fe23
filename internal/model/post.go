package model

import (
	"time"

	"github.com/google/uuid"
)

type ReadTime struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Post is the aggregate root for its comments. Comments are only ever changed
// through the methods below and persisted together with the post.
type Post struct {
	ID        uuid.UUID `json:"id"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Cover     string    `json:"cover"`
	ReadTime  ReadTime  `json:"readTime"`
	AuthorID  uuid.UUID `json:"author"`
	Content   string    `json:"content"`
	Comments  []Comment `json:"comments"`
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type FullPost struct {
	Post   Post       `json:"post"`
	Author UserAuthor `json:"author"`
}

// AppendComment adds c as the newest comment. It reports false and leaves the
// post untouched when a comment with the same id is already there.
func (p *Post) AppendComment(c Comment) bool {
	if _, ok := p.Comment(c.ID); ok {
		return false
	}
	p.Comments = append(p.Comments, c)
	return true
}

// Comment returns the comment with the given id.
func (p *Post) Comment(id uuid.UUID) (*Comment, bool) {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i], true
		}
	}
	return nil, false
}

// EditComment applies the non-nil fields to the comment with the given id.
func (p *Post) EditComment(id uuid.UUID, text, user *string) (*Comment, bool) {
	c, ok := p.Comment(id)
	if !ok {
		return nil, false
	}
	if text != nil {
		c.Text = *text
	}
	if user != nil {
		c.User = *user
	}
	return c, true
}

// RemoveComment deletes the comment with the given id keeping the order of
// the remaining ones.
func (p *Post) RemoveComment(id uuid.UUID) bool {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return true
		}
	}
	return false
}
