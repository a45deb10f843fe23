// Package memrepo implements the postgres repository interfaces in memory,
// including email uniqueness and post version checks.
package memrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type store struct {
	mu      sync.RWMutex
	authors map[uuid.UUID]model.Author
	posts   map[uuid.UUID]model.Post
	now     func() time.Time
}

func New() *postgres.PostgresRepository {
	s := &store{
		authors: make(map[uuid.UUID]model.Author),
		posts:   make(map[uuid.UUID]model.Post),
		now:     time.Now,
	}
	return &postgres.PostgresRepository{
		Author:  &authorRepo{s},
		Post:    &postRepo{s},
		Comment: &commentRepo{s},
	}
}

func page[T any](items []T, limit int, offset int) []T {
	if limit > postgres.MAX_LIMIT {
		limit = postgres.MAX_LIMIT
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func copyPost(p model.Post) model.Post {
	comments := make([]model.Comment, len(p.Comments))
	copy(comments, p.Comments)
	p.Comments = comments
	return p
}

type authorRepo struct {
	*store
}

func (r *authorRepo) emailTaken(email string, except uuid.UUID) bool {
	for id, a := range r.authors {
		if id != except && a.Email == email {
			return true
		}
	}
	return false
}

func (r *authorRepo) Create(ctx context.Context, author model.Author) (*model.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(author.Email, uuid.Nil) {
		return nil, postgres.ErrDuplicateEmail
	}

	now := r.now()
	author.ID = uuid.New()
	author.CreatedAt = now
	author.UpdatedAt = now
	r.authors[author.ID] = author

	author.PasswordHash = ""
	return &author, nil
}

func (r *authorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	author, ok := r.authors[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	author.PasswordHash = ""
	return &author, nil
}

func (r *authorRepo) findByEmail(email string) (*model.Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, author := range r.authors {
		if author.Email == email {
			return &author, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *authorRepo) FindByEmail(ctx context.Context, email string) (*model.Author, error) {
	author, err := r.findByEmail(email)
	if err != nil {
		return nil, err
	}
	author.PasswordHash = ""
	return author, nil
}

func (r *authorRepo) FindByEmailWithPassword(ctx context.Context, email string) (*model.Author, error) {
	return r.findByEmail(email)
}

func (r *authorRepo) FindAll(ctx context.Context, limit int, offset int) ([]*model.Author, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	authors := make([]*model.Author, 0, len(r.authors))
	for _, a := range r.authors {
		a.PasswordHash = ""
		authors = append(authors, &a)
	}
	sort.Slice(authors, func(i, j int) bool {
		if authors[i].CreatedAt.Equal(authors[j].CreatedAt) {
			return authors[i].ID.String() < authors[j].ID.String()
		}
		return authors[i].CreatedAt.Before(authors[j].CreatedAt)
	})

	return page(authors, limit, offset), int64(len(authors)), nil
}

func (r *authorRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*model.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	author, ok := r.authors[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}

	for field, value := range updates {
		s, _ := value.(string)
		switch field {
		case "nome":
			author.Nome = s
		case "cognome":
			author.Cognome = s
		case "email":
			if r.emailTaken(s, id) {
				return nil, postgres.ErrDuplicateEmail
			}
			author.Email = s
		case "data_di_nascita":
			author.DataDiNascita = s
		case "avatar":
			author.Avatar = s
		default:
			return nil, postgres.ErrFieldsNotAllowedToUpdate
		}
	}
	if len(updates) > 0 {
		author.UpdatedAt = r.now()
	}
	r.authors[id] = author

	author.PasswordHash = ""
	return &author, nil
}

func (r *authorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.authors[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.authors, id)
	for postID, p := range r.posts {
		if p.AuthorID == id {
			delete(r.posts, postID)
		}
	}
	return nil
}

type postRepo struct {
	*store
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.authors[post.AuthorID]; !ok {
		return nil, postgres.ErrUnknownAuthor
	}

	now := r.now()
	post.ID = uuid.New()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Version = 0
	if post.Comments == nil {
		post.Comments = []model.Comment{}
	}
	r.posts[post.ID] = copyPost(post)

	return &post, nil
}

func (r *postRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	post = copyPost(post)
	return &post, nil
}

func (r *postRepo) full(filter func(model.Post) bool) []*model.FullPost {
	posts := []*model.FullPost{}
	for _, p := range r.posts {
		if !filter(p) {
			continue
		}
		a := r.authors[p.AuthorID]
		posts = append(posts, &model.FullPost{
			Post: copyPost(p),
			Author: model.UserAuthor{
				ID:      a.ID,
				Nome:    a.Nome,
				Cognome: a.Cognome,
				Email:   a.Email,
				Avatar:  a.Avatar,
			},
		})
	}
	sort.Slice(posts, func(i, j int) bool {
		a, b := posts[i].Post, posts[j].Post
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID.String() < b.ID.String()
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return posts
}

func (r *postRepo) FindAll(ctx context.Context, title string, limit int, offset int) ([]*model.FullPost, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(title)
	posts := r.full(func(p model.Post) bool {
		return strings.Contains(strings.ToLower(p.Title), needle)
	})

	return page(posts, limit, offset), int64(len(posts)), nil
}

func (r *postRepo) FindAuthorPosts(ctx context.Context, authorID uuid.UUID) ([]*model.FullPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.full(func(p model.Post) bool {
		return p.AuthorID == authorID
	}), nil
}

func (r *postRepo) Save(ctx context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.posts[post.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != post.Version {
		return postgres.ErrVersionConflict
	}

	post.Version++
	if post.Comments == nil {
		post.Comments = []model.Comment{}
	}
	saved := copyPost(*post)
	saved.AuthorID = stored.AuthorID
	saved.CreatedAt = stored.CreatedAt
	r.posts[post.ID] = saved
	return nil
}

func (r *postRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.posts, id)
	return nil
}

type commentRepo struct {
	*store
}

func (r *commentRepo) FindPostComments(ctx context.Context, postID uuid.UUID) ([]model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[postID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return copyPost(post).Comments, nil
}
