package service

import (
	"context"
	"errors"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const maxConflictRetries = 3

// errAlreadyApplied is returned by a mutation that finds its change already in
// the loaded post. mutatePost then skips the save and returns the result.
var errAlreadyApplied = errors.New("already applied")

type commentService struct {
	logger *zap.Logger
	repo   *repository.Repository
	store  *storeCaller
}

func newCommentService(logger *zap.Logger, repo *repository.Repository, store *storeCaller) Comment {
	return &commentService{
		logger: logger,
		repo:   repo,
		store:  store,
	}
}

// mutatePost loads the post, applies mutate and saves it with a version
// check. A version conflict makes it start over from a fresh load, and mutate
// is told it is replaying: a save that timed out and was retried may have
// committed, so the change can already be in the reloaded post.
func mutatePost[T any](ctx context.Context, logger *zap.Logger, repo *repository.Repository, store *storeCaller, postID uuid.UUID, mutate func(post *model.Post, replay bool) (T, error)) (T, error) {
	var zero T
	for attempt := 1; ; attempt++ {
		post, err := call(ctx, store, "post.find", func(ctx context.Context) (*model.Post, error) {
			return repo.Store.Post.FindByID(ctx, postID)
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return zero, ErrPostNotFound
			}
			return zero, failure(logger, err, "failed to find post(%s)", postID.String())
		}

		result, err := mutate(post, attempt > 1)
		if errors.Is(err, errAlreadyApplied) {
			return result, nil
		}
		if err != nil {
			return zero, err
		}

		post.UpdatedAt = now()
		err = exec(ctx, store, "post.save", func(ctx context.Context) error {
			return repo.Store.Post.Save(ctx, post)
		})
		switch {
		case err == nil:
			return result, nil
		case errors.Is(err, pgx.ErrNoRows):
			return zero, ErrPostNotFound
		case errors.Is(err, postgres.ErrVersionConflict):
			if attempt >= maxConflictRetries {
				logger.Sugar().Errorf("giving up on post(%s) after %d version conflicts", postID.String(), attempt)
				return zero, ErrConcurrentUpdate
			}
			store.metrics.RecordStoreRetry("post.conflict")
			continue
		}
		return zero, failure(logger, err, "failed to save post(%s)", postID.String())
	}
}

func (s *commentService) List(ctx context.Context, postID uuid.UUID) ([]model.Comment, error) {
	comments, err := call(ctx, s.store, "comment.list", func(ctx context.Context) ([]model.Comment, error) {
		return s.repo.Store.Comment.FindPostComments(ctx, postID)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, failure(s.logger, err, "failed to find post(%s) comments", postID.String())
	}

	if comments == nil {
		comments = []model.Comment{}
	}
	return comments, nil
}

func (s *commentService) Get(ctx context.Context, postID uuid.UUID, commentID uuid.UUID) (*model.Comment, error) {
	post, err := call(ctx, s.store, "post.find", func(ctx context.Context) (*model.Post, error) {
		return s.repo.Store.Post.FindByID(ctx, postID)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, failure(s.logger, err, "failed to find post(%s)", postID.String())
	}

	comment, ok := post.Comment(commentID)
	if !ok {
		return nil, ErrCommentNotFound
	}

	return comment, nil
}

func (s *commentService) Add(ctx context.Context, postID uuid.UUID, input dto.CreateCommentRequest) (*model.Comment, error) {
	if input.Text == "" || input.User == "" {
		return nil, ErrMissingFields
	}

	comment := model.Comment{
		ID:        uuid.New(),
		Text:      input.Text,
		User:      input.User,
		CreatedAt: now(),
	}

	return mutatePost(ctx, s.logger, s.repo, s.store, postID, func(post *model.Post, replay bool) (*model.Comment, error) {
		appended := post.AppendComment(comment)
		added, ok := post.Comment(comment.ID)
		if !ok {
			return nil, ErrInternal
		}
		copied := *added
		if !appended {
			return &copied, errAlreadyApplied
		}
		return &copied, nil
	})
}

func (s *commentService) Update(ctx context.Context, postID uuid.UUID, commentID uuid.UUID, input dto.UpdateCommentRequest) (*model.Comment, error) {
	// an empty value means "keep the current one"
	if input.Text != nil && *input.Text == "" {
		input.Text = nil
	}
	if input.User != nil && *input.User == "" {
		input.User = nil
	}

	return mutatePost(ctx, s.logger, s.repo, s.store, postID, func(post *model.Post, replay bool) (*model.Comment, error) {
		updated, ok := post.EditComment(commentID, input.Text, input.User)
		if !ok {
			return nil, ErrCommentNotFound
		}
		copied := *updated
		return &copied, nil
	})
}

func (s *commentService) Delete(ctx context.Context, postID uuid.UUID, commentID uuid.UUID) error {
	_, err := mutatePost(ctx, s.logger, s.repo, s.store, postID, func(post *model.Post, replay bool) (struct{}, error) {
		if !post.RemoveComment(commentID) {
			// the comment was there on the first load
			if replay {
				return struct{}{}, errAlreadyApplied
			}
			return struct{}{}, ErrCommentNotFound
		}
		return struct{}{}, nil
	})
	return err
}
