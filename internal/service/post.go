package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

type postService struct {
	logger *zap.Logger
	repo   *repository.Repository
	store  *storeCaller
	images ImageStore
	notify *notifier
	policy *bluemonday.Policy
}

func newPostService(logger *zap.Logger, repo *repository.Repository, store *storeCaller, images ImageStore, notify *notifier) Post {
	return &postService{
		logger: logger,
		repo:   repo,
		store:  store,
		images: images,
		notify: notify,
		policy: bluemonday.UGCPolicy(),
	}
}

func (s *postService) Create(ctx context.Context, input dto.CreatePostRequest, cover *dto.Upload) (*model.Post, error) {
	if input.Category == "" || input.Title == "" || input.Content == "" || input.ReadTime.Unit == "" || input.ReadTime.Value <= 0 {
		return nil, ErrMissingFields
	}

	authorID, err := uuid.Parse(strings.TrimSpace(input.Author))
	if err != nil {
		return nil, ErrUnknownAuthor
	}

	post := model.Post{
		Category: input.Category,
		Title:    input.Title,
		Cover:    input.Cover,
		ReadTime: model.ReadTime{
			Value: input.ReadTime.Value,
			Unit:  input.ReadTime.Unit,
		},
		AuthorID: authorID,
		Content:  s.policy.Sanitize(input.Content),
		Comments: []model.Comment{},
	}

	if cover != nil {
		url, err := uploadImage(ctx, s.logger, s.images, "covers", *cover)
		if err != nil {
			return nil, err
		}
		post.Cover = url
	}

	createdPost, err := call(ctx, s.store, "post.create", func(ctx context.Context) (*model.Post, error) {
		return s.repo.Store.Post.Create(ctx, post)
	})
	if err != nil {
		if errors.Is(err, postgres.ErrUnknownAuthor) {
			return nil, ErrUnknownAuthor
		}
		return nil, failure(s.logger, err, "failed to create author(%s) post", authorID.String())
	}

	author, err := call(ctx, s.store, "author.find", func(ctx context.Context) (*model.Author, error) {
		return s.repo.Store.Author.FindByID(ctx, authorID)
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to find author(%s) for publication email: %s", authorID.String(), err.Error())
	} else {
		s.notify.postPublished(ctx, author, createdPost)
	}

	return createdPost, nil
}

type postPage struct {
	posts []*model.FullPost
	total int64
}

func (s *postService) FindAll(ctx context.Context, title string, page int, limit int) (*dto.PageResponse[*model.FullPost], error) {
	page, limit, err := paginate(page, limit)
	if err != nil {
		return nil, err
	}

	result, err := call(ctx, s.store, "post.list", func(ctx context.Context) (postPage, error) {
		posts, total, err := s.repo.Store.Post.FindAll(ctx, strings.TrimSpace(title), limit, (page-1)*limit)
		return postPage{posts: posts, total: total}, err
	})
	if err != nil {
		return nil, failure(s.logger, err, "failed to find posts")
	}

	return dto.NewPageResponse(result.posts, result.total, page, limit), nil
}

func (s *postService) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := call(ctx, s.store, "post.find", func(ctx context.Context) (*model.Post, error) {
		return s.repo.Store.Post.FindByID(ctx, id)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, failure(s.logger, err, "failed to find post(%s)", id.String())
	}

	return post, nil
}

func (s *postService) FindAuthorPosts(ctx context.Context, authorID uuid.UUID) ([]*model.FullPost, error) {
	posts, err := call(ctx, s.store, "post.list", func(ctx context.Context) ([]*model.FullPost, error) {
		return s.repo.Store.Post.FindAuthorPosts(ctx, authorID)
	})
	if err != nil {
		return nil, failure(s.logger, err, "failed to find author(%s) posts", authorID.String())
	}

	if posts == nil {
		posts = []*model.FullPost{}
	}
	return posts, nil
}

func (s *postService) Update(ctx context.Context, id uuid.UUID, input dto.UpdatePostRequest) (*model.Post, error) {
	return mutatePost(ctx, s.logger, s.repo, s.store, id, func(post *model.Post, replay bool) (*model.Post, error) {
		if input.Category != nil {
			post.Category = *input.Category
		}
		if input.Title != nil {
			post.Title = *input.Title
		}
		if input.Cover != nil {
			post.Cover = *input.Cover
		}
		if input.ReadTime != nil {
			post.ReadTime = model.ReadTime{
				Value: input.ReadTime.Value,
				Unit:  input.ReadTime.Unit,
			}
		}
		if input.Content != nil {
			post.Content = s.policy.Sanitize(*input.Content)
		}
		if post.Category == "" || post.Title == "" || post.Content == "" {
			return nil, ErrMissingFields
		}
		return post, nil
	})
}

func (s *postService) Delete(ctx context.Context, id uuid.UUID) error {
	err := exec(ctx, s.store, "post.delete", func(ctx context.Context) error {
		return s.repo.Store.Post.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPostNotFound
		}
		return failure(s.logger, err, "failed to delete post(%s)", id.String())
	}

	return nil
}
