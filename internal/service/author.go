package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BloggingApp/blog-service/internal/cdn"
	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// request field -> column
var authorUpdatableFields = map[string]string{
	"nome":          "nome",
	"cognome":       "cognome",
	"email":         "email",
	"dataDiNascita": "data_di_nascita",
	"avatar":        "avatar",
}

type authorService struct {
	logger *zap.Logger
	repo   *repository.Repository
	store  *storeCaller
	images ImageStore
}

func newAuthorService(logger *zap.Logger, repo *repository.Repository, store *storeCaller, images ImageStore) Author {
	return &authorService{
		logger: logger,
		repo:   repo,
		store:  store,
		images: images,
	}
}

type authorPage struct {
	authors []*model.Author
	total   int64
}

func (s *authorService) FindAll(ctx context.Context, page int, limit int) (*dto.PageResponse[*model.Author], error) {
	page, limit, err := paginate(page, limit)
	if err != nil {
		return nil, err
	}

	result, err := call(ctx, s.store, "author.list", func(ctx context.Context) (authorPage, error) {
		authors, total, err := s.repo.Store.Author.FindAll(ctx, limit, (page-1)*limit)
		return authorPage{authors: authors, total: total}, err
	})
	if err != nil {
		return nil, failure(s.logger, err, "failed to find authors")
	}

	return dto.NewPageResponse(result.authors, result.total, page, limit), nil
}

func (s *authorService) FindByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	author, err := call(ctx, s.store, "author.find", func(ctx context.Context) (*model.Author, error) {
		return s.repo.Store.Author.FindByID(ctx, id)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAuthorNotFound
		}
		return nil, failure(s.logger, err, "failed to find author(%s)", id.String())
	}

	return author, nil
}

func (s *authorService) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*model.Author, error) {
	columns := make(map[string]interface{}, len(updates))
	for field, value := range updates {
		column, ok := authorUpdatableFields[field]
		if !ok {
			return nil, ErrFieldsNotAllowedToUpdate
		}
		str, ok := value.(string)
		if !ok {
			return nil, ErrFieldsNotAllowedToUpdate
		}
		if column == "email" {
			str = strings.TrimSpace(str)
			if str == "" {
				return nil, ErrMissingFields
			}
		}
		columns[column] = str
	}

	if len(columns) == 0 {
		return s.FindByID(ctx, id)
	}

	return s.update(ctx, id, columns)
}

func (s *authorService) update(ctx context.Context, id uuid.UUID, columns map[string]interface{}) (*model.Author, error) {
	author, err := call(ctx, s.store, "author.update", func(ctx context.Context) (*model.Author, error) {
		return s.repo.Store.Author.Update(ctx, id, columns)
	})
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, ErrAuthorNotFound
		case errors.Is(err, postgres.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, postgres.ErrFieldsNotAllowedToUpdate):
			return nil, ErrFieldsNotAllowedToUpdate
		}
		return nil, failure(s.logger, err, "failed to update author(%s)", id.String())
	}

	return author, nil
}

func (s *authorService) Delete(ctx context.Context, id uuid.UUID) error {
	err := exec(ctx, s.store, "author.delete", func(ctx context.Context) error {
		return s.repo.Store.Author.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAuthorNotFound
		}
		return failure(s.logger, err, "failed to delete author(%s)", id.String())
	}

	return nil
}

func (s *authorService) UploadAvatar(ctx context.Context, id uuid.UUID, avatar dto.Upload) (*model.Author, error) {
	if _, err := s.FindByID(ctx, id); err != nil {
		return nil, err
	}

	url, err := uploadImage(ctx, s.logger, s.images, "avatars", avatar)
	if err != nil {
		return nil, err
	}

	return s.update(ctx, id, map[string]interface{}{"avatar": url})
}

func uploadImage(ctx context.Context, logger *zap.Logger, images ImageStore, path string, upload dto.Upload) (string, error) {
	if err := cdn.ValidateImage(upload.Filename); err != nil {
		if errors.Is(err, cdn.ErrFileMustHaveAValidExtension) {
			return "", ErrFileMustHaveAValidExtension
		}
		return "", ErrFileMustBeImage
	}

	url, err := images.Upload(ctx, path, upload.File, upload.Filename)
	if err != nil {
		logger.Sugar().Errorf("failed to upload image(%s) to CDN: %s", upload.Filename, err.Error())
		return "", ErrFailedToUploadImageToCDN
	}

	return url, nil
}
