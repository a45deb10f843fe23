package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/BloggingApp/blog-service/internal/config"
	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/mailer"
	"github.com/BloggingApp/blog-service/internal/metrics"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/oauth"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DEFAULT_PAGE  = 1
	DEFAULT_LIMIT = 10
	MAX_LIMIT     = 100
)

func maxLimit(limit *int) {
	if *limit > MAX_LIMIT {
		*limit = MAX_LIMIT
	}
}

type Auth interface {
	Register(ctx context.Context, input dto.RegisterRequest) (*model.Author, error)
	Login(ctx context.Context, input dto.LoginRequest) (string, error)
	GoogleLoginURL(state string) string
	FederatedLogin(ctx context.Context, code string) (string, error)
	WhoAmI(ctx context.Context, subject model.Subject) (*model.Author, error)
	VerifyToken(token string) (*model.Subject, error)
}

type Author interface {
	FindAll(ctx context.Context, page int, limit int) (*dto.PageResponse[*model.Author], error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Author, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*model.Author, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UploadAvatar(ctx context.Context, id uuid.UUID, avatar dto.Upload) (*model.Author, error)
}

type Post interface {
	Create(ctx context.Context, input dto.CreatePostRequest, cover *dto.Upload) (*model.Post, error)
	FindAll(ctx context.Context, title string, page int, limit int) (*dto.PageResponse[*model.FullPost], error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	FindAuthorPosts(ctx context.Context, authorID uuid.UUID) ([]*model.FullPost, error)
	Update(ctx context.Context, id uuid.UUID, input dto.UpdatePostRequest) (*model.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Comment interface {
	List(ctx context.Context, postID uuid.UUID) ([]model.Comment, error)
	Get(ctx context.Context, postID uuid.UUID, commentID uuid.UUID) (*model.Comment, error)
	Add(ctx context.Context, postID uuid.UUID, input dto.CreateCommentRequest) (*model.Comment, error)
	Update(ctx context.Context, postID uuid.UUID, commentID uuid.UUID, input dto.UpdateCommentRequest) (*model.Comment, error)
	Delete(ctx context.Context, postID uuid.UUID, commentID uuid.UUID) error
}

// ImageStore is satisfied by *cdn.Client.
type ImageStore interface {
	Upload(ctx context.Context, path string, file io.Reader, filename string) (string, error)
}

// IdentityProvider is satisfied by *oauth.Google.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth.Identity, error)
}

type Deps struct {
	Tokens   *utils.JWTManager
	Images   ImageStore
	Mailer   mailer.Sender
	Identity IdentityProvider
	Metrics  metrics.Recorder
	Store    config.StoreConfig
}

type Service struct {
	Auth
	Author
	Post
	Comment
}

func New(logger *zap.Logger, repo *repository.Repository, deps Deps) *Service {
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop{}
	}

	store := newStoreCaller(deps.Store.Timeout, deps.Store.Retries, deps.Metrics)
	notify := newNotifier(logger, deps.Mailer, deps.Metrics)

	return &Service{
		Auth:    newAuthService(logger, repo, store, deps.Tokens, deps.Identity, notify),
		Author:  newAuthorService(logger, repo, store, deps.Images),
		Post:    newPostService(logger, repo, store, deps.Images, notify),
		Comment: newCommentService(logger, repo, store),
	}
}

// failure logs an unexpected store or adapter error and reduces it to a kind
// that is safe to show to clients.
func failure(logger *zap.Logger, err error, format string, args ...interface{}) error {
	logger.Sugar().Errorf(format+": %s", append(args, err.Error())...)
	if errors.Is(err, ErrUnavailable) {
		return ErrUnavailable
	}
	return ErrInternal
}

func paginate(page int, limit int) (int, int, error) {
	if page == 0 {
		page = DEFAULT_PAGE
	}
	if limit == 0 {
		limit = DEFAULT_LIMIT
	}
	if page < 1 || limit < 1 {
		return 0, 0, ErrInvalidPagination
	}
	maxLimit(&limit)
	return page, limit, nil
}

func now() time.Time {
	return time.Now().UTC()
}
