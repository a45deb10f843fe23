package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/internal/repository/postgres"
	"github.com/BloggingApp/blog-service/pkg/utils"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type authService struct {
	logger   *zap.Logger
	repo     *repository.Repository
	store    *storeCaller
	tokens   *utils.JWTManager
	identity IdentityProvider
	notify   *notifier
}

func newAuthService(logger *zap.Logger, repo *repository.Repository, store *storeCaller, tokens *utils.JWTManager, identity IdentityProvider, notify *notifier) Auth {
	return &authService{
		logger:   logger,
		repo:     repo,
		store:    store,
		tokens:   tokens,
		identity: identity,
		notify:   notify,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterRequest) (*model.Author, error) {
	input.Email = strings.TrimSpace(input.Email)
	if input.Nome == "" || input.Cognome == "" || input.Email == "" || input.DataDiNascita == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		s.logger.Sugar().Errorf("failed to hash password: %s", err.Error())
		return nil, ErrInternal
	}

	author, err := s.create(ctx, model.Author{
		Nome:          input.Nome,
		Cognome:       input.Cognome,
		Email:         input.Email,
		DataDiNascita: input.DataDiNascita,
		AccountKind:   model.AccountLocal,
		PasswordHash:  hash,
	})
	if err != nil {
		return nil, err
	}

	s.notify.welcome(ctx, author)

	return author, nil
}

func (s *authService) create(ctx context.Context, author model.Author) (*model.Author, error) {
	created, err := call(ctx, s.store, "author.create", func(ctx context.Context) (*model.Author, error) {
		return s.repo.Store.Author.Create(ctx, author)
	})
	if err != nil {
		if errors.Is(err, postgres.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, failure(s.logger, err, "failed to create author(%s)", author.Email)
	}

	return created, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginRequest) (string, error) {
	if input.Email == "" || input.Password == "" {
		return "", ErrMissingFields
	}

	author, err := call(ctx, s.store, "author.find", func(ctx context.Context) (*model.Author, error) {
		return s.repo.Store.Author.FindByEmailWithPassword(ctx, strings.TrimSpace(input.Email))
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrAuthorNotFound
		}
		return "", failure(s.logger, err, "failed to find author by email")
	}

	if !author.HasLocalCredential() {
		return "", ErrFederatedAccount
	}
	if !utils.CheckPassword(input.Password, author.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return s.issue(author)
}

func (s *authService) issue(author *model.Author) (string, error) {
	token, err := s.tokens.Issue(author.ID, author.Email)
	if err != nil {
		s.logger.Sugar().Errorf("failed to issue token for author(%s): %s", author.ID.String(), err.Error())
		return "", ErrInternal
	}
	return token, nil
}

func (s *authService) GoogleLoginURL(state string) string {
	return s.identity.AuthCodeURL(state)
}

func (s *authService) FederatedLogin(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", ErrMissingFields
	}

	identity, err := s.identity.Exchange(ctx, code)
	if err != nil {
		s.logger.Sugar().Errorf("failed to exchange google code: %s", err.Error())
		return "", ErrFederationFailed
	}

	author, err := s.findByEmail(ctx, identity.Email)
	if err != nil {
		return "", err
	}

	if author == nil {
		author, err = s.create(ctx, model.Author{
			Nome:        identity.GivenName,
			Cognome:     identity.FamilyName,
			Email:       identity.Email,
			AccountKind: model.AccountGoogle,
		})
		// a concurrent first login for the same email won the insert
		if errors.Is(err, ErrEmailTaken) {
			author, err = s.findByEmail(ctx, identity.Email)
			if err == nil && author == nil {
				err = ErrEmailTaken
			}
		}
		if err != nil {
			return "", err
		}
	}

	return s.issue(author)
}

// findByEmail returns a nil author when nobody has the email.
func (s *authService) findByEmail(ctx context.Context, email string) (*model.Author, error) {
	author, err := call(ctx, s.store, "author.find", func(ctx context.Context) (*model.Author, error) {
		return s.repo.Store.Author.FindByEmail(ctx, email)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, failure(s.logger, err, "failed to find author(%s)", email)
	}

	return author, nil
}

func (s *authService) WhoAmI(ctx context.Context, subject model.Subject) (*model.Author, error) {
	author, err := call(ctx, s.store, "author.find", func(ctx context.Context) (*model.Author, error) {
		return s.repo.Store.Author.FindByID(ctx, subject.ID)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAuthorNotFound
		}
		return nil, failure(s.logger, err, "failed to find author(%s)", subject.ID.String())
	}

	return author, nil
}

// VerifyToken returns ErrInvalidToken joined with the utils reason
// (missing, malformed, bad signature or expired).
func (s *authService) VerifyToken(token string) (*model.Subject, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return &model.Subject{
		ID:    claims.AuthorID(),
		Email: claims.Email,
	}, nil
}
