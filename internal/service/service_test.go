package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/BloggingApp/blog-service/internal/config"
	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/oauth"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/pkg/utils"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMail struct {
	to      string
	subject string
}

type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []sentMail
}

func (m *fakeMailer) Send(ctx context.Context, to string, subject string, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject})
	return nil
}

type fakeImages struct {
	url   string
	err   error
	paths []string
}

func (f *fakeImages) Upload(ctx context.Context, path string, file io.Reader, filename string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.paths = append(f.paths, path)
	return f.url, nil
}

type fakeIdentity struct {
	identity *oauth.Identity
	err      error
}

func (f *fakeIdentity) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (f *fakeIdentity) Exchange(ctx context.Context, code string) (*oauth.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

type fakeRecorder struct {
	mu                   sync.Mutex
	notificationFailures map[string]int
	retries              map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{
		notificationFailures: make(map[string]int),
		retries:              make(map[string]int),
	}
}

func (r *fakeRecorder) RecordRequest(string, string, int, time.Duration) {}

func (r *fakeRecorder) RecordNotificationFailure(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notificationFailures[kind]++
}

func (r *fakeRecorder) RecordStoreRetry(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retries[op]++
}

type testEnv struct {
	services *Service
	repo     *repository.Repository
	tokens   *utils.JWTManager
	mailer   *fakeMailer
	images   *fakeImages
	identity *fakeIdentity
	metrics  *fakeRecorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		repo:     repository.NewInMemory(),
		tokens:   utils.NewJWTManager([]byte("test-secret"), time.Hour),
		mailer:   &fakeMailer{},
		images:   &fakeImages{url: "https://cdn.example.com/img.png"},
		identity: &fakeIdentity{},
		metrics:  newFakeRecorder(),
	}
	env.services = New(zap.NewNop(), env.repo, Deps{
		Tokens:   env.tokens,
		Images:   env.images,
		Mailer:   env.mailer,
		Identity: env.identity,
		Metrics:  env.metrics,
		Store:    config.StoreConfig{Timeout: time.Second, Retries: 3},
	})

	return env
}

func (env *testEnv) register(t *testing.T, email string) *model.Author {
	t.Helper()

	author, err := env.services.Auth.Register(context.Background(), dto.RegisterRequest{
		Nome:          "Mario",
		Cognome:       "Rossi",
		Email:         email,
		DataDiNascita: "1990-01-01",
		Password:      "pw1",
	})
	require.NoError(t, err)
	return author
}

func (env *testEnv) createPost(t *testing.T, author *model.Author, title string) *model.Post {
	t.Helper()

	post, err := env.services.Post.Create(context.Background(), dto.CreatePostRequest{
		Category: "tech",
		Title:    title,
		ReadTime: dto.ReadTimeRequest{Value: 5, Unit: "min"},
		Author:   author.ID.String(),
		Content:  "Hello world",
	}, nil)
	require.NoError(t, err)
	return post
}

var errBoom = errors.New("boom")
