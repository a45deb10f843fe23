package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BloggingApp/blog-service/internal/config"
	"github.com/BloggingApp/blog-service/internal/oauth"
	"github.com/BloggingApp/blog-service/internal/repository"
	"github.com/BloggingApp/blog-service/internal/service"
	"github.com/BloggingApp/blog-service/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeImages struct{}

func (fakeImages) Upload(ctx context.Context, path string, file io.Reader, filename string) (string, error) {
	return "https://cdn.example.com/" + path + "/" + filename, nil
}

type fakeIdentity struct {
	identity *oauth.Identity
}

func (f *fakeIdentity) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (f *fakeIdentity) Exchange(ctx context.Context, code string) (*oauth.Identity, error) {
	if code != "good-code" {
		return nil, oauth.ErrEmptyEmail
	}
	return f.identity, nil
}

type testServer struct {
	router   *gin.Engine
	tokens   *utils.JWTManager
	identity *fakeIdentity
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := &testServer{
		tokens:   utils.NewJWTManager([]byte("test-secret"), time.Hour),
		identity: &fakeIdentity{identity: &oauth.Identity{Email: "g@gmail.com", GivenName: "Gina", FamilyName: "Bianchi"}},
	}

	services := service.New(zap.NewNop(), repository.NewInMemory(), service.Deps{
		Tokens:   ts.tokens,
		Images:   fakeImages{},
		Identity: ts.identity,
		Store:    config.StoreConfig{Timeout: time.Second, Retries: 1},
	})

	ts.router = New(zap.NewNop(), services, Options{
		ClientOrigin:  "http://localhost:3000",
		FrontendURL:   "http://localhost:3000",
		SessionSecret: "session-secret",
	}).InitRoutes()

	return ts
}

func (ts *testServer) do(t *testing.T, method string, path string, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) doMultipart(t *testing.T, path string, token string, fields map[string]string, fileField string, filename string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	method := http.MethodPost
	if fileField == "avatar" {
		method = http.MethodPatch
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type registerBody struct {
	Nome          string `json:"nome"`
	Cognome       string `json:"cognome"`
	Email         string `json:"email"`
	DataDiNascita string `json:"dataDiNascita"`
	Password      string `json:"password"`
}

func (ts *testServer) registerAndLogin(t *testing.T, email string) (string, string) {
	t.Helper()

	w := ts.do(t, http.MethodPost, "/", "", registerBody{
		Nome: "Mario", Cognome: "Rossi", Email: email, DataDiNascita: "1990-01-01", Password: "pw1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	author := decode[map[string]interface{}](t, w)

	w = ts.do(t, http.MethodPost, "/login", "", map[string]string{"email": email, "password": "pw1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decode[map[string]string](t, w)["token"]

	return author["id"].(string), token
}

func (ts *testServer) createPost(t *testing.T, token string, authorID string, title string) map[string]interface{} {
	t.Helper()

	w := ts.do(t, http.MethodPost, "/blogPosts", token, map[string]interface{}{
		"category": "tech",
		"title":    title,
		"readTime": map[string]interface{}{"value": 5, "unit": "min"},
		"author":   authorID,
		"content":  "Hello world",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[map[string]interface{}](t, w)
}
