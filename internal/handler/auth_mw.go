package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/gin-gonic/gin"
)

const userKey = "user"

type route struct {
	method string
	path   string
}

// Reachable without a token. An empty method matches any method.
var exemptRoutes = []route{
	{method: "", path: "/login"},
	{method: http.MethodPost, path: "/"},
	{method: http.MethodPost, path: "/authors"},
	{method: http.MethodGet, path: "/google"},
	{method: http.MethodGet, path: "/google/callback"},
}

func isExempt(method string, path string) bool {
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}
	for _, r := range exemptRoutes {
		if r.path == path && (r.method == "" || r.method == method) {
			return true
		}
	}
	return false
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func (h *Handler) authMiddleware(c *gin.Context) {
	if isExempt(c.Request.Method, c.Request.URL.Path) {
		c.Next()
		return
	}

	subject, err := h.services.Auth.VerifyToken(bearerToken(c.GetHeader("Authorization")))
	if err != nil {
		h.logger.Sugar().Infof("rejected %s %s: %s", c.Request.Method, c.Request.URL.Path, err.Error())
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errNotAuthorized.Error()))
		return
	}

	c.Set(userKey, *subject)

	c.Next()
}
