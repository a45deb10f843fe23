package handler

import (
	"errors"
	"net/http"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	errNotAuthorized = errors.New("unauthorized")
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = service.ErrInternal.Error()
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message))
}

func (h *Handler) bindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error()))
}

// paramID parses a path id. A malformed id cannot name an existing resource,
// so it is reported as notFound.
func (h *Handler) paramID(c *gin.Context, name string, notFound error) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.abortWithError(c, notFound)
		return uuid.Nil, false
	}
	return id, true
}
