package handler

import (
	"net/http"
	"strconv"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) pagination(c *gin.Context) (int, int, bool) {
	page, limit := service.DEFAULT_PAGE, service.DEFAULT_LIMIT

	for key, dest := range map[string]*int{"page": &page, "limit": &limit} {
		value, ok := c.GetQuery(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			h.abortWithError(c, service.ErrInvalidPagination)
			return 0, 0, false
		}
		*dest = n
	}

	return page, limit, true
}

func (h *Handler) authorsGetAll(c *gin.Context) {
	page, limit, ok := h.pagination(c)
	if !ok {
		return
	}

	authors, err := h.services.Author.FindAll(c.Request.Context(), page, limit)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, authors)
}

func (h *Handler) authorsGetByID(c *gin.Context) {
	id, ok := h.paramID(c, "id", service.ErrAuthorNotFound)
	if !ok {
		return
	}

	author, err := h.services.Author.FindByID(c.Request.Context(), id)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, author)
}

func (h *Handler) authorsUpdate(c *gin.Context) {
	id, ok := h.paramID(c, "id", service.ErrAuthorNotFound)
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		h.bindError(c, err)
		return
	}

	author, err := h.services.Author.Update(c.Request.Context(), id, updates)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, author)
}

func (h *Handler) authorsDelete(c *gin.Context) {
	id, ok := h.paramID(c, "id", service.ErrAuthorNotFound)
	if !ok {
		return
	}

	if err := h.services.Author.Delete(c.Request.Context(), id); err != nil {
		h.abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) authorsUploadAvatar(c *gin.Context) {
	id, ok := h.paramID(c, "id", service.ErrAuthorNotFound)
	if !ok {
		return
	}

	file, fileHeader, err := c.Request.FormFile("avatar")
	if err != nil {
		h.bindError(c, err)
		return
	}
	defer file.Close()

	author, err := h.services.Author.UploadAvatar(c.Request.Context(), id, dto.Upload{
		File:     file,
		Filename: fileHeader.Filename,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, author)
}
