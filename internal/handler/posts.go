package handler

import (
	"errors"
	"net/http"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func (h *Handler) postsGetAll(c *gin.Context) {
	page, limit, ok := h.pagination(c)
	if !ok {
		return
	}

	posts, err := h.services.Post.FindAll(c.Request.Context(), c.Query("title"), page, limit)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsCreate(c *gin.Context) {
	var input dto.CreatePostRequest
	if err := c.ShouldBind(&input); err != nil {
		h.bindError(c, err)
		return
	}

	var cover *dto.Upload
	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		file, fileHeader, err := c.Request.FormFile("cover")
		switch {
		case err == nil:
			defer file.Close()
			cover = &dto.Upload{File: file, Filename: fileHeader.Filename}
		case !errors.Is(err, http.ErrMissingFile):
			h.bindError(c, err)
			return
		}
	}

	post, err := h.services.Post.Create(c.Request.Context(), input, cover)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *Handler) postsGetByAuthor(c *gin.Context) {
	id, ok := h.paramID(c, "id", service.ErrAuthorNotFound)
	if !ok {
		return
	}

	posts, err := h.services.Post.FindAuthorPosts(c.Request.Context(), id)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsGetByID(c *gin.Context) {
	id, ok := h.paramID(c, "id", service.ErrPostNotFound)
	if !ok {
		return
	}

	post, err := h.services.Post.FindByID(c.Request.Context(), id)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsUpdate(c *gin.Context) {
	id, ok := h.paramID(c, "id", service.ErrPostNotFound)
	if !ok {
		return
	}

	var input dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindError(c, err)
		return
	}

	post, err := h.services.Post.Update(c.Request.Context(), id, input)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsDelete(c *gin.Context) {
	id, ok := h.paramID(c, "id", service.ErrPostNotFound)
	if !ok {
		return
	}

	if err := h.services.Post.Delete(c.Request.Context(), id); err != nil {
		h.abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
