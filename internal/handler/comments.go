package handler

import (
	"net/http"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/BloggingApp/blog-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) commentIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	postID, ok := h.paramID(c, "id", service.ErrPostNotFound)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	commentID, ok := h.paramID(c, "commentId", service.ErrCommentNotFound)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return postID, commentID, true
}

func (h *Handler) commentsGetAll(c *gin.Context) {
	postID, ok := h.paramID(c, "id", service.ErrPostNotFound)
	if !ok {
		return
	}

	comments, err := h.services.Comment.List(c.Request.Context(), postID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *Handler) commentsGetByID(c *gin.Context) {
	postID, commentID, ok := h.commentIDs(c)
	if !ok {
		return
	}

	comment, err := h.services.Comment.Get(c.Request.Context(), postID, commentID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

func (h *Handler) commentsCreate(c *gin.Context) {
	postID, ok := h.paramID(c, "id", service.ErrPostNotFound)
	if !ok {
		return
	}

	var input dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindError(c, err)
		return
	}

	comment, err := h.services.Comment.Add(c.Request.Context(), postID, input)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) commentsUpdate(c *gin.Context) {
	postID, commentID, ok := h.commentIDs(c)
	if !ok {
		return
	}

	var input dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindError(c, err)
		return
	}

	comment, err := h.services.Comment.Update(c.Request.Context(), postID, commentID, input)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

func (h *Handler) commentsDelete(c *gin.Context) {
	postID, commentID, ok := h.commentIDs(c)
	if !ok {
		return
	}

	if err := h.services.Comment.Delete(c.Request.Context(), postID, commentID); err != nil {
		h.abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
