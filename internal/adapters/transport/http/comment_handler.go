package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/commforge/community-backend/internal/adapters/transport/http/dto"
)

func (h *Handler) listComments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	comments, err := h.comments.ListByPost(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *Handler) addComment(c *gin.Context) {
	ident, ok := identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cm, err := h.comments.Add(c.Request.Context(), ident.UserID, id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cm)
}

func (h *Handler) updateComment(c *gin.Context) {
	ident, ok := identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cm, err := h.comments.Update(c.Request.Context(), ident.UserID, id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, cm)
}

func (h *Handler) deleteComment(c *gin.Context) {
	ident, ok := identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.comments.Delete(c.Request.Context(), ident.UserID, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "comment deleted"})
}
