package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/commforge/community-backend/internal/adapters/transport/http/dto"
)

func (h *Handler) listPosts(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *Handler) getPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	p, err := h.posts.View(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) createPost(c *gin.Context) {
	ident, ok := identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var req dto.CreatePostDTO
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	image, err := readUpload(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	p, err := h.posts.Create(c.Request.Context(), ident.UserID, req, image)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) updatePost(c *gin.Context) {
	ident, ok := identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePostDTO
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	image, err := readUpload(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	p, err := h.posts.Update(c.Request.Context(), ident.UserID, id, req, image)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deletePost(c *gin.Context) {
	ident, ok := identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.posts.Delete(c.Request.Context(), ident.UserID, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "post deleted"})
}

func (h *Handler) postImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	data, contentType, err := h.posts.Image(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

func (h *Handler) commentCount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	n, err := h.posts.CommentCount(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}
