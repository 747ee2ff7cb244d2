package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/commforge/community-backend/internal/adapters/transport/http/dto"
	"github.com/commforge/community-backend/internal/domain/community/model"
)

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, userView(u))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	u, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, userView(u))
}

func (h *Handler) updatePassword(c *gin.Context) {
	ident, ok := identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePasswordDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.users.UpdatePassword(c.Request.Context(), ident.UserID, id, req); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "password updated"})
}

func (h *Handler) updateProfile(c *gin.Context) {
	ident, ok := identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProfileDTO
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	image, err := readUpload(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	u, err := h.users.UpdateProfile(c.Request.Context(), ident.UserID, id, req, image)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, userView(u))
}

func (h *Handler) deleteUser(c *gin.Context) {
	ident, ok := identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), ident.UserID, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "user deleted"})
}

func (h *Handler) checkEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	taken, err := h.users.EmailTaken(c.Request.Context(), email)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"taken": taken})
}

func (h *Handler) checkNickname(c *gin.Context) {
	nickname := c.Query("nickname")
	if nickname == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nickname is required"})
		return
	}

	taken, err := h.users.NicknameTaken(c.Request.Context(), nickname)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"taken": taken})
}

func (h *Handler) userImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	data, contentType, err := h.users.Avatar(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

// userView не отдаёт наружу email и хэш пароля.
func userView(u model.User) gin.H {
	return gin.H{
		"userId":    u.UserID,
		"nickname":  u.Nickname,
		"hasImage":  u.Image != "",
		"createdAt": u.CreatedAt,
	}
}
