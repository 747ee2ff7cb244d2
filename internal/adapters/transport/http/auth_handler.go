package http

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/commforge/community-backend/internal/adapters/transport/http/dto"
	"github.com/commforge/community-backend/internal/domain/community/model"
)

const refreshCookie = "refresh_token"

func (h *Handler) register(c *gin.Context) {
	var req dto.RegisterDTO
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	pair, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setRefreshCookie(c, pair)
	c.JSON(http.StatusCreated, tokenPairResponse(pair))
}

func (h *Handler) login(c *gin.Context) {
	var req dto.LoginDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	req.ClientIP = c.ClientIP()

	pair, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.log.Info("login failed",
			zap.String("email_sha256", digest(req.Email)),
			zap.String("ip", req.ClientIP))
		h.handleError(c, err)
		return
	}

	h.setRefreshCookie(c, pair)
	c.JSON(http.StatusOK, tokenPairResponse(pair))
}

// refresh берёт refresh-токен из cookie; тело запроса — запасной
// вариант для клиентов без cookie.
func (h *Handler) refresh(c *gin.Context) {
	var req dto.RefreshDTO
	if raw, err := c.Cookie(refreshCookie); err == nil && raw != "" {
		req.RefreshToken = raw
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing refresh token"})
		return
	}

	grant, err := h.auth.Refresh(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AccessTokenResponse{
		AccessToken: grant.AccessToken,
		ExpiresIn:   int64(grant.AccessTTL.Seconds()),
	})
}

// logout лишь чистит cookie: токены stateless и живут до истечения TTL.
func (h *Handler) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, "", -1, "/", h.cfg.CookieDomain, true, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (h *Handler) setRefreshCookie(c *gin.Context, pair model.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, pair.RefreshToken,
		int(pair.RefreshTTL.Seconds()), "/", h.cfg.CookieDomain, true, true)
}

func tokenPairResponse(pair model.TokenPair) dto.TokenPairResponse {
	return dto.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(pair.AccessTTL.Seconds()),
		UserID:       pair.UserID,
	}
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
