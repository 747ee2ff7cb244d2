package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	customErrors "github.com/commforge/community-backend/internal/domain/community/errors"
	"github.com/commforge/community-backend/internal/domain/community/model"
	"github.com/commforge/community-backend/internal/domain/community/token"
)

const identityKey = "auth.identity"

// RequireAuth — единственная точка аутентификации запроса. Токен
// принимается только из заголовка Authorization: Bearer; cookie здесь
// не читаются, чтобы не плодить второй канал атаки.
//
// Личность кладётся в контекст запроса и умирает вместе с ним —
// никакого кэша между запросами.
func RequireAuth(codec token.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := codec.VerifyAccessToken(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			// истёкший токен клиент может обменять через /refresh,
			// подделанный — нет; содержимое токена не логируем
			msg := "invalid token"
			if customErrors.IsExpiredToken(err) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set(identityKey, model.Identity{
			UserID:   claims.UserID,
			Email:    claims.Subject,
			Nickname: claims.Nickname,
		})
		c.Next()
	}
}

// IdentityFrom возвращает личность, установленную RequireAuth.
func IdentityFrom(c *gin.Context) (model.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return model.Identity{}, false
	}
	id, ok := v.(model.Identity)
	return id, ok
}
