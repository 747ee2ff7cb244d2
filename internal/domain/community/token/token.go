package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind discriminates access and refresh tokens. Both share the wire
// format, so without the claim a refresh token could pass where an
// access token is expected.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

type AccessClaims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"userId"`
	Nickname string `json:"nickname"`
	Kind     string `json:"kind"`
}

type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"userId"`
	Kind   string `json:"kind"`
}

// Codec выпускает и проверяет подписанные токены. Реализация обязана
// быть чистой функцией от секрета и полезной нагрузки — никакого
// состояния между запросами.
type Codec interface {
	IssueAccessToken(email string, userID int64, nickname string) (token string, exp time.Time, err error)
	IssueRefreshToken(email string, userID int64) (token string, exp time.Time, err error)
	VerifyAccessToken(raw string) (AccessClaims, error)
	VerifyRefreshToken(raw string) (RefreshClaims, error)
}
