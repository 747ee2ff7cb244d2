package jwt

import (
	"errors"
	"time"

	customErrors "github.com/commforge/community-backend/internal/domain/community/errors"
	token2 "github.com/commforge/community-backend/internal/domain/community/token"
	"github.com/commforge/community-backend/internal/infra/config"
	"github.com/golang-jwt/jwt/v5"
)

type CodecImpl struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec строит кодек с явно переданным секретом — никакого
// глобального состояния, ключ неизменяем после старта.
func NewCodec(cfg *config.Config) (*CodecImpl, error) {
	if cfg.JWTSecret == "" {
		return nil, customErrors.NewInvalidArgument("empty signing secret")
	}
	return &CodecImpl{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}, nil
}

func (c *CodecImpl) IssueAccessToken(email string, userID int64, nickname string) (string, time.Time, error) {
	now := time.Now()

	claims := token2.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
		},
		UserID:   userID,
		Nickname: nickname,
		Kind:     token2.KindAccess,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, customErrors.WrapInternal(err, "sign access token")
	}

	return signed, claims.ExpiresAt.Time, nil
}

func (c *CodecImpl) IssueRefreshToken(email string, userID int64) (string, time.Time, error) {
	now := time.Now()

	claims := token2.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.refreshTTL)),
		},
		UserID: userID,
		Kind:   token2.KindRefresh,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, customErrors.WrapInternal(err, "sign refresh token")
	}

	return signed, claims.ExpiresAt.Time, nil
}

func (c *CodecImpl) VerifyAccessToken(raw string) (token2.AccessClaims, error) {
	claims := token2.AccessClaims{}
	if err := c.parse(raw, &claims); err != nil {
		return token2.AccessClaims{}, err
	}
	if claims.Kind != token2.KindAccess {
		return token2.AccessClaims{}, customErrors.ErrInvalidToken
	}
	return claims, nil
}

func (c *CodecImpl) VerifyRefreshToken(raw string) (token2.RefreshClaims, error) {
	claims := token2.RefreshClaims{}
	if err := c.parse(raw, &claims); err != nil {
		return token2.RefreshClaims{}, err
	}
	if claims.Kind != token2.KindRefresh {
		return token2.RefreshClaims{}, customErrors.ErrInvalidToken
	}
	return claims, nil
}

// parse проверяет подпись раньше содержимого и без допуска по exp:
// просроченный токен лечится только через refresh.
func (c *CodecImpl) parse(raw string, claims jwt.Claims) error {
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, customErrors.ErrInvalidToken
		}
		return c.secret, nil
	}, jwt.WithIssuedAt())

	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return customErrors.ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenExpired):
		return customErrors.ErrExpiredToken
	case err != nil:
		return customErrors.ErrInvalidToken
	case !tok.Valid:
		return customErrors.ErrInvalidToken
	}
	return nil
}
