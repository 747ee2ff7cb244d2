package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/go-playground/validator/v10"

	"github.com/commforge/community-backend/internal/adapters/transport/http/dto"
	customErrors "github.com/commforge/community-backend/internal/domain/community/errors"
	"github.com/commforge/community-backend/internal/domain/community/model"
	"github.com/commforge/community-backend/internal/domain/community/repo"
	"github.com/commforge/community-backend/internal/domain/community/token"
	"github.com/commforge/community-backend/internal/infra/config"
)

var argonParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

type authService struct {
	userRepo repo.UserRepo
	limiter  repo.LoginLimiter
	codec    token.Codec
	cfg      *config.Config
	v        *validator.Validate
}

type Service interface {
	Register(context.Context, dto.RegisterDTO) (model.TokenPair, error)
	Login(context.Context, dto.LoginDTO) (model.TokenPair, error)
	Refresh(context.Context, dto.RefreshDTO) (model.AccessGrant, error)
}

func New(
	ur repo.UserRepo,
	ll repo.LoginLimiter,
	c token.Codec,
	cfg *config.Config,
	v *validator.Validate,
) Service {
	return &authService{
		userRepo: ur, limiter: ll, codec: c, cfg: cfg, v: v,
	}
}

func (a *authService) Register(ctx context.Context, in dto.RegisterDTO) (model.TokenPair, error) {
	if err := a.v.Struct(in); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	passwordHash, err := argon2id.CreateHash(in.Password+a.cfg.PasswordPepper, argonParams)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "Register")
	}

	user := model.User{
		Email:        in.Email,
		PasswordHash: passwordHash,
		Nickname:     in.Nickname,
	}
	id, err := a.userRepo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.TokenPair{}, customErrors.ErrAlreadyExists
		}
		return model.TokenPair{}, customErrors.WrapInternal(err, "Register")
	}
	user.UserID = id

	return a.issueTokens(user)
}

func (a *authService) Login(ctx context.Context, in dto.LoginDTO) (model.TokenPair, error) {
	if err := a.v.Struct(in); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	key := in.Email + "|" + in.ClientIP
	allowed, err := a.limiter.Allow(ctx, key)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}
	if !allowed {
		return model.TokenPair{}, customErrors.ErrTooManyRequests
	}

	user, err := a.userRepo.GetUserByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		// неизвестный email неотличим от неверного пароля
		_ = a.limiter.Fail(ctx, key, a.cfg.LoginWindow)
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}

	ok, err := argon2id.ComparePasswordAndHash(in.Password+a.cfg.PasswordPepper, user.PasswordHash)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}
	if !ok {
		_ = a.limiter.Fail(ctx, key, a.cfg.LoginWindow)
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	}

	_ = a.limiter.Reset(ctx, key)

	return a.issueTokens(user)
}

func (a *authService) Refresh(ctx context.Context, in dto.RefreshDTO) (model.AccessGrant, error) {
	if err := a.v.Struct(in); err != nil {
		return model.AccessGrant{}, customErrors.NewInvalidArgument(err.Error())
	}

	claims, err := a.codec.VerifyRefreshToken(in.RefreshToken)
	if err != nil {
		return model.AccessGrant{}, err
	}

	// Nickname в refresh-токене не хранится — перечитываем пользователя,
	// чтобы новый access-токен нёс полный набор claims.
	user, err := a.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return model.AccessGrant{}, customErrors.ErrInvalidCredentials
	}

	at, atExp, err := a.codec.IssueAccessToken(user.Email, user.UserID, user.Nickname)
	if err != nil {
		return model.AccessGrant{}, customErrors.WrapInternal(err, "IssueAccessToken")
	}

	return model.AccessGrant{
		AccessToken: at,
		AccessTTL:   time.Until(atExp),
	}, nil
}

func (a *authService) issueTokens(user model.User) (model.TokenPair, error) {
	at, atExp, err := a.codec.IssueAccessToken(user.Email, user.UserID, user.Nickname)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "IssueAccessToken")
	}
	rt, rtExp, err := a.codec.IssueRefreshToken(user.Email, user.UserID)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "IssueRefreshToken")
	}

	now := time.Now()

	return model.TokenPair{
		AccessToken:  at,
		RefreshToken: rt,
		AccessTTL:    atExp.Sub(now),
		RefreshTTL:   rtExp.Sub(now),
		UserID:       user.UserID,
	}, nil
}
