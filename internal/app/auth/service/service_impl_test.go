package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/commforge/community-backend/internal/adapters/transport/http/dto"
	"github.com/commforge/community-backend/internal/app/auth/jwt"
	appsvc "github.com/commforge/community-backend/internal/app/auth/service"
	customErrors "github.com/commforge/community-backend/internal/domain/community/errors"
	"github.com/commforge/community-backend/internal/domain/community/model"
	"github.com/commforge/community-backend/internal/infra/config"
	"github.com/commforge/community-backend/internal/infra/validate"
)

/* ──────────────────────────────── stubs ──────────────────────────────── */

type userRepoStub struct {
	users  map[int64]model.User
	nextID int64
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: make(map[int64]model.User), nextID: 1}
}

func (u *userRepoStub) CreateUser(_ context.Context, m model.User) (int64, error) {
	for _, v := range u.users {
		if v.Email == m.Email || v.Nickname == m.Nickname {
			return 0, customErrors.ErrAlreadyExists
		}
	}
	m.UserID = u.nextID
	u.nextID++
	u.users[m.UserID] = m
	return m.UserID, nil
}
func (u *userRepoStub) GetUserByID(_ context.Context, id int64) (model.User, error) {
	v, ok := u.users[id]
	if !ok {
		return model.User{}, customErrors.ErrNotFound
	}
	return v, nil
}
func (u *userRepoStub) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	for _, v := range u.users {
		if v.Email == email {
			return v, nil
		}
	}
	return model.User{}, customErrors.ErrNotFound
}
func (u *userRepoStub) GetAllUsers(_ context.Context) ([]model.User, error) { return nil, nil }
func (u *userRepoStub) UpdateUser(_ context.Context, m model.User) error {
	u.users[m.UserID] = m
	return nil
}
func (u *userRepoStub) DeleteUser(_ context.Context, id int64) error {
	delete(u.users, id)
	return nil
}
func (u *userRepoStub) EmailTaken(_ context.Context, _ string) (bool, error)    { return false, nil }
func (u *userRepoStub) NicknameTaken(_ context.Context, _ string) (bool, error) { return false, nil }

type limiterStub struct {
	allowed bool
	fails   int
	resets  int
}

func (l *limiterStub) Allow(_ context.Context, _ string) (bool, error) { return l.allowed, nil }
func (l *limiterStub) Fail(_ context.Context, _ string, _ time.Duration) error {
	l.fails++
	return nil
}
func (l *limiterStub) Reset(_ context.Context, _ string) error {
	l.resets++
	return nil
}

/* ───────────────────────────── helpers ───────────────────────────── */

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		PasswordPepper:  "pepper",
		LoginWindow:     15 * time.Minute,
	}
}

func newSvc(t *testing.T) (appsvc.Service, *jwt.CodecImpl, *userRepoStub, *limiterStub) {
	t.Helper()
	cfg := testConfig()
	codec, err := jwt.NewCodec(cfg)
	require.NoError(t, err)

	ur := newUserRepoStub()
	lim := &limiterStub{allowed: true}
	svc := appsvc.New(ur, lim, codec, cfg, validate.New())
	return svc, codec, ur, lim
}

func register(t *testing.T, svc appsvc.Service) model.TokenPair {
	t.Helper()
	pair, err := svc.Register(context.Background(), dto.RegisterDTO{
		Email:    "alice@example.com",
		Password: "Str0ngPass",
		Nickname: "alice",
	})
	require.NoError(t, err)
	return pair
}

/* ─────────────────────────────── tests ───────────────────────────── */

func TestRegister_IssuesVerifiablePair(t *testing.T) {
	svc, codec, _, _ := newSvc(t)
	pair := register(t, svc)

	ac, err := codec.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", ac.Subject)
	require.Equal(t, "alice", ac.Nickname)
	require.Equal(t, pair.UserID, ac.UserID)

	rc, err := codec.VerifyRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, pair.UserID, rc.UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newSvc(t)
	register(t, svc)

	_, err := svc.Register(context.Background(), dto.RegisterDTO{
		Email:    "alice@example.com",
		Password: "Str0ngPass",
		Nickname: "alice2",
	})
	require.ErrorIs(t, err, customErrors.ErrAlreadyExists)
}

func TestRegister_WeakPassword(t *testing.T) {
	svc, _, _, _ := newSvc(t)

	_, err := svc.Register(context.Background(), dto.RegisterDTO{
		Email:    "weak@example.com",
		Password: "password",
		Nickname: "weak",
	})
	require.True(t, customErrors.IsInvalidArgument(err))
}

func TestLogin_Success(t *testing.T) {
	svc, codec, _, lim := newSvc(t)
	register(t, svc)

	pair, err := svc.Login(context.Background(), dto.LoginDTO{
		Email:    "alice@example.com",
		Password: "Str0ngPass",
		ClientIP: "1.2.3.4",
	})
	require.NoError(t, err)
	require.Equal(t, 1, lim.resets)

	ac, err := codec.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "alice", ac.Nickname)
}

func TestLogin_EnumerationResistance(t *testing.T) {
	svc, _, _, lim := newSvc(t)
	register(t, svc)

	_, errWrongPwd := svc.Login(context.Background(), dto.LoginDTO{
		Email:    "alice@example.com",
		Password: "WrongPass1",
		ClientIP: "1.2.3.4",
	})
	_, errNoUser := svc.Login(context.Background(), dto.LoginDTO{
		Email:    "nobody@example.com",
		Password: "WrongPass1",
		ClientIP: "1.2.3.4",
	})

	// обе ошибки — один и тот же sentinel, ответы неразличимы
	require.ErrorIs(t, errWrongPwd, customErrors.ErrInvalidCredentials)
	require.ErrorIs(t, errNoUser, customErrors.ErrInvalidCredentials)
	require.Equal(t, errWrongPwd, errNoUser)
	require.Equal(t, 2, lim.fails)
}

func TestLogin_RateLimited(t *testing.T) {
	svc, _, _, lim := newSvc(t)
	register(t, svc)
	lim.allowed = false

	_, err := svc.Login(context.Background(), dto.LoginDTO{
		Email:    "alice@example.com",
		Password: "Str0ngPass",
		ClientIP: "1.2.3.4",
	})
	require.ErrorIs(t, err, customErrors.ErrTooManyRequests)
}

func TestRefresh_MintsWorkingAccessToken(t *testing.T) {
	svc, codec, _, _ := newSvc(t)
	pair := register(t, svc)

	grant, err := svc.Refresh(context.Background(), dto.RefreshDTO{RefreshToken: pair.RefreshToken})
	require.NoError(t, err)
	require.Greater(t, grant.AccessTTL, time.Duration(0))

	ac, err := codec.VerifyAccessToken(grant.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "alice", ac.Nickname, "nickname re-fetched from storage")
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	svc, _, _, _ := newSvc(t)
	pair := register(t, svc)

	// access-токен на месте refresh — чужой kind
	_, err := svc.Refresh(context.Background(), dto.RefreshDTO{RefreshToken: pair.AccessToken})
	require.ErrorIs(t, err, customErrors.ErrInvalidToken)
}

func TestRefresh_ExpiredRefreshToken(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshTokenTTL = time.Nanosecond
	codec, err := jwt.NewCodec(cfg)
	require.NoError(t, err)

	ur := newUserRepoStub()
	svc := appsvc.New(ur, &limiterStub{allowed: true}, codec, cfg, validate.New())

	pair, err := svc.Register(context.Background(), dto.RegisterDTO{
		Email:    "bob@example.com",
		Password: "Str0ngPass",
		Nickname: "bob",
	})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	_, err = svc.Refresh(context.Background(), dto.RefreshDTO{RefreshToken: pair.RefreshToken})
	require.ErrorIs(t, err, customErrors.ErrExpiredToken)
}

func TestRefresh_DeletedUser(t *testing.T) {
	svc, _, ur, _ := newSvc(t)
	pair := register(t, svc)

	require.NoError(t, ur.DeleteUser(context.Background(), pair.UserID))

	_, err := svc.Refresh(context.Background(), dto.RefreshDTO{RefreshToken: pair.RefreshToken})
	require.ErrorIs(t, err, customErrors.ErrInvalidCredentials)
}
