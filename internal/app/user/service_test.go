package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/require"

	"github.com/commforge/community-backend/internal/adapters/transport/http/dto"
	"github.com/commforge/community-backend/internal/app/user"
	customErrors "github.com/commforge/community-backend/internal/domain/community/errors"
	"github.com/commforge/community-backend/internal/domain/community/model"
	"github.com/commforge/community-backend/internal/infra/config"
	"github.com/commforge/community-backend/internal/infra/validate"
)

/* stubs */

type userRepoStub struct{ users map[int64]model.User }

func (u *userRepoStub) CreateUser(_ context.Context, _ model.User) (int64, error) { return 0, nil }
func (u *userRepoStub) GetUserByID(_ context.Context, id int64) (model.User, error) {
	m, ok := u.users[id]
	if !ok {
		return model.User{}, customErrors.ErrNotFound
	}
	return m, nil
}
func (u *userRepoStub) GetUserByEmail(_ context.Context, _ string) (model.User, error) {
	return model.User{}, customErrors.ErrNotFound
}
func (u *userRepoStub) GetAllUsers(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(u.users))
	for _, m := range u.users {
		out = append(out, m)
	}
	return out, nil
}
func (u *userRepoStub) UpdateUser(_ context.Context, m model.User) error {
	u.users[m.UserID] = m
	return nil
}
func (u *userRepoStub) DeleteUser(_ context.Context, id int64) error {
	delete(u.users, id)
	return nil
}
func (u *userRepoStub) EmailTaken(_ context.Context, _ string) (bool, error) { return false, nil }
func (u *userRepoStub) NicknameTaken(_ context.Context, nickname string) (bool, error) {
	for _, m := range u.users {
		if m.Nickname == nickname {
			return true, nil
		}
	}
	return false, nil
}

type imageStoreStub struct{ objects map[string][]byte }

func (s *imageStoreStub) Put(_ context.Context, name string, data []byte, _ string) error {
	s.objects[name] = data
	return nil
}
func (s *imageStoreStub) Get(_ context.Context, name string) ([]byte, string, error) {
	b, ok := s.objects[name]
	if !ok {
		return nil, "", customErrors.ErrNotFound
	}
	return b, "image/png", nil
}
func (s *imageStoreStub) Delete(_ context.Context, name string) error {
	delete(s.objects, name)
	return nil
}

/* helpers */

func newSvc() (user.Service, *userRepoStub, *imageStoreStub) {
	ur := &userRepoStub{users: map[int64]model.User{
		1: {UserID: 1, Email: "a@example.com", Nickname: "alice", PasswordHash: "old"},
		2: {UserID: 2, Email: "b@example.com", Nickname: "bob", PasswordHash: "old"},
	}}
	images := &imageStoreStub{objects: make(map[string][]byte)}
	cfg := &config.Config{
		PasswordPepper:  "pepper",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	}
	return user.New(ur, images, cfg, validate.New()), ur, images
}

/* tests */

func TestUpdatePassword_Owner(t *testing.T) {
	svc, ur, _ := newSvc()

	err := svc.UpdatePassword(context.Background(), 1, 1, dto.UpdatePasswordDTO{Password: "NewStr0ng"})
	require.NoError(t, err)

	got := ur.users[1]
	ok, err := argon2id.ComparePasswordAndHash("NewStr0ng"+"pepper", got.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestUpdatePassword_NonOwnerForbidden(t *testing.T) {
	svc, ur, _ := newSvc()

	err := svc.UpdatePassword(context.Background(), 2, 1, dto.UpdatePasswordDTO{Password: "NewStr0ng"})
	require.ErrorIs(t, err, customErrors.ErrForbidden)
	require.Equal(t, "old", ur.users[1].PasswordHash)
}

func TestUpdateProfile_NicknameTaken(t *testing.T) {
	svc, _, _ := newSvc()

	_, err := svc.UpdateProfile(context.Background(), 1, 1, dto.UpdateProfileDTO{Nickname: "bob"}, nil)
	require.ErrorIs(t, err, customErrors.ErrAlreadyExists)
}

func TestUpdateProfile_NicknameAndAvatar(t *testing.T) {
	svc, _, images := newSvc()

	got, err := svc.UpdateProfile(context.Background(), 1, 1,
		dto.UpdateProfileDTO{Nickname: "alice2"},
		&model.Upload{Data: []byte{7}, ContentType: "image/png", Ext: ".png"})
	require.NoError(t, err)
	require.Equal(t, "alice2", got.Nickname)
	require.NotEmpty(t, got.Image)
	require.Len(t, images.objects, 1)

	data, _, err := svc.Avatar(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, []byte{7}, data)
}

func TestUpdateProfile_NonOwnerForbidden(t *testing.T) {
	svc, ur, _ := newSvc()

	_, err := svc.UpdateProfile(context.Background(), 2, 1, dto.UpdateProfileDTO{Nickname: "evil"}, nil)
	require.ErrorIs(t, err, customErrors.ErrForbidden)
	require.Equal(t, "alice", ur.users[1].Nickname)
}

func TestDelete_Owner(t *testing.T) {
	svc, ur, _ := newSvc()

	require.NoError(t, svc.Delete(context.Background(), 1, 1))
	_, ok := ur.users[1]
	require.False(t, ok)
}

func TestDelete_NonOwnerForbidden(t *testing.T) {
	svc, ur, _ := newSvc()

	err := svc.Delete(context.Background(), 2, 1)
	require.ErrorIs(t, err, customErrors.ErrForbidden)
	_, ok := ur.users[1]
	require.True(t, ok)
}
