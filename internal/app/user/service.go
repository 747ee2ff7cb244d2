package user

import (
	"context"

	"github.com/alexedwards/argon2id"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/commforge/community-backend/internal/adapters/transport/http/dto"
	"github.com/commforge/community-backend/internal/app/authz"
	customErrors "github.com/commforge/community-backend/internal/domain/community/errors"
	"github.com/commforge/community-backend/internal/domain/community/model"
	"github.com/commforge/community-backend/internal/domain/community/repo"
	"github.com/commforge/community-backend/internal/infra/config"
)

var argonParams = &argon2id.Params{
	Memory:      64 * 1024,
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

type Service interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id int64) (model.User, error)
	UpdatePassword(ctx context.Context, actingUserID, targetUserID int64, in dto.UpdatePasswordDTO) error
	UpdateProfile(ctx context.Context, actingUserID, targetUserID int64, in dto.UpdateProfileDTO, image *model.Upload) (model.User, error)
	// Delete удаляет аккаунт вместе с его постами и комментариями.
	Delete(ctx context.Context, actingUserID, targetUserID int64) error
	EmailTaken(ctx context.Context, email string) (bool, error)
	NicknameTaken(ctx context.Context, nickname string) (bool, error)
	Avatar(ctx context.Context, userID int64) ([]byte, string, error)
}

type userService struct {
	users  repo.UserRepo
	images repo.ImageStore
	cfg    *config.Config
	v      *validator.Validate
}

func New(users repo.UserRepo, images repo.ImageStore, cfg *config.Config, v *validator.Validate) Service {
	return &userService{users: users, images: images, cfg: cfg, v: v}
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.users.GetAllUsers(ctx)
}

func (s *userService) Get(ctx context.Context, id int64) (model.User, error) {
	return s.users.GetUserByID(ctx, id)
}

func (s *userService) UpdatePassword(ctx context.Context, actingUserID, targetUserID int64, in dto.UpdatePasswordDTO) error {
	if err := s.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	if err := authz.Authorize(actingUserID, targetUserID); err != nil {
		return err
	}

	user, err := s.users.GetUserByID(ctx, targetUserID)
	if err != nil {
		return err
	}

	hash, err := argon2id.CreateHash(in.Password+s.cfg.PasswordPepper, argonParams)
	if err != nil {
		return customErrors.WrapInternal(err, "UpdatePassword")
	}
	user.PasswordHash = hash

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return customErrors.WrapInternal(err, "UpdatePassword")
	}
	return nil
}

func (s *userService) UpdateProfile(ctx context.Context, actingUserID, targetUserID int64, in dto.UpdateProfileDTO, image *model.Upload) (model.User, error) {
	if err := s.v.Struct(in); err != nil {
		return model.User{}, customErrors.NewInvalidArgument(err.Error())
	}

	if err := authz.Authorize(actingUserID, targetUserID); err != nil {
		return model.User{}, err
	}

	user, err := s.users.GetUserByID(ctx, targetUserID)
	if err != nil {
		return model.User{}, err
	}

	if in.Nickname != "" && in.Nickname != user.Nickname {
		taken, err := s.users.NicknameTaken(ctx, in.Nickname)
		if err != nil {
			return model.User{}, customErrors.WrapInternal(err, "UpdateProfile")
		}
		if taken {
			return model.User{}, customErrors.ErrAlreadyExists
		}
		user.Nickname = in.Nickname
	}

	if image != nil {
		name := user.Image
		if name == "" {
			name = uuid.NewString() + image.Ext
		}
		if err := s.images.Put(ctx, "user/"+name, image.Data, image.ContentType); err != nil {
			return model.User{}, customErrors.WrapInternal(err, "store avatar")
		}
		user.Image = name
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return model.User{}, customErrors.WrapInternal(err, "UpdateProfile")
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actingUserID, targetUserID int64) error {
	if err := authz.Authorize(actingUserID, targetUserID); err != nil {
		return err
	}

	user, err := s.users.GetUserByID(ctx, targetUserID)
	if err != nil {
		return err
	}

	// аккаунт, его посты и комментарии — одна транзакция
	if err := s.users.DeleteUser(ctx, targetUserID); err != nil {
		return customErrors.WrapInternal(err, "DeleteUser")
	}

	if user.Image != "" {
		_ = s.images.Delete(ctx, "user/"+user.Image)
	}
	return nil
}

func (s *userService) EmailTaken(ctx context.Context, email string) (bool, error) {
	return s.users.EmailTaken(ctx, email)
}

func (s *userService) NicknameTaken(ctx context.Context, nickname string) (bool, error) {
	return s.users.NicknameTaken(ctx, nickname)
}

func (s *userService) Avatar(ctx context.Context, userID int64) ([]byte, string, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if user.Image == "" {
		return nil, "", customErrors.ErrNotFound
	}
	return s.images.Get(ctx, "user/"+user.Image)
}
