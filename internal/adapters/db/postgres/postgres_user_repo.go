package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"gorm.io/gorm"

	customErrors "github.com/commforge/community-backend/internal/domain/community/errors"
	"github.com/commforge/community-backend/internal/domain/community/model"
)

type PostgresUserRepo struct {
	db *gorm.DB
}

func NewPostgresUserRepo(db *gorm.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

func (p *PostgresUserRepo) CreateUser(ctx context.Context, user model.User) (int64, error) {
	res := p.db.WithContext(ctx).Create(&user)
	if err := res.Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, customErrors.ErrAlreadyExists
		}
		return 0, customErrors.WrapInternal(err, "CreateUser")
	}
	return user.UserID, nil
}

func (p *PostgresUserRepo) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Where("user_id = ?", id).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.User{}, customErrors.WrapInternal(err, "GetUserByID")
	}

	return u, nil
}

func (p *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Where("email = ?", email).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.User{}, customErrors.WrapInternal(err, "GetUserByEmail")
	}

	return u, nil
}

func (p *PostgresUserRepo) GetAllUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := p.db.WithContext(ctx).Order("user_id").Find(&users).Error; err != nil {
		return nil, customErrors.WrapInternal(err, "GetAllUsers")
	}
	return users, nil
}

func (p *PostgresUserRepo) UpdateUser(ctx context.Context, user model.User) error {
	res := p.db.WithContext(ctx).Save(&user)
	if err := res.Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return customErrors.ErrAlreadyExists
		}
		return customErrors.WrapInternal(err, "UpdateUser")
	}
	return nil
}

// DeleteUser снимает аккаунт вместе с его комментариями и постами
// (и комментариями под постами) в одной транзакции.
func (p *PostgresUserRepo) DeleteUser(ctx context.Context, id int64) error {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?)",
			tx.Model(&model.Post{}).Select("post_id").Where("user_id = ?", id),
		).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Post{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return customErrors.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, customErrors.ErrNotFound) {
			return customErrors.ErrNotFound
		}
		return customErrors.WrapInternal(err, "DeleteUser")
	}
	return nil
}

func (p *PostgresUserRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := p.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return false, customErrors.WrapInternal(err, "EmailTaken")
	}
	return count > 0, nil
}

func (p *PostgresUserRepo) NicknameTaken(ctx context.Context, nickname string) (bool, error) {
	var count int64
	if err := p.db.WithContext(ctx).Model(&model.User{}).
		Where("nickname = ?", nickname).Count(&count).Error; err != nil {
		return false, customErrors.WrapInternal(err, "NicknameTaken")
	}
	return count > 0, nil
}
