package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	customErrors "github.com/commforge/community-backend/internal/domain/community/errors"
	"github.com/commforge/community-backend/internal/domain/community/model"
)

type PostgresCommentRepo struct {
	db *gorm.DB
}

func NewPostgresCommentRepo(db *gorm.DB) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: db}
}

func (p *PostgresCommentRepo) CreateComment(ctx context.Context, comment model.Comment) (int64, error) {
	res := p.db.WithContext(ctx).Create(&comment)
	if err := res.Error; err != nil {
		return 0, customErrors.WrapInternal(err, "CreateComment")
	}
	return comment.CommentID, nil
}

func (p *PostgresCommentRepo) GetCommentByID(ctx context.Context, id int64) (model.Comment, error) {
	var c model.Comment
	res := p.db.WithContext(ctx).Where("comment_id = ?", id).First(&c)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Comment{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Comment{}, customErrors.WrapInternal(err, "GetCommentByID")
	}

	return c, nil
}

func (p *PostgresCommentRepo) GetCommentsByPostID(ctx context.Context, postID int64) ([]model.Comment, error) {
	var comments []model.Comment
	if err := p.db.WithContext(ctx).
		Where("post_id = ?", postID).Order("comment_id").Find(&comments).Error; err != nil {
		return nil, customErrors.WrapInternal(err, "GetCommentsByPostID")
	}
	return comments, nil
}

func (p *PostgresCommentRepo) UpdateComment(ctx context.Context, comment model.Comment) error {
	if err := p.db.WithContext(ctx).Save(&comment).Error; err != nil {
		return customErrors.WrapInternal(err, "UpdateComment")
	}
	return nil
}

func (p *PostgresCommentRepo) DeleteComment(ctx context.Context, id int64) error {
	res := p.db.WithContext(ctx).Delete(&model.Comment{}, id)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "DeleteComment")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}
