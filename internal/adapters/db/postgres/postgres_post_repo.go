package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	customErrors "github.com/commforge/community-backend/internal/domain/community/errors"
	"github.com/commforge/community-backend/internal/domain/community/model"
)

type PostgresPostRepo struct {
	db *gorm.DB
}

func NewPostgresPostRepo(db *gorm.DB) *PostgresPostRepo {
	return &PostgresPostRepo{db: db}
}

func (p *PostgresPostRepo) CreatePost(ctx context.Context, post model.Post) (int64, error) {
	res := p.db.WithContext(ctx).Create(&post)
	if err := res.Error; err != nil {
		return 0, customErrors.WrapInternal(err, "CreatePost")
	}
	return post.PostID, nil
}

func (p *PostgresPostRepo) GetPostByID(ctx context.Context, id int64) (model.Post, error) {
	var post model.Post
	res := p.db.WithContext(ctx).Where("post_id = ?", id).First(&post)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.Post{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.Post{}, customErrors.WrapInternal(err, "GetPostByID")
	}

	return post, nil
}

func (p *PostgresPostRepo) GetAllPosts(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := p.db.WithContext(ctx).Order("post_id DESC").Find(&posts).Error; err != nil {
		return nil, customErrors.WrapInternal(err, "GetAllPosts")
	}
	return posts, nil
}

func (p *PostgresPostRepo) UpdatePost(ctx context.Context, post model.Post) error {
	if err := p.db.WithContext(ctx).Save(&post).Error; err != nil {
		return customErrors.WrapInternal(err, "UpdatePost")
	}
	return nil
}

// DeletePost убирает пост и его комментарии атомарно: авторизация выше
// по стеку уже прошла, здесь либо исчезает всё, либо ничего.
func (p *PostgresPostRepo) DeletePost(ctx context.Context, id int64) error {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Post{}, id)
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
		return customErrors.WrapInternal(err, "DeletePost")
	}
	return nil
}

func (p *PostgresPostRepo) IncrementViews(ctx context.Context, id int64) (model.Post, error) {
	var post model.Post
	res := p.db.WithContext(ctx).
		Model(&post).
		Clauses(clause.Returning{}).
		Where("post_id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if err := res.Error; err != nil {
		return model.Post{}, customErrors.WrapInternal(err, "IncrementViews")
	}
	if res.RowsAffected == 0 {
		return model.Post{}, customErrors.ErrNotFound
	}
	return post, nil
}

func (p *PostgresPostRepo) CommentCount(ctx context.Context, postID int64) (int64, error) {
	var count int64
	if err := p.db.WithContext(ctx).Model(&model.Comment{}).
		Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, customErrors.WrapInternal(err, "CommentCount")
	}
	return count, nil
}
