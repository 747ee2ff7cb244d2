package repo

import (
	"context"
	"time"

	"github.com/commforge/community-backend/internal/domain/community/model"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user model.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetAllUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, user model.User) error
	// DeleteUser удаляет пользователя вместе с его постами и комментариями
	// в одной транзакции.
	DeleteUser(ctx context.Context, id int64) error
	EmailTaken(ctx context.Context, email string) (bool, error)
	NicknameTaken(ctx context.Context, nickname string) (bool, error)
}

type PostRepo interface {
	CreatePost(ctx context.Context, post model.Post) (int64, error)
	GetPostByID(ctx context.Context, id int64) (model.Post, error)
	GetAllPosts(ctx context.Context) ([]model.Post, error)
	UpdatePost(ctx context.Context, post model.Post) error
	// DeletePost удаляет пост и его комментарии в одной транзакции:
	// либо исчезает всё, либо ничего.
	DeletePost(ctx context.Context, id int64) error
	IncrementViews(ctx context.Context, id int64) (model.Post, error)
	CommentCount(ctx context.Context, postID int64) (int64, error)
}

type CommentRepo interface {
	CreateComment(ctx context.Context, comment model.Comment) (int64, error)
	GetCommentByID(ctx context.Context, id int64) (model.Comment, error)
	GetCommentsByPostID(ctx context.Context, postID int64) ([]model.Comment, error)
	UpdateComment(ctx context.Context, comment model.Comment) error
	DeleteComment(ctx context.Context, id int64) error
}

// LoginLimiter throttles credential guessing per (email, client IP).
type LoginLimiter interface {
	// Allow сообщает, не исчерпана ли квота попыток для ключа.
	Allow(ctx context.Context, key string) (bool, error)
	// Fail регистрирует неудачную попытку с окном window.
	Fail(ctx context.Context, key string, window time.Duration) error
	// Reset сбрасывает счётчик после успешного входа.
	Reset(ctx context.Context, key string) error
}

// ImageStore keeps uploaded images (post pictures, avatars) in object
// storage. Implementations must be safe for concurrent use.
type ImageStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
	Get(ctx context.Context, name string) ([]byte, string, error)
	Delete(ctx context.Context, name string) error
}
