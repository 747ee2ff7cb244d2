package post

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/commforge/community-backend/internal/adapters/transport/http/dto"
	"github.com/commforge/community-backend/internal/app/authz"
	customErrors "github.com/commforge/community-backend/internal/domain/community/errors"
	"github.com/commforge/community-backend/internal/domain/community/model"
	"github.com/commforge/community-backend/internal/domain/community/repo"
)

type Service interface {
	List(ctx context.Context) ([]model.Post, error)
	Get(ctx context.Context, id int64) (model.Post, error)
	// View возвращает пост и засчитывает просмотр.
	View(ctx context.Context, id int64) (model.Post, error)
	Create(ctx context.Context, actingUserID int64, in dto.CreatePostDTO, image *model.Upload) (model.Post, error)
	Update(ctx context.Context, actingUserID, postID int64, in dto.UpdatePostDTO, image *model.Upload) (model.Post, error)
	Delete(ctx context.Context, actingUserID, postID int64) error
	Image(ctx context.Context, postID int64) ([]byte, string, error)
	CommentCount(ctx context.Context, postID int64) (int64, error)
}

type postService struct {
	posts  repo.PostRepo
	users  repo.UserRepo
	images repo.ImageStore
	v      *validator.Validate
}

func New(posts repo.PostRepo, users repo.UserRepo, images repo.ImageStore, v *validator.Validate) Service {
	return &postService{posts: posts, users: users, images: images, v: v}
}

func (s *postService) List(ctx context.Context) ([]model.Post, error) {
	return s.posts.GetAllPosts(ctx)
}

func (s *postService) Get(ctx context.Context, id int64) (model.Post, error) {
	return s.posts.GetPostByID(ctx, id)
}

func (s *postService) View(ctx context.Context, id int64) (model.Post, error) {
	return s.posts.IncrementViews(ctx, id)
}

func (s *postService) Create(ctx context.Context, actingUserID int64, in dto.CreatePostDTO, image *model.Upload) (model.Post, error) {
	if err := s.v.Struct(in); err != nil {
		return model.Post{}, customErrors.NewInvalidArgument(err.Error())
	}

	if _, err := s.users.GetUserByID(ctx, actingUserID); err != nil {
		if errors.Is(err, customErrors.ErrNotFound) {
			return model.Post{}, customErrors.ErrNotFound
		}
		return model.Post{}, customErrors.WrapInternal(err, "Create")
	}

	post := model.Post{
		UserID:  actingUserID,
		Title:   in.Title,
		Content: in.Content,
	}

	if image != nil {
		name := uuid.NewString() + image.Ext
		if err := s.images.Put(ctx, "post/"+name, image.Data, image.ContentType); err != nil {
			return model.Post{}, customErrors.WrapInternal(err, "store post image")
		}
		post.Image = name
	}

	id, err := s.posts.CreatePost(ctx, post)
	if err != nil {
		return model.Post{}, customErrors.WrapInternal(err, "CreatePost")
	}
	post.PostID = id
	return post, nil
}

func (s *postService) Update(ctx context.Context, actingUserID, postID int64, in dto.UpdatePostDTO, image *model.Upload) (model.Post, error) {
	if err := s.v.Struct(in); err != nil {
		return model.Post{}, customErrors.NewInvalidArgument(err.Error())
	}

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return model.Post{}, err
	}

	// проверка владения — до любых записей
	if err := authz.Authorize(actingUserID, post.UserID); err != nil {
		return model.Post{}, err
	}

	post.Title = in.Title
	post.Content = in.Content

	switch {
	case image != nil:
		name := post.Image
		if name == "" {
			name = uuid.NewString() + image.Ext
		}
		if err := s.images.Put(ctx, "post/"+name, image.Data, image.ContentType); err != nil {
			return model.Post{}, customErrors.WrapInternal(err, "store post image")
		}
		post.Image = name
	case post.Image != "":
		if err := s.images.Delete(ctx, "post/"+post.Image); err != nil {
			return model.Post{}, customErrors.WrapInternal(err, "delete post image")
		}
		post.Image = ""
	}

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return model.Post{}, customErrors.WrapInternal(err, "UpdatePost")
	}
	return post, nil
}

func (s *postService) Delete(ctx context.Context, actingUserID, postID int64) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}

	if err := authz.Authorize(actingUserID, post.UserID); err != nil {
		return err
	}

	// пост и его комментарии исчезают в одной транзакции
	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return customErrors.WrapInternal(err, "DeletePost")
	}

	if post.Image != "" {
		// объект уже не на что ссылается, ошибка удаления не фатальна
		_ = s.images.Delete(ctx, "post/"+post.Image)
	}
	return nil
}

func (s *postService) Image(ctx context.Context, postID int64) ([]byte, string, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, "", err
	}
	if post.Image == "" {
		return nil, "", customErrors.ErrNotFound
	}
	return s.images.Get(ctx, "post/"+post.Image)
}

func (s *postService) CommentCount(ctx context.Context, postID int64) (int64, error) {
	return s.posts.CommentCount(ctx, postID)
}
