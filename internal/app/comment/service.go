package comment

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/commforge/community-backend/internal/adapters/transport/http/dto"
	"github.com/commforge/community-backend/internal/app/authz"
	customErrors "github.com/commforge/community-backend/internal/domain/community/errors"
	"github.com/commforge/community-backend/internal/domain/community/model"
	"github.com/commforge/community-backend/internal/domain/community/repo"
)

type Service interface {
	ListByPost(ctx context.Context, postID int64) ([]model.Comment, error)
	Add(ctx context.Context, actingUserID, postID int64, in dto.CreateCommentDTO) (model.Comment, error)
	Update(ctx context.Context, actingUserID, commentID int64, in dto.UpdateCommentDTO) (model.Comment, error)
	Delete(ctx context.Context, actingUserID, commentID int64) error
}

type commentService struct {
	comments repo.CommentRepo
	posts    repo.PostRepo
	users    repo.UserRepo
	v        *validator.Validate
}

func New(comments repo.CommentRepo, posts repo.PostRepo, users repo.UserRepo, v *validator.Validate) Service {
	return &commentService{comments: comments, posts: posts, users: users, v: v}
}

func (s *commentService) ListByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	return s.comments.GetCommentsByPostID(ctx, postID)
}

func (s *commentService) Add(ctx context.Context, actingUserID, postID int64, in dto.CreateCommentDTO) (model.Comment, error) {
	if err := s.v.Struct(in); err != nil {
		return model.Comment{}, customErrors.NewInvalidArgument(err.Error())
	}

	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return model.Comment{}, err
	}
	if _, err := s.users.GetUserByID(ctx, actingUserID); err != nil {
		return model.Comment{}, err
	}

	comment := model.Comment{
		PostID:  postID,
		UserID:  actingUserID,
		Content: in.Content,
	}
	id, err := s.comments.CreateComment(ctx, comment)
	if err != nil {
		return model.Comment{}, customErrors.WrapInternal(err, "CreateComment")
	}
	comment.CommentID = id
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, actingUserID, commentID int64, in dto.UpdateCommentDTO) (model.Comment, error) {
	if err := s.v.Struct(in); err != nil {
		return model.Comment{}, customErrors.NewInvalidArgument(err.Error())
	}

	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return model.Comment{}, err
	}

	if err := authz.Authorize(actingUserID, comment.UserID); err != nil {
		return model.Comment{}, err
	}

	comment.Content = in.Content
	if err := s.comments.UpdateComment(ctx, comment); err != nil {
		return model.Comment{}, customErrors.WrapInternal(err, "UpdateComment")
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, actingUserID, commentID int64) error {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}

	if err := authz.Authorize(actingUserID, comment.UserID); err != nil {
		return err
	}

	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		return customErrors.WrapInternal(err, "DeleteComment")
	}
	return nil
}
