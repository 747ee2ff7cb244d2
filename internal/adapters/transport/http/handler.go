package http

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/commforge/community-backend/internal/adapters/transport/http/middleware"
	authsvc "github.com/commforge/community-backend/internal/app/auth/service"
	"github.com/commforge/community-backend/internal/app/comment"
	"github.com/commforge/community-backend/internal/app/post"
	"github.com/commforge/community-backend/internal/app/user"
	customErrors "github.com/commforge/community-backend/internal/domain/community/errors"
	"github.com/commforge/community-backend/internal/domain/community/model"
	"github.com/commforge/community-backend/internal/domain/community/token"
	"github.com/commforge/community-backend/internal/infra/config"
)

const maxImageBytes = 5 << 20 // 5 MiB

type Handler struct {
	auth     authsvc.Service
	users    user.Service
	posts    post.Service
	comments comment.Service
	codec    token.Codec
	cfg      *config.Config
	log      *zap.Logger
}

func NewHandler(
	auth authsvc.Service,
	users user.Service,
	posts post.Service,
	comments comment.Service,
	codec token.Codec,
	cfg *config.Config,
	log *zap.Logger,
) *Handler {
	return &Handler{
		auth:     auth,
		users:    users,
		posts:    posts,
		comments: comments,
		codec:    codec,
		cfg:      cfg,
		log:      log,
	}
}

// RegisterRoutes вешает все ручки на router. Чтение открыто всем,
// мутации идут через RequireAuth.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	gate := middleware.RequireAuth(h.codec)

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.POST("/refresh", h.refresh)
		auth.POST("/logout", h.logout)
	}

	users := r.Group("/api/users")
	{
		users.GET("", h.listUsers)
		users.GET("/:id", h.getUser)
		users.GET("/:id/image", h.userImage)
		users.GET("/check-email", h.checkEmail)
		users.GET("/check-nickname", h.checkNickname)

		users.PUT("/:id/password", gate, h.updatePassword)
		users.PUT("/:id", gate, h.updateProfile)
		users.DELETE("/:id", gate, h.deleteUser)
	}

	posts := r.Group("/api/posts")
	{
		posts.GET("", h.listPosts)
		posts.GET("/:id", h.getPost)
		posts.GET("/:id/image", h.postImage)
		posts.GET("/:id/comments", h.listComments)
		posts.GET("/:id/comment-count", h.commentCount)

		posts.POST("", gate, h.createPost)
		posts.PUT("/:id", gate, h.updatePost)
		posts.DELETE("/:id", gate, h.deletePost)
		posts.POST("/:id/comments", gate, h.addComment)
	}

	comments := r.Group("/api/comments", gate)
	{
		comments.PUT("/:id", h.updateComment)
		comments.DELETE("/:id", h.deleteComment)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case customErrors.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case customErrors.IsInvalidCredentials(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case customErrors.IsBadToken(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	case customErrors.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case customErrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case customErrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case customErrors.IsTooManyRequests(err):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts"})
	default:
		h.log.Error("internal error", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func identity(c *gin.Context) (model.Identity, bool) {
	return middleware.IdentityFrom(c)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad id"})
		return 0, false
	}
	return id, true
}

// readUpload достаёт файл из multipart-поля "image"; отсутствие файла —
// не ошибка.
func readUpload(c *gin.Context) (*model.Upload, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		// не multipart-запрос — картинки нет
		return nil, nil
	}
	if fh.Size > maxImageBytes {
		return nil, customErrors.NewInvalidArgument("image too large")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, customErrors.WrapInternal(err, "open upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return nil, customErrors.WrapInternal(err, "read upload")
	}
	if len(data) > maxImageBytes {
		return nil, customErrors.NewInvalidArgument("image too large")
	}

	return &model.Upload{
		Data:        data,
		ContentType: fh.Header.Get("Content-Type"),
		Ext:         filepath.Ext(fh.Filename),
	}, nil
}
