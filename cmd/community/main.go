package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	myPostgresRepo "github.com/commforge/community-backend/internal/adapters/db/postgres"
	myRedisRepo "github.com/commforge/community-backend/internal/adapters/db/redis"
	"github.com/commforge/community-backend/internal/adapters/storage/minio"
	myHttp "github.com/commforge/community-backend/internal/adapters/transport/http"
	httpmw "github.com/commforge/community-backend/internal/adapters/transport/http/middleware"
	"github.com/commforge/community-backend/internal/app/auth/jwt"
	authsvc "github.com/commforge/community-backend/internal/app/auth/service"
	"github.com/commforge/community-backend/internal/app/comment"
	"github.com/commforge/community-backend/internal/app/post"
	"github.com/commforge/community-backend/internal/app/user"
	"github.com/commforge/community-backend/internal/infra/config"
	lg "github.com/commforge/community-backend/internal/infra/log"
	"github.com/commforge/community-backend/internal/infra/migrate"
	"github.com/commforge/community-backend/internal/infra/validate"
)

func main() {
	zapLog := lg.Must(os.Getenv("debug"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	redisCli := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisCli.Close()

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	images, err := minio.New(rootCtx, cfg)
	if err != nil {
		zapLog.Fatal("failed to init image store", zap.Error(err))
	}

	v := validate.New()

	userRepo := myPostgresRepo.NewPostgresUserRepo(db)
	postRepo := myPostgresRepo.NewPostgresPostRepo(db)
	commentRepo := myPostgresRepo.NewPostgresCommentRepo(db)
	limiter := myRedisRepo.NewRedisLoginLimiter(redisCli, cfg.LoginMaxAttempts)

	codec, err := jwt.NewCodec(cfg)
	if err != nil {
		zapLog.Fatal("failed to init token codec", zap.Error(err))
	}

	authService := authsvc.New(userRepo, limiter, codec, cfg, v)
	userService := user.New(userRepo, images, cfg, v)
	postService := post.New(postRepo, userRepo, images, v)
	commentService := comment.New(commentRepo, postRepo, userRepo, v)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpmw.RequestLogger(zapLog))
	router.Use(httpmw.NewRateLimitPerIP(50, 100, 10_000, time.Hour))
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			"Authorization",
			"X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	handler := myHttp.NewHandler(authService, userService, postService, commentService, codec, cfg, zapLog)
	handler.RegisterRoutes(router)

	srv := &http.Server{Addr: cfg.HTTPAddress, Handler: router}
	g, _ := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		zapLog.Info("http server started", zap.String("addr", cfg.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("shutdown signal received")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}
	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
