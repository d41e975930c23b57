package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/gurusys/blog-api/internal/config"
	"github.com/gurusys/blog-api/internal/database"
	"github.com/gurusys/blog-api/internal/handler"
	"github.com/gurusys/blog-api/internal/middleware"
	"github.com/gurusys/blog-api/internal/notify"
	"github.com/gurusys/blog-api/internal/repository"
	"github.com/gurusys/blog-api/internal/router"
	"github.com/gurusys/blog-api/internal/service"
	"github.com/gurusys/blog-api/internal/storage"
	"github.com/gurusys/blog-api/internal/token"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	blogs := repository.NewBlogRepo(db)
	comments := repository.NewCommentRepo(db)
	codec := token.New(cfg.JWTSecret)

	// Avatar storage is optional; without it avatar uploads answer 503.
	var avatars service.AvatarStorage
	storageCfg := config.LoadStorageConfig()
	if storageCfg.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		store, err := storage.New(ctx, storageCfg)
		cancel()
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
		avatars = store
	}

	mailer := notify.NewPublisher(cfg.AMQPURL)
	go notify.StartMailConsumer(cfg.AMQPURL)

	// No identity verifier is wired yet: /auth/oauth answers 503 until a
	// provider-backed implementation of service.IdentityVerifier lands.
	svc := service.New(cfg, codec, users, blogs, comments, avatars, mailer, nil)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	gate := middleware.Authenticate(codec, users)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), config.NewRedisClient())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, svc), handler.NewUserHandler(cfg, svc), gate, limiter)
	router.RegisterBlogs(e, handler.NewBlogHandler(blogs, comments), gate)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
