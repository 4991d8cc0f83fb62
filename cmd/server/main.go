package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/meladattef/task-manager/internal/cache"
	"github.com/meladattef/task-manager/internal/config"
	"github.com/meladattef/task-manager/internal/database"
	"github.com/meladattef/task-manager/internal/handler"
	"github.com/meladattef/task-manager/internal/middleware"
	"github.com/meladattef/task-manager/internal/queue"
	"github.com/meladattef/task-manager/internal/repository"
	"github.com/meladattef/task-manager/internal/router"
	mailer "github.com/meladattef/task-manager/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	users := repository.NewUserRepo(db, cfg.BcryptCost)
	tokens := repository.NewTokenRepo(db)
	tasks := repository.NewTaskRepo(db)

	// Redis is optional; a nil client just disables the avatar cache.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, avatar cache disabled")
	}
	avatars := cache.NewAvatarCache(rdb)

	mail := mailer.New()

	authHandler := handler.NewAuthHandler(cfg.JWTSecret, users, tokens, mail)
	userHandler := handler.NewUserHandler(users, mail, avatars)
	taskHandler := handler.NewTaskHandler(tasks)

	e := echo.New()
	router.Register(e, authHandler, userHandler, taskHandler,
		middleware.Auth(cfg.JWTSecret, users, tokens))

	// The mail consumer runs for the lifetime of the process and
	// reconnects on its own; it never takes the API down with it.
	go func() {
		if err := queue.StartMailConsumer(); err != nil {
			log.Printf("mail consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
