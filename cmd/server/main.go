package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/vinaysudani/task-manager-api/internal/config"
	"github.com/vinaysudani/task-manager-api/internal/database"
	"github.com/vinaysudani/task-manager-api/internal/handler"
	"github.com/vinaysudani/task-manager-api/internal/mail"
	appmw "github.com/vinaysudani/task-manager-api/internal/middleware"
	"github.com/vinaysudani/task-manager-api/internal/queue"
	"github.com/vinaysudani/task-manager-api/internal/repository"
	"github.com/vinaysudani/task-manager-api/internal/router"
)

func main() {
	_ = godotenv.Load() // local development convenience; real env wins

	cfg := config.Load()

	db, err := database.Open(cfg.MongoURL, cfg.MongoUser, cfg.MongoPass, cfg.MongoDB)
	if err != nil {
		log.Fatalf("mongodb: connect: %v", err)
	}
	log.Printf("connected to mongodb database %q", cfg.MongoDB)
	if err := database.EnsureIndexes(db); err != nil {
		log.Fatalf("mongodb: ensure indexes: %v", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	tasks := repository.NewTaskRepo(db)

	// Background mail consumer; runs its own reconnect loop forever.
	sender := mail.NewSender(cfg.SendGridKey, cfg.MailFrom)
	go func() {
		if err := queue.StartAccountConsumer(sender); err != nil {
			log.Printf("mail-consumer: %v", err)
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, rate limiting disabled")
	}
	limit := appmw.NewTokenBucket(config.LoadRateLimit(), rdb)

	uh := handler.NewUserHandler(cfg, users, tokens, tasks)
	th := handler.NewTaskHandler(tasks)

	e := echo.New()
	e.Use(echomw.CORS())
	router.Register(e, uh, th, appmw.Auth(cfg.JWTSecret, tokens), limit)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
