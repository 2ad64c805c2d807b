package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/conspiralab/conspiralab/internal/config"
	"github.com/conspiralab/conspiralab/internal/database"
	"github.com/conspiralab/conspiralab/internal/handler"
	"github.com/conspiralab/conspiralab/internal/middleware"
	"github.com/conspiralab/conspiralab/internal/queue"
	"github.com/conspiralab/conspiralab/internal/repository"
	"github.com/conspiralab/conspiralab/internal/router"
	"github.com/conspiralab/conspiralab/internal/session"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win either way
	cfg := config.Load()

	db, err := database.Connect(context.Background(), cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	if err := database.EnsureIndexes(context.Background(), db); err != nil {
		log.Fatalf("mongo indexes: %v", err)
	}

	// Redis is mandatory: without the session store no login can work, and
	// the pipeline must never run against an unconfigured store.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("redis unavailable: session store cannot start")
	}
	sessions := session.NewRedisStore(rdb, time.Duration(cfg.SessionTTLMin)*time.Minute)

	users := repository.NewUserRepo(db)
	theories := repository.NewTheoryRepo(db)
	comments := repository.NewCommentRepo(db)

	authH := handler.NewAuthHandler(cfg, users, sessions)
	theoryH := handler.NewTheoryHandler(theories, comments)

	e := echo.New()

	// Pipeline order is load-bearing: resolve the session first, then
	// enrich (which self-heals stale references), and only then can any
	// route group apply the gate.
	e.Use(middleware.ResolveSession(sessions))
	e.Use(middleware.LoadCurrentUser(users, sessions))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.RegisterCatalog(e, theoryH, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterAdmin(e, theoryH)

	// Audit consumer runs for the life of the process.
	go func() {
		if err := queue.StartContentConsumer(); err != nil {
			log.Printf("content consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
