package main

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/campus/app"
	"github.com/kochabx/campus/auth"
	"github.com/kochabx/campus/auth/revoke"
	"github.com/kochabx/campus/config"
	"github.com/kochabx/campus/handler"
	"github.com/kochabx/campus/log"
	"github.com/kochabx/campus/model"
	"github.com/kochabx/campus/repository"
	"github.com/kochabx/campus/store/db"
	"github.com/kochabx/campus/store/redis"
	transporthttp "github.com/kochabx/campus/transport/http"
)

func main() {
	var cfg config.App
	manager := config.New(&cfg)
	if err := manager.Load(); err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := manager.Watch(); err != nil {
		log.Warnf("config watch unavailable: %v", err)
	}

	if cfg.Log.File {
		logger := log.NewMulti(cfg.Log.Files)
		log.SetGlobalLogger(logger)
	}
	log.SetGlobalLevel(log.ParseLevel(cfg.Log.Level))

	gin.SetMode(gin.ReleaseMode)

	dbClient, err := db.NewClient(&cfg.DB)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	if err := model.Migrate(dbClient.DB); err != nil {
		log.Fatalf("migrate schema: %v", err)
	}
	if err := model.SeedRoles(dbClient.DB); err != nil {
		log.Fatalf("seed roles: %v", err)
	}

	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("connect redis: %v", err)
	}

	issuer, err := auth.NewIssuer(&cfg.Auth.Token)
	if err != nil {
		log.Fatalf("create token issuer: %v", err)
	}

	revocations := revoke.NewRedisStore(redisClient.GetClient(), cfg.Auth.RevokedRetention())
	sessions := auth.NewSessions(issuer, revocations)

	users := repository.NewUserRepo(dbClient.DB)

	router := handler.NewRouter(handler.RouterConfig{
		Auth:     handler.NewAuthHandler(users, sessions, cfg.Auth.AdminInviteCode),
		Users:    handler.NewUserHandler(users, sessions),
		Sessions: sessions,
		Logger:   log.G,
	})

	server := transporthttp.NewServer(cfg.Server.Addr, router,
		transporthttp.WithName("campus"),
		transporthttp.WithMetricsOptions(cfg.Metrics.Metrics),
		transporthttp.WithHealthOptions(cfg.Metrics.Health),
	)

	application := app.New(
		app.WithShutdownTimeout(cfg.Server.ShutdownGrace()),
		app.WithServer(server),
		app.WithClose("redis", func(context.Context) error { return redisClient.Close() }, 0),
		app.WithClose("database", func(context.Context) error { return dbClient.Close() }, 0),
	)

	if err := application.Start(); err != nil {
		log.Fatalf("application exited: %v", err)
	}
}
