package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gharfindr/rental-api/internal/api"
	"github.com/gharfindr/rental-api/internal/infrastructure/config"
	mongodb "github.com/gharfindr/rental-api/internal/infrastructure/db/mongo"
	redisdb "github.com/gharfindr/rental-api/internal/infrastructure/db/redis"
	"github.com/gharfindr/rental-api/internal/infrastructure/mail"
	"github.com/gharfindr/rental-api/internal/infrastructure/queue"
	"github.com/gharfindr/rental-api/internal/infrastructure/storage"
	"github.com/gharfindr/rental-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Mail ---
	smtpMailer, err := mail.NewSMTPMailer(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		ResetURL: cfg.SMTP.ResetURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("smtp mailer init failed")
	}
	defer smtpMailer.Close()

	dispatcher := queue.NewMailDispatcher(cfg.SMTP.Workers, smtpMailer, logger.Component("mail-dispatcher"))
	dispatcher.Start(ctx)

	// --- Uploads ---
	images, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("upload dir init failed")
	}

	// --- HTTP server ---
	e := api.NewRouter(db, rdb, cfg, dispatcher, images, logger.Component("api"))

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
