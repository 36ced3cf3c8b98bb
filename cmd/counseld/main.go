package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"counseld/internal/auth"
	"counseld/internal/booking"
	"counseld/internal/config"
	"counseld/internal/db"
	"counseld/internal/httpapi"
	"counseld/internal/mail"
	"counseld/internal/otel"
	"counseld/internal/sessions"
	"counseld/internal/slots"
	"counseld/internal/store"
	"counseld/internal/tokens"
	"counseld/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	cleanup, err := otel.Init(ctx, version.Name, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("init otel")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cleanup(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown otel")
		}
	}()

	database, err := db.Connect(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer func() {
		if err := db.Close(database); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	if err := db.Migrate(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	if cfg.BootstrapAdminEmail != "" && cfg.BootstrapAdminPassword != "" {
		hash, err := auth.HashPassword(cfg.BootstrapAdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("hash bootstrap admin password")
		}
		if err := db.SeedAdmin(ctx, database, cfg.BootstrapAdminEmail, hash); err != nil {
			log.Fatal().Err(err).Msg("seed bootstrap admin")
		}
	}

	st := store.New(database)
	jwt := auth.NewJWT(cfg.JWTSigningKey, cfg.AccessTokenTTL)
	sender := mail.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)

	tokenSvc := tokens.NewService(st, sender, cfg.PublicBaseURL)

	r := httpapi.Router(httpapi.RouterOptions{
		JWT:            jwt,
		Auth:           auth.NewService(st, jwt),
		Tokens:         tokenSvc,
		Slots:          slots.NewService(st),
		Booking:        booking.NewService(st, tokenSvc),
		Sessions:       sessions.NewService(st),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("starting counseld")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown server")
	}
}
