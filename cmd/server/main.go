package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vncsmyrnk/premios/internal/adapters/cache"
	"github.com/vncsmyrnk/premios/internal/adapters/handler/http"
	"github.com/vncsmyrnk/premios/internal/adapters/repository"
	"github.com/vncsmyrnk/premios/internal/config"
	"github.com/vncsmyrnk/premios/internal/core/ports"
	"github.com/vncsmyrnk/premios/internal/core/services"
	"github.com/vncsmyrnk/premios/internal/log"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := log.WithComponent("server")

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	log.Configure(log.Config{Level: cfg.LogLevel})
	logger = log.WithComponent("server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	store, err := repository.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	questionCache, err := cache.Open(ctx, cfg, log.WithComponent("cache"))
	if err != nil {
		return err
	}
	defer questionCache.Close()

	questionRepo := cache.NewQuestionRepository(store.Questions, questionCache, cfg.CacheTTL, log.WithComponent("cache"))
	choiceRepo := cache.NewChoiceRepository(store.Choices, questionCache)

	clock := ports.SystemClock{}
	questionSvc := services.NewQuestionService(questionRepo, choiceRepo, clock)
	voteSvc := services.NewVoteService(questionSvc, choiceRepo)
	authSvc := services.NewAuthService(cfg.AdminJWTSecret, clock)
	if cfg.AdminJWTSecret == "" {
		logger.Warn().Msg("ADMIN_JWT_SECRET is empty, the admin API rejects every request")
	}

	handler := http.NewHandler(http.RouterConfig{
		Polls:         http.NewPollHandler(questionSvc),
		Votes:         http.NewVoteHandler(questionSvc, voteSvc),
		Questions:     http.NewQuestionHandler(questionSvc),
		Admin:         http.NewAdminHandler(questionSvc),
		Auth:          http.NewAuthHandler(authSvc),
		Logger:        log.WithComponent("http"),
		VoteRateLimit: cfg.VoteRateLimit,
	})
	server := &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().
			Str("addr", cfg.HTTPAddr).
			Str("db", store.Driver).
			Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("gracefully shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
