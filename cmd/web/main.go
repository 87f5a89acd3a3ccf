package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wordfeed/internal/config"
	"wordfeed/internal/database"
	"wordfeed/internal/feed"
	"wordfeed/internal/repository"
	"wordfeed/internal/repository/postgres"
	"wordfeed/internal/repository/sqlite"
	"wordfeed/internal/scheduler"
	"wordfeed/internal/service"
	"wordfeed/internal/web"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("Web server failed", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	cfg, err := config.LoadWeb()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.DSN(), database.DefaultRetry, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.MigrationsPath, logger); err != nil {
		return err
	}

	local, err := sqlite.Open(cfg.LocalStorePath)
	if err != nil {
		return err
	}
	defer local.Close()

	wordRepo := postgres.NewWordRepo(db)
	sessions := feed.NewRegistry()

	server := web.NewServer(web.Deps{
		Feed:     feed.NewController(wordRepo, logger, feed.WithPageSize(cfg.Feed.PageSize)),
		Sessions: sessions,
		Catalog:  service.NewCatalogService(wordRepo),
		Completions: func(profile string) repository.CompletionStore {
			return local.Completions("web:" + profile)
		},
	}, []byte(cfg.Web.SessionSecret), logger)

	sweeper := scheduler.NewSweeper(cfg.Feed.SessionIdleTTL, logger,
		scheduler.Target{Name: "feed_sessions", Store: sessions},
	)
	if err := sweeper.Start(); err != nil {
		return fmt.Errorf("start sweeper: %w", err)
	}
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:              cfg.Web.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Web server listening", zap.String("addr", cfg.Web.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
