package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	tele "gopkg.in/telebot.v3"

	"wordfeed/internal/config"
	"wordfeed/internal/database"
	"wordfeed/internal/feed"
	"wordfeed/internal/handler"
	"wordfeed/internal/repository/memory"
	"wordfeed/internal/repository/postgres"
	"wordfeed/internal/repository/sqlite"
	"wordfeed/internal/scheduler"
	"wordfeed/internal/service"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting wordfeed bot")

	cfg, err := config.LoadBot()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.DSN(), database.DefaultRetry, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	if err := database.Migrate(db, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	local, err := sqlite.Open(cfg.LocalStorePath)
	if err != nil {
		logger.Fatal("Failed to open local store", zap.Error(err))
	}
	defer local.Close()

	// Repositories
	userRepo := postgres.NewUserRepo(db)
	wordRepo := postgres.NewWordRepo(db)
	questionRepo := postgres.NewQuestionRepo(db)

	// Feed
	sessions := feed.NewRegistry()
	seeds := memory.NewSeedStore().KeepWhile(sessions.Has)
	controller := feed.NewController(wordRepo, logger, feed.WithPageSize(cfg.Feed.PageSize))

	// Services
	authService := service.NewAuthService(userRepo, cfg.BotPassword, cfg.AdminPasswordHash)
	catalogService := service.NewCatalogService(wordRepo)
	quizService := service.NewQuizService(questionRepo, logger)
	importService := service.NewImportService(wordRepo, quizService, local, logger, sessions)

	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	h := handler.NewHandler(bot, handler.Services{
		Auth:     authService,
		Catalog:  catalogService,
		Quiz:     quizService,
		Import:   importService,
		Feed:     controller,
		Sessions: sessions,
		Profiles: func(owner string) feed.Profile {
			return feed.Profile{
				Completions: local.Completions(owner),
				Seeds:       seeds.For(owner),
			}
		},
	}, logger)
	h.RegisterHandlers()

	sweeper := scheduler.NewSweeper(cfg.Feed.SessionIdleTTL, logger,
		scheduler.Target{Name: "feed_sessions", Store: sessions},
		scheduler.Target{Name: "seeds", Store: seeds},
	)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("Failed to start sweeper", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Bot started successfully")
		bot.Start()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received, stopping bot...")
		sweeper.Stop()
		bot.Stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Bot stopped gracefully")
}
