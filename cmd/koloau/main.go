// Package main contains the entrypoint for the Koloau bot builder.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/koloau/builder/internal/bot"
	"github.com/koloau/builder/internal/bot/handlers"
	"github.com/koloau/builder/internal/bot/tasks"
	"github.com/koloau/builder/internal/config"
	"github.com/koloau/builder/internal/database"
	"github.com/koloau/builder/internal/f5ai"
	"github.com/koloau/builder/internal/httpapi"
	"github.com/koloau/builder/internal/logger"
	"github.com/koloau/builder/internal/registry"
	"github.com/koloau/builder/internal/telegram"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger, db,
// gateway client, registry, main bot, admin API, scheduler), handles graceful
// shutdown, and returns an exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	aiClient, err := f5ai.NewClient(cfg.F5AI, log)
	if err != nil {
		log.Error("Failed to initialize F5AI client", "error", err)
		return 1
	}

	messenger := telegram.NewClient(log)
	reg := registry.NewRegistry(log, store, messenger, aiClient, cfg.F5AI.DefaultModel, cfg.Messages.BotError)

	hDeps := handlers.HandlerDeps{
		Logger:   log,
		Config:   cfg,
		Store:    store,
		AI:       aiClient,
		Registry: reg,
	}
	tDeps := tasks.TaskDeps{
		Logger:   log,
		Store:    store,
		Registry: reg,
		Config:   cfg,
	}

	// The main bot has no purpose detached from Telegram: a bad main token
	// aborts startup, unlike created bot tokens which fail individually.
	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewChatHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.MainToken, log, botOpts...)
	if err != nil {
		log.Error("Failed to create main Telegram bot", "error", err)
		return 1
	}

	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get main bot info", "error", err)
		return 1
	}
	log.Info("Retrieved main bot info", "bot_id", me.ID, "bot_username", me.Username)

	if err := handlers.Register(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	server := httpapi.NewServer(log, cfg, reg, aiClient)
	app := bot.NewBot(log, cfg, tg, reg, server, sched)

	log.Info("Starting Koloau builder...")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
