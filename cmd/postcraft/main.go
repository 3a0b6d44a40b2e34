package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"postcraft-bot/internal/bot"
	"postcraft-bot/internal/bot/state_manager"
	"postcraft-bot/internal/config"
	"postcraft-bot/internal/health"
	"postcraft-bot/internal/storage"
	redisstorage "postcraft-bot/internal/storage/redis"
	"postcraft-bot/pkg/logger"
	"postcraft-bot/pkg/redis"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ENTRY POINT

const connectTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("Bot stopped with error", zap.Error(err))
	}
	zapLogger.Info("Bot shutdown gracefully")
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	connectCtx, cancelConnect := context.WithTimeout(ctx, connectTimeout)
	defer cancelConnect()

	registry, err := storage.OpenRegistry(connectCtx, cfg, zapLogger)
	if err != nil {
		return fmt.Errorf("open channel registry: %w", err)
	}
	defer registry.Close()

	records, closeRecords, err := openRecordStorage(connectCtx, cfg, zapLogger)
	if err != nil {
		return err
	}
	defer closeRecords()

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("failed to create bot API: %w", err)
	}
	api.Debug = cfg.TelegramDebug

	zapLogger.Info("Bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID))

	tgBot := bot.New(
		bot.NewTelegramTransport(api, cfg.TelegramMaxRetries, zapLogger),
		registry,
		state_manager.New(records),
		zapLogger,
		bot.Options{ButtonsText: cfg.ButtonsText},
	)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return health.NewServer(cfg.Port, cfg.LivenessText, zapLogger).Run(ctx)
	})
	g.Go(func() error {
		defer api.StopReceivingUpdates()
		return tgBot.Start(ctx, updates)
	})

	return g.Wait()
}

// openRecordStorage picks the conversation state backend. The returned
// func releases it.
func openRecordStorage(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) (state_manager.RecordStorage, func(), error) {
	switch cfg.StateBackend {
	case config.StateRedis:
		client := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := client.Connect(ctx, connectTimeout, zapLogger); err != nil {
			client.Close()
			return nil, nil, err
		}
		zapLogger.Info("Using redis state backend", zap.String("addr", cfg.RedisAddr))
		return redisstorage.New(client, cfg.StateTTL), func() { client.Close() }, nil
	}

	memory := state_manager.NewMemoryStorage()
	if cfg.StateTTL <= 0 {
		return memory, func() {}, nil
	}

	sweeper, err := state_manager.StartSweeper(memory, cfg.StateTTL, cfg.StateSweepInterval, zapLogger)
	if err != nil {
		return nil, nil, fmt.Errorf("start state sweeper: %w", err)
	}
	return memory, func() {
		if err := sweeper.Stop(); err != nil {
			zapLogger.Warn("Failed to stop state sweeper", zap.Error(err))
		}
	}, nil
}
