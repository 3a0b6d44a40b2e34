package storage

import (
	"context"
	"errors"
	"fmt"

	"postcraft-bot/internal/config"
	"postcraft-bot/internal/domain"

	"go.uber.org/zap"
)

var ErrUnknownDriver = errors.New("storage: unknown registry driver")

// Registry is the durable channel list. Implementations are safe for
// concurrent use.
type Registry interface {
	List(ctx context.Context) ([]domain.Channel, error)
	Get(ctx context.Context, id string) (domain.Channel, error)
	Add(ctx context.Context, id, title string) error
	Remove(ctx context.Context, id string) error
	Close() error
}

var (
	_ Registry = (*FileRegistry)(nil)
	_ Registry = (*SQLRegistry)(nil)
)

// OpenRegistry picks the backend named by cfg.RegistryDriver.
func OpenRegistry(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Registry, error) {
	switch cfg.RegistryDriver {
	case config.RegistryFile:
		logger.Info("Using file channel registry", zap.String("path", cfg.ChannelsFile))
		return NewFileRegistry(cfg.ChannelsFile, logger), nil
	case config.RegistryPostgres, config.RegistrySQLite:
		return NewSQLRegistry(ctx, SQLConfig{
			Driver: cfg.RegistryDriver,
			DSN:    cfg.DatabaseDSN,
		}, logger)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.RegistryDriver)
}
