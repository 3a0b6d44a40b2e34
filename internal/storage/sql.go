package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"postcraft-bot/internal/domain"
	"postcraft-bot/internal/storage/migrations"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

type SQLConfig struct {
	Driver         string
	DSN            string
	MaxElapsedTime time.Duration
}

// SQLRegistry stores channels in a relational table. Insertion order is kept
// in the position column so List returns channels as they were added.
type SQLRegistry struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewSQLRegistry(ctx context.Context, cfg SQLConfig, logger *zap.Logger) (*SQLRegistry, error) {
	const operation = "storage.NewSQLRegistry"

	var db *sqlx.DB

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = cfg.MaxElapsedTime
	if retryPolicy.MaxElapsedTime == 0 {
		retryPolicy.MaxElapsedTime = 2 * time.Minute
	}
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to channel database...", zap.String("driver", cfg.Driver))

	err := backoff.RetryNotify(
		func() error {
			conn, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			db = conn
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, duration time.Duration) {
			logger.Warn("Channel database connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	if cfg.Driver == "sqlite3" {
		// sqlite allows a single writer.
		db.SetMaxOpenConns(1)
	}

	if err := migrations.RunMigrations(ctx, db.DB, cfg.Driver); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	logger.Info("Channel database ready", zap.String("driver", cfg.Driver))
	return &SQLRegistry{db: db, logger: logger}, nil
}

func (r *SQLRegistry) List(ctx context.Context) ([]domain.Channel, error) {
	const query = `SELECT channel_id, title FROM channels ORDER BY position`

	channels := []domain.Channel{}
	if err := r.db.SelectContext(ctx, &channels, query); err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	return channels, nil
}

func (r *SQLRegistry) Get(ctx context.Context, id string) (domain.Channel, error) {
	query := r.db.Rebind(`SELECT channel_id, title FROM channels WHERE channel_id = ?`)

	var ch domain.Channel
	err := r.db.GetContext(ctx, &ch, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Channel{}, domain.ErrChannelNotFound
	}
	if err != nil {
		return domain.Channel{}, fmt.Errorf("failed to get channel: %w", err)
	}
	return ch, nil
}

// Add keeps the title of the first successful add for a given id.
func (r *SQLRegistry) Add(ctx context.Context, id, title string) error {
	query := r.db.Rebind(`
		INSERT INTO channels (channel_id, title, position)
		SELECT CAST(? AS TEXT), CAST(? AS TEXT), COALESCE(MAX(position), 0) + 1 FROM channels WHERE true
		ON CONFLICT (channel_id) DO NOTHING
	`)

	if _, err := r.db.ExecContext(ctx, query, id, title); err != nil {
		return fmt.Errorf("failed to add channel: %w", err)
	}
	return nil
}

func (r *SQLRegistry) Remove(ctx context.Context, id string) error {
	query := r.db.Rebind(`DELETE FROM channels WHERE channel_id = ?`)

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to remove channel: %w", err)
	}
	return nil
}

func (r *SQLRegistry) Close() error {
	return r.db.Close()
}
