package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"postcraft-bot/internal/domain"

	"go.uber.org/zap"
)

// FileRegistry keeps channels in a single JSON document:
//
//	{"channels": [{"id": "...", "title": "..."}]}
//
// Every mutation reads, modifies and atomically rewrites the whole file.
type FileRegistry struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

type channelsFile struct {
	Channels []json.RawMessage `json:"channels"`
}

type storedChannel struct {
	ID    *string `json:"id"`
	Title *string `json:"title"`
}

func NewFileRegistry(path string, logger *zap.Logger) *FileRegistry {
	return &FileRegistry{path: path, logger: logger}
}

func (r *FileRegistry) List(ctx context.Context) ([]domain.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(), nil
}

func (r *FileRegistry) Get(ctx context.Context, id string) (domain.Channel, error) {
	channels, err := r.List(ctx)
	if err != nil {
		return domain.Channel{}, err
	}
	for _, ch := range channels {
		if ch.ID == id {
			return ch, nil
		}
	}
	return domain.Channel{}, domain.ErrChannelNotFound
}

func (r *FileRegistry) Add(ctx context.Context, id, title string) error {
	const operation = "storage.FileRegistry.Add"

	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	channels := r.load()
	for _, ch := range channels {
		if ch.ID == id {
			return nil
		}
	}
	channels = append(channels, domain.Channel{ID: id, Title: title})

	if err := r.save(channels); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return nil
}

func (r *FileRegistry) Remove(ctx context.Context, id string) error {
	const operation = "storage.FileRegistry.Remove"

	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	channels := r.load()
	kept := channels[:0]
	for _, ch := range channels {
		if ch.ID != id {
			kept = append(kept, ch)
		}
	}

	if err := r.save(kept); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return nil
}

func (r *FileRegistry) Close() error { return nil }

// load never fails: a missing or unreadable file is an empty registry and
// entries without both id and title are dropped.
func (r *FileRegistry) load() []domain.Channel {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("Failed to read channels file, treating as empty",
				zap.String("path", r.path),
				zap.Error(err))
		}
		return []domain.Channel{}
	}

	var file channelsFile
	if err := json.Unmarshal(data, &file); err != nil {
		r.logger.Warn("Malformed channels file, treating as empty",
			zap.String("path", r.path),
			zap.Error(err))
		return []domain.Channel{}
	}

	channels := make([]domain.Channel, 0, len(file.Channels))
	for _, raw := range file.Channels {
		var item storedChannel
		if err := json.Unmarshal(raw, &item); err != nil || item.ID == nil || item.Title == nil {
			r.logger.Debug("Skipping malformed channel entry", zap.ByteString("entry", raw))
			continue
		}
		channels = append(channels, domain.Channel{ID: *item.ID, Title: *item.Title})
	}
	return channels
}

func (r *FileRegistry) save(channels []domain.Channel) error {
	data, err := json.MarshalIndent(struct {
		Channels []domain.Channel `json:"channels"`
	}{Channels: channels}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal channels: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
