package state_manager

import (
	"context"

	"postcraft-bot/internal/domain"
	"postcraft-bot/internal/storage/redis"
)

// RecordStorage persists conversation records keyed by chat id. Get reports
// false when the chat has no record.
type RecordStorage interface {
	GetRecord(ctx context.Context, chatID int64) (domain.ConversationRecord, bool, error)
	SetRecord(ctx context.Context, record domain.ConversationRecord) error
	DropRecord(ctx context.Context, chatID int64) error
}

var (
	_ RecordStorage = (*redis.Storage)(nil)
	_ RecordStorage = (*MemoryStorage)(nil)
)
