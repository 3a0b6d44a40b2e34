package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"postcraft-bot/internal/domain"
	pkgredis "postcraft-bot/pkg/redis"
)

// Storage keeps conversation records as JSON under state:<chat id>.
type Storage struct {
	client *pkgredis.Client
	ttl    time.Duration
}

func New(client *pkgredis.Client, ttl time.Duration) *Storage {
	return &Storage{client: client, ttl: ttl}
}

func (s *Storage) GetRecord(ctx context.Context, chatID int64) (domain.ConversationRecord, bool, error) {
	data, err := s.client.Get(ctx, buildStateKey(chatID))
	if pkgredis.IsNil(err) {
		return domain.ConversationRecord{}, false, nil
	}
	if err != nil {
		return domain.ConversationRecord{}, false, fmt.Errorf("get state: %w", err)
	}

	var record domain.ConversationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.ConversationRecord{}, false, fmt.Errorf("unmarshal failure: %w", err)
	}
	return record, true, nil
}

func (s *Storage) SetRecord(ctx context.Context, record domain.ConversationRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := s.client.Set(ctx, buildStateKey(record.ChatID), data, s.ttl); err != nil {
		return fmt.Errorf("set state: %w", err)
	}
	return nil
}

func (s *Storage) DropRecord(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, buildStateKey(chatID)); err != nil {
		return fmt.Errorf("drop state: %w", err)
	}
	return nil
}

func buildStateKey(chatID int64) string {
	return fmt.Sprintf("state:%d", chatID)
}
