package state_manager

import (
	"context"
	"fmt"
	"time"

	"postcraft-bot/internal/domain"
)

type UserDialogStateManager struct {
	storage RecordStorage
	now     func() time.Time
}

func New(storage RecordStorage) *UserDialogStateManager {
	return &UserDialogStateManager{storage: storage, now: time.Now}
}

// Get returns a private copy of the chat's record. ok is false for IDLE chats.
func (u *UserDialogStateManager) Get(ctx context.Context, chatID int64) (domain.ConversationRecord, bool, error) {
	record, ok, err := u.storage.GetRecord(ctx, chatID)
	if err != nil {
		return domain.ConversationRecord{}, false, fmt.Errorf("storage.GetRecord failed: %w", err)
	}
	if !ok || record.Mode == domain.ModeIdle {
		return domain.ConversationRecord{}, false, nil
	}
	return record.Clone(), true, nil
}

// Save stores the record. Saving an IDLE record clears the chat instead.
func (u *UserDialogStateManager) Save(ctx context.Context, record domain.ConversationRecord) error {
	if record.Mode == domain.ModeIdle {
		return u.Clear(ctx, record.ChatID)
	}
	record = record.Clone()
	record.UpdatedAt = u.now()
	if err := u.storage.SetRecord(ctx, record); err != nil {
		return fmt.Errorf("storage.SetRecord failed: %w", err)
	}
	return nil
}

func (u *UserDialogStateManager) Clear(ctx context.Context, chatID int64) error {
	if err := u.storage.DropRecord(ctx, chatID); err != nil {
		return fmt.Errorf("storage.DropRecord failed: %w", err)
	}
	return nil
}
