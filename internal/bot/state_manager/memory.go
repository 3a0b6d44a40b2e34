package state_manager

import (
	"context"
	"sync"
	"time"

	"postcraft-bot/internal/domain"
)

// MemoryStorage keeps records in process memory; they do not survive a restart.
type MemoryStorage struct {
	mu      sync.Mutex
	records map[int64]domain.ConversationRecord
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{records: make(map[int64]domain.ConversationRecord)}
}

func (s *MemoryStorage) GetRecord(_ context.Context, chatID int64) (domain.ConversationRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[chatID]
	if !ok {
		return domain.ConversationRecord{}, false, nil
	}
	return record.Clone(), true, nil
}

func (s *MemoryStorage) SetRecord(_ context.Context, record domain.ConversationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.ChatID] = record.Clone()
	return nil
}

func (s *MemoryStorage) DropRecord(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, chatID)
	return nil
}

// Sweep drops records not updated since cutoff and returns how many it removed.
func (s *MemoryStorage) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for chatID, record := range s.records {
		if record.UpdatedAt.Before(cutoff) {
			delete(s.records, chatID)
			removed++
		}
	}
	return removed
}

func (s *MemoryStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
