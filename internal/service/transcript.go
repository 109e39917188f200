package service

import (
	"sync"
	"time"

	"github.com/cloo-solutions/vitrine/internal/domain"
)

// TranscriptStore is the in-process, append-only chat log.
type TranscriptStore struct {
	mu      sync.Mutex
	entries []domain.TranscriptEntry
	now     func() time.Time
}

func NewTranscriptStore() *TranscriptStore {
	return &TranscriptStore{now: time.Now}
}

func (s *TranscriptStore) Append(user, assistant string) domain.TranscriptEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := domain.TranscriptEntry{User: user, Assistant: assistant, Timestamp: s.now()}
	s.entries = append(s.entries, entry)
	return entry
}

// List returns a copy of every entry in append order.
func (s *TranscriptStore) List() []domain.TranscriptEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.TranscriptEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Clear drops every entry and reports how many were removed.
func (s *TranscriptStore) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.entries)
	s.entries = nil
	return n
}
