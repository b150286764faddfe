package shortlist

import (
	"context"
	"sync"
)

type MemorySlot struct {
	mu   sync.RWMutex
	data []byte
	set  bool
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (s *MemorySlot) Read(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.set {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemorySlot) Write(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = append(s.data[:0], data...)
	s.set = true
	return nil
}
