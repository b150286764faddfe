// Package shortlist keeps the user's saved items in a single key-value slot.
//
// The whole collection is serialized as a JSON array of item snapshots and
// rewritten on every change. One writer per slot is assumed: two processes
// toggling the same slot overwrite each other (last write wins).
package shortlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"CarShelf/internal/catalog"
)

type Store struct {
	slot Slot
	log  *zap.Logger

	mu    sync.RWMutex
	items []catalog.Item
}

func NewStore(slot Slot, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		slot:  slot,
		log:   log.With(zap.String("component", "shortlist")),
		items: []catalog.Item{},
	}
}

// Load replaces the in-memory state with the slot's content. A missing,
// unreadable or corrupt slot yields an empty shortlist; it is never fatal.
func (s *Store) Load(ctx context.Context) {
	items := s.read(ctx)

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

func (s *Store) read(ctx context.Context) []catalog.Item {
	data, err := s.slot.Read(ctx)
	if errors.Is(err, ErrSlotEmpty) {
		return []catalog.Item{}
	}
	if err != nil {
		s.log.Warn("shortlist unreadable, starting empty", zap.Error(err))
		return []catalog.Item{}
	}

	var stored []catalog.Item
	if err := json.Unmarshal(data, &stored); err != nil {
		s.log.Warn("shortlist corrupt, starting empty", zap.Error(err))
		return []catalog.Item{}
	}

	return dedupe(stored)
}

// Toggle removes item if an entry with its id is saved and appends it
// otherwise. It returns whether the item is shortlisted afterwards. When
// persisting fails the change is undone and the error returned.
func (s *Store) Toggle(ctx context.Context, item catalog.Item) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.items

	var next []catalog.Item
	added := false
	if i := indexOf(prev, item.ID); i >= 0 {
		next = without(prev, i)
	} else {
		next = append(clone(prev), item)
		added = true
	}

	if err := s.flush(ctx, next); err != nil {
		return !added, err
	}
	s.items = next
	return added, nil
}

// Remove deletes id if present. It reports whether anything changed.
func (s *Store) Remove(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.items, id)
	if i < 0 {
		return false, nil
	}

	next := without(s.items, i)
	if err := s.flush(ctx, next); err != nil {
		return false, err
	}
	s.items = next
	return true, nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := []catalog.Item{}
	if err := s.flush(ctx, next); err != nil {
		return err
	}
	s.items = next
	return nil
}

func (s *Store) Contains(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.items, id) >= 0
}

// Items returns a copy in storage (insertion) order.
func (s *Store) Items() []catalog.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.items)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) flush(ctx context.Context, items []catalog.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode shortlist: %w", err)
	}
	if err := s.slot.Write(ctx, data); err != nil {
		s.log.Error("shortlist write failed", zap.Error(err))
		return fmt.Errorf("persist shortlist: %w", err)
	}
	return nil
}

func indexOf(items []catalog.Item, id int) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func without(items []catalog.Item, i int) []catalog.Item {
	out := make([]catalog.Item, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

func clone(items []catalog.Item) []catalog.Item {
	out := make([]catalog.Item, len(items))
	copy(out, items)
	return out
}

// dedupe keeps the first snapshot per id.
func dedupe(items []catalog.Item) []catalog.Item {
	seen := make(map[int]struct{}, len(items))
	out := make([]catalog.Item, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}
