package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed seed.json
var seedJSON []byte

type MemRepository struct {
	items []Item
	byID  map[int]int
}

func NewMemRepository(items []Item) (*MemRepository, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}

	r := &MemRepository{
		items: make([]Item, len(items)),
		byID:  make(map[int]int, len(items)),
	}
	copy(r.items, items)
	for i, it := range r.items {
		r.byID[it.ID] = i
	}
	return r, nil
}

// NewSeedRepository returns the ten-car reference inventory.
func NewSeedRepository() *MemRepository {
	items, err := decodeItems(seedJSON)
	if err != nil {
		panic(fmt.Sprintf("catalog: bad embedded seed: %v", err))
	}
	r, err := NewMemRepository(items)
	if err != nil {
		panic(fmt.Sprintf("catalog: bad embedded seed: %v", err))
	}
	return r
}

func LoadFile(path string) (*MemRepository, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inventory file: %w", err)
	}
	items, err := decodeItems(raw)
	if err != nil {
		return nil, fmt.Errorf("decode inventory file %s: %w", path, err)
	}
	return NewMemRepository(items)
}

func decodeItems(raw []byte) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MemRepository) Ping(ctx context.Context) error { return nil }

func (r *MemRepository) All() []Item { return r.items }

func (r *MemRepository) ByID(id int) (Item, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Item{}, false
	}
	return r.items[i], true
}

func (r *MemRepository) Len() int { return len(r.items) }
