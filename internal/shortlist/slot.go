package shortlist

import (
	"context"
	"errors"
)

// DefaultKey is the storage key the shortlist lives under.
const DefaultKey = "wishlist"

var ErrSlotEmpty = errors.New("slot empty")

// Slot is one key of a durable key-value store. Read returns ErrSlotEmpty
// when nothing was written yet. Write replaces the whole value.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}
