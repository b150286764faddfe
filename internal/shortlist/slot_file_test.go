package shortlist_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CarShelf/internal/shortlist"
)

func TestFileSlot_ReadWrite(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "carshelf")

	slot, err := shortlist.NewFileSlot(dir, shortlist.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "wishlist.json"), slot.Path())

	_, err = slot.Read(ctx)
	assert.ErrorIs(t, err, shortlist.ErrSlotEmpty)

	require.NoError(t, slot.Write(ctx, []byte(`[{"id":1}]`)))
	require.NoError(t, slot.Write(ctx, []byte(`[{"id":2}]`)))

	data, err := slot.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":2}]`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileSlot_RejectsBadKeys(t *testing.T) {
	for _, key := range []string{"", "../escape", "a/b", "with space"} {
		_, err := shortlist.NewFileSlot(t.TempDir(), key)
		assert.Error(t, err, key)
	}
}

func TestFileSlot_CanceledContext(t *testing.T) {
	slot, err := shortlist.NewFileSlot(t.TempDir(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, slot.Write(ctx, []byte("[]")), context.Canceled)
	_, err = slot.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSlot_BacksStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	slot, err := shortlist.NewFileSlot(dir, shortlist.DefaultKey)
	require.NoError(t, err)

	s := shortlist.NewStore(slot, nil)
	s.Load(ctx)
	_, err = s.Toggle(ctx, car(5, "Kia", "Seltos"))
	require.NoError(t, err)

	again, err := shortlist.NewFileSlot(dir, shortlist.DefaultKey)
	require.NoError(t, err)
	reopened := shortlist.NewStore(again, nil)
	reopened.Load(ctx)
	assert.Equal(t, []int{5}, ids(reopened.Items()))
}
