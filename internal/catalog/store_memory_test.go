package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CarShelf/internal/catalog"
)

func TestNewSeedRepository(t *testing.T) {
	repo := catalog.NewSeedRepository()
	require.Equal(t, 10, repo.Len())

	it, ok := repo.ByID(5)
	require.True(t, ok)
	assert.Equal(t, "Kia", it.Brand)
	assert.Equal(t, "Seltos", it.Model)
	assert.Equal(t, int64(22000), it.Price)
	assert.Equal(t, "1.5L Smartstream", it.Specifications.Engine)

	_, ok = repo.ByID(11)
	assert.False(t, ok)
}

func TestNewMemRepository_RejectsBadIDs(t *testing.T) {
	_, err := catalog.NewMemRepository([]catalog.Item{{ID: 1}, {ID: 1}})
	assert.ErrorIs(t, err, catalog.ErrDuplicateID)

	_, err = catalog.NewMemRepository([]catalog.Item{{ID: 0}})
	assert.ErrorIs(t, err, catalog.ErrInvalidID)
}

func TestNewMemRepository_CopiesInput(t *testing.T) {
	items := []catalog.Item{{ID: 1, Brand: "Kia"}}
	repo, err := catalog.NewMemRepository(items)
	require.NoError(t, err)

	items[0].Brand = "changed"
	assert.Equal(t, "Kia", repo.All()[0].Brand)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "cars.json")
	require.NoError(t, os.WriteFile(good, []byte(`[{"id":3,"brand":"Tata","price":100},{"id":1,"brand":"MG","price":50}]`), 0o600))

	repo, err := catalog.LoadFile(good)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, ids(repo.All()))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"id":1}`), 0o600))
	_, err = catalog.LoadFile(bad)
	assert.Error(t, err)

	_, err = catalog.LoadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
