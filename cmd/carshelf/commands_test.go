package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"CarShelf/internal/catalog"
)

type cli struct {
	api string
	dir string
}

func newCLI(t *testing.T) *cli {
	t.Helper()

	s := &catalog.Server{
		Service: &catalog.Service{Repo: catalog.NewSeedRepository(), DefaultLimit: catalog.DefaultLimit},
		Log:     zap.NewNop(),
	}
	ts := httptest.NewServer(catalog.NewHandler(s, catalog.HTTPDeps{Log: zap.NewNop(), Service: "catalog"}))
	t.Cleanup(ts.Close)

	return &cli{api: ts.URL, dir: t.TempDir()}
}

func (c *cli) run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"-api", c.api, "-dir", c.dir}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_List(t *testing.T) {
	c := newCLI(t)

	code, out, _ := c.run(t, "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Maruti Swift")
	assert.NotContains(t, out, "Toyota Camry")
	assert.Contains(t, out, "10 cars, page 1 of 2  [1] 2")

	code, out, _ = c.run(t, "list", "-page", "2")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Toyota Camry")
	assert.Contains(t, out, "$30,000")
	assert.Contains(t, out, "page 2 of 2  1 [2]")
}

func TestRun_ListFilters(t *testing.T) {
	c := newCLI(t)

	code, out, _ := c.run(t, "list", "-brand", "kia", "-sort", "price_desc", "-limit", "5")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Kia Seltos")
	assert.Contains(t, out, "1 cars, page 1 of 1")

	code, out, _ = c.run(t, "list", "-fuel", "Electric")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "No cars found matching your criteria.")
	assert.Contains(t, out, "Try adjusting your filters to see more results.")
}

func TestRun_ListPastLastPage(t *testing.T) {
	c := newCLI(t)

	code, out, _ := c.run(t, "list", "-page", "99")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Page 99 is out of range: 10 cars on 2 pages  1 2")
	assert.NotContains(t, out, "No cars found")
}

func TestRun_ToggleAndShortlist(t *testing.T) {
	c := newCLI(t)

	code, out, _ := c.run(t, "shortlist")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Your shortlist is empty")

	code, out, _ = c.run(t, "toggle", "5")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "added Kia Seltos to shortlist")

	_, err := os.Stat(filepath.Join(c.dir, "wishlist.json"))
	require.NoError(t, err)

	code, out, _ = c.run(t, "shortlist")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Kia Seltos")
	assert.Contains(t, out, "*")

	code, out, _ = c.run(t, "show", "5")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "1.5L Smartstream")
	assert.Regexp(t, `Shortlisted\s+yes`, out)

	code, out, _ = c.run(t, "toggle", "5")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "removed Kia Seltos from shortlist")

	code, out, _ = c.run(t, "shortlist")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Your shortlist is empty")
}

func TestRun_ToggleRemovesVanishedCar(t *testing.T) {
	c := newCLI(t)

	require.NoError(t, os.WriteFile(filepath.Join(c.dir, "wishlist.json"),
		[]byte(`[{"id":77,"brand":"Lada","model":"Niva"}]`), 0o600))

	code, out, _ := c.run(t, "toggle", "77")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "removed 77 from shortlist")

	code, _, errOut := c.run(t, "toggle", "77")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "car 77 not found")
}

func TestRun_CorruptShortlistStartsEmpty(t *testing.T) {
	c := newCLI(t)

	require.NoError(t, os.WriteFile(filepath.Join(c.dir, "wishlist.json"), []byte("{broken"), 0o600))

	code, out, _ := c.run(t, "shortlist")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Your shortlist is empty")
}

func TestRun_Errors(t *testing.T) {
	c := newCLI(t)

	code, _, errOut := c.run(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "usage:")

	code, _, errOut = c.run(t, "drive")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `unknown command "drive"`)

	code, _, _ = c.run(t, "show")
	assert.Equal(t, 2, code)

	code, _, _ = c.run(t, "show", "abc")
	assert.Equal(t, 2, code)

	code, _, errOut = c.run(t, "show", "99")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "car 99 not found")
}

func TestRun_CatalogDown(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	api := ts.URL
	ts.Close()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-api", api, "-dir", t.TempDir(), "list"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), loadFailed)
}

func TestPageBar(t *testing.T) {
	assert.Equal(t, "", pageBar(1, 0))
	assert.Equal(t, "[1] 2 3", pageBar(1, 3))
	assert.Equal(t, "1 ... 4 [5] 6 ... 10", pageBar(5, 10))
}

func TestFormatPrice(t *testing.T) {
	tests := map[int64]string{
		0:       "$0",
		999:     "$999",
		1000:    "$1,000",
		22000:   "$22,000",
		1234567: "$1,234,567",
		-5000:   "-$5,000",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatPrice(in))
	}
}
