package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func writeSnapshot(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const snapshotFixture = `{
	"Acme (acme) | Widget": [
		["2025-03-01", {"overall": {"mention_rate": {"Acme (acme) | Widget": 0.4}}}],
		["2025-03-02", {"overall": {"mention_rate": {"Acme (acme) | Widget": 0.5}}}]
	],
	"Bolt (bolt) | Fastener": [
		["2025-03-01", {"overall": {"mention_rate": {"Bolt (bolt) | Fastener": 0.1}}}]
	]
}`

func TestStoreLoadFirstAvailablePath(t *testing.T) {
	dir := t.TempDir()
	path := writeSnapshot(t, dir, "brand_results.json", snapshotFixture)

	store := NewStore([]string{filepath.Join(dir, "missing.json"), path}, testLogger())
	ds, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"Acme (acme) | Widget", "Bolt (bolt) | Fastener"}, ds.Keys())
}

func TestStoreLoadNoPaths(t *testing.T) {
	store := NewStore([]string{filepath.Join(t.TempDir(), "nope.json")}, testLogger())
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestStoreDropsOutOfOrderRecords(t *testing.T) {
	dir := t.TempDir()
	path := writeSnapshot(t, dir, "brand_results.json", `{
		"Acme | Widget": [
			["2025-03-02", {"overall": {"mention_rate": {"Acme | Widget": 0.5}}}],
			["2025-03-01", {"overall": {"mention_rate": {"Acme | Widget": 0.4}}}],
			["2025-03-02", {"overall": {"mention_rate": {"Acme | Widget": 0.6}}}],
			["2025-03-03", {"overall": {"mention_rate": {"Acme | Widget": 0.7}}}]
		]
	}`)

	store := NewStore([]string{path}, testLogger())
	ds, err := store.Load()
	require.NoError(t, err)

	series := ds.Series["Acme | Widget"]
	require.Len(t, series, 2)
	assert.Equal(t, "2025-03-02", series[0].Date)
	assert.Equal(t, "2025-03-03", series[1].Date)
}

func TestStoreSidecarRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeSnapshot(t, dir, "brand_results.json", snapshotFixture)

	store := NewStore([]string{path}, testLogger())
	_, err := store.Load()
	require.NoError(t, err)

	// First load wrote a decoded sidecar next to the source.
	_, err = os.Stat(sidecarPath(path))
	require.NoError(t, err)

	// Second load serves from the sidecar and sees the same data.
	ds, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())

	// Touching the source invalidates the sidecar.
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))
	ds, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestCacheServesStaleOnLoadFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeSnapshot(t, dir, "brand_results.json", snapshotFixture)

	store := NewStore([]string{path}, testLogger())
	cache := NewCache(store, time.Minute)

	ds, err := cache.Get()
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())

	// Remove the file and expire the cache; the stale copy is still served.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Remove(sidecarPath(path)))
	cache.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	ds, err = cache.Get()
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestCacheInvalidate(t *testing.T) {
	dir := t.TempDir()
	path := writeSnapshot(t, dir, "brand_results.json", snapshotFixture)

	store := NewStore([]string{path}, testLogger())
	cache := NewCache(store, 0)

	_, err := cache.Get()
	require.NoError(t, err)

	cache.Invalidate()
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Remove(sidecarPath(path)))

	_, err = cache.Get()
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestResolveKey(t *testing.T) {
	ds := &Dataset{Series: map[string]EntitySeries{
		"Acme (acme) | Widget":  {},
		"Bolt (bolt) | Widget":  {},
		"Colt (colt) | Spanner": {},
	}}
	ds.keys = []string{"Acme (acme) | Widget", "Bolt (bolt) | Widget", "Colt (colt) | Spanner"}

	tests := []struct {
		name      string
		productID string
		want      string
	}{
		{name: "exact key", productID: "Bolt (bolt) | Widget", want: "Bolt (bolt) | Widget"},
		{name: "fragment match", productID: "Colt", want: "Colt (colt) | Spanner"},
		{name: "product fragment", productID: "Spanner", want: "Colt (colt) | Spanner"},
		{name: "compound identifier", productID: "Colt | Spanner", want: "Colt (colt) | Spanner"},
		{name: "compound missing a fragment falls back", productID: "Acme | Spanner", want: "Acme (acme) | Widget"},
		{name: "underscore compound", productID: "Bolt_Widget", want: "Bolt (bolt) | Widget"},
		{name: "unknown falls back to first", productID: "Zephyr", want: "Acme (acme) | Widget"},
		{name: "empty falls back to first", productID: "", want: "Acme (acme) | Widget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveKey(ds, tt.productID, testLogger())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ResolveKey(&Dataset{}, "anything", testLogger())
	assert.ErrorIs(t, err, ErrProductNotFound)
}
