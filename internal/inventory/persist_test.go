// internal/inventory/persist_test.go
package inventory

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshsense/freshsense/internal/models"
	"github.com/freshsense/freshsense/internal/storage"
)

func newTestPersister(t *testing.T) *FilePersister {
	t.Helper()
	fs, err := storage.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	return NewFilePersister(fs)
}

func TestFilePersisterRoundTrip(t *testing.T) {
	p := newTestPersister(t)

	expiry := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	items := []models.FridgeItem{
		{
			ID:         "a",
			Name:       "Milk",
			Category:   models.CategoryDairy,
			Quantity:   "1L",
			ExpiryDate: &expiry,
			Status:     models.StatusFresh,
			Source:     models.SourceManual,
			Confidence: 1,
		},
		{ID: "b", Name: "Rice", Category: models.CategoryPantry},
	}

	require.NoError(t, p.Save(items))

	loaded, err := p.Load()
	require.NoError(t, err)
	assert.Equal(t, items, loaded)
}

func TestFilePersisterMissingFileLoadsEmpty(t *testing.T) {
	p := newTestPersister(t)

	items, err := p.Load()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFilePersisterWritesVersionTag(t *testing.T) {
	p := newTestPersister(t)
	require.NoError(t, p.Save([]models.FridgeItem{{ID: "a", Name: "Milk"}}))

	content, err := p.files.LoadTextFile("", snapshotFile)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(content, &raw))

	var version int
	require.NoError(t, json.Unmarshal(raw["schema_version"], &version))
	assert.Equal(t, snapshotVersion, version)
}

func TestFilePersisterMigratesUnversionedSnapshot(t *testing.T) {
	p := newTestPersister(t)

	// The original layout had no version tag at all.
	legacy := []byte(`{"items": [{"id": "a", "name": "Milk", "category": "Dairy"}]}`)
	require.NoError(t, p.files.SaveTextFile("", snapshotFile, legacy))

	items, err := p.Load()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Name)
	assert.Equal(t, models.CategoryDairy, items[0].Category)
}

func TestFilePersisterRejectsNewerSnapshot(t *testing.T) {
	p := newTestPersister(t)

	future := []byte(`{"schema_version": 99, "items": []}`)
	require.NoError(t, p.files.SaveTextFile("", snapshotFile, future))

	_, err := p.Load()
	assert.Error(t, err)
}

func TestFilePersisterSaveNilWritesEmptyCollection(t *testing.T) {
	p := newTestPersister(t)

	require.NoError(t, p.Save(nil))

	items, err := p.Load()
	require.NoError(t, err)
	assert.Empty(t, items)
}
