// internal/inventory/persist.go
package inventory

import (
	"encoding/json"
	"fmt"

	"github.com/freshsense/freshsense/internal/models"
	"github.com/freshsense/freshsense/internal/storage"
)

const (
	snapshotFile = "inventory.json"

	// snapshotVersion is the current layout of the persisted blob.
	// Version 0 is the original unversioned {"items": [...]} layout.
	snapshotVersion = 1
)

// snapshot is the persisted envelope around the item collection.
type snapshot struct {
	SchemaVersion int                 `json:"schema_version"`
	Items         []models.FridgeItem `json:"items"`
}

// migrations rewrites a raw snapshot from version v to v+1. Registered
// functions run in order until the blob reaches snapshotVersion.
var migrations = map[int]func(raw map[string]json.RawMessage) error{
	// 0 -> 1: the unversioned layout already matches v1 apart from the
	// version tag itself; nothing to rewrite.
	0: func(raw map[string]json.RawMessage) error { return nil },
}

// FilePersister stores the inventory as a single versioned JSON snapshot.
type FilePersister struct {
	files *storage.FileStorage
}

// NewFilePersister wraps fs; the snapshot lives at the root of its base
// directory.
func NewFilePersister(fs *storage.FileStorage) *FilePersister {
	return &FilePersister{files: fs}
}

// Save writes the full collection. The underlying file store flushes via
// temp file + rename before returning.
func (p *FilePersister) Save(items []models.FridgeItem) error {
	if items == nil {
		items = []models.FridgeItem{}
	}
	return p.files.SaveJSONFile("", snapshotFile, snapshot{
		SchemaVersion: snapshotVersion,
		Items:         items,
	})
}

// Load reads the snapshot, migrating older layouts upward. A missing file
// loads as an empty collection.
func (p *FilePersister) Load() ([]models.FridgeItem, error) {
	if !p.files.FileExists("", snapshotFile) {
		return nil, nil
	}

	content, err := p.files.LoadTextFile("", snapshotFile)
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("parse inventory snapshot: %w", err)
	}

	version := 0
	if v, ok := raw["schema_version"]; ok {
		if err := json.Unmarshal(v, &version); err != nil {
			return nil, fmt.Errorf("parse snapshot version: %w", err)
		}
	}
	if version > snapshotVersion {
		return nil, fmt.Errorf("inventory snapshot version %d is newer than supported version %d", version, snapshotVersion)
	}

	for version < snapshotVersion {
		migrate, ok := migrations[version]
		if !ok {
			return nil, fmt.Errorf("no migration registered for snapshot version %d", version)
		}
		if err := migrate(raw); err != nil {
			return nil, fmt.Errorf("migrate snapshot from version %d: %w", version, err)
		}
		version++
	}

	var items []models.FridgeItem
	if rawItems, ok := raw["items"]; ok {
		if err := json.Unmarshal(rawItems, &items); err != nil {
			return nil, fmt.Errorf("parse inventory items: %w", err)
		}
	}
	return items, nil
}
