// internal/inventory/store.go
package inventory

import (
	"sync"
	"time"

	"github.com/freshsense/freshsense/internal/models"
)

// Persister durably stores the full inventory collection. Save is called
// after every successful mutation; Load rehydrates the collection at boot.
type Persister interface {
	Save(items []models.FridgeItem) error
	Load() ([]models.FridgeItem, error)
}

// Store owns the inventory collection. Mutations are expressed as pure
// transformations over the item slice; the persister is invoked after each
// successful transformation so the core stays testable without storage.
//
// Insertion order is preserved. Uniqueness is enforced on ID only;
// duplicate names are separate records.
type Store struct {
	mu        sync.RWMutex
	items     []models.FridgeItem
	persister Persister
	nowFn     func() time.Time
	onChange  func(items []models.FridgeItem)
}

// NewStore creates an empty store backed by p. A nil persister keeps the
// collection in memory only.
func NewStore(p Persister) *Store {
	return &Store{
		persister: p,
		nowFn:     time.Now,
	}
}

// OnChange registers a callback invoked with a snapshot after every
// successful mutation. Used by the websocket feed.
func (s *Store) OnChange(fn func(items []models.FridgeItem)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Load rehydrates the collection from the persister. A missing snapshot
// yields an empty collection.
func (s *Store) Load() error {
	if s.persister == nil {
		return nil
	}

	items, err := s.persister.Load()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Add appends item to the collection. Status is overwritten from the
// item's expiry date regardless of what the caller supplied. There is no
// deduplication; the append always succeeds even if persistence fails.
func (s *Store) Add(item models.FridgeItem) (models.FridgeItem, error) {
	s.mu.Lock()
	now := s.nowFn()
	s.items = addItem(s.items, item, now)
	stamped := s.items[len(s.items)-1]
	err := s.persist()
	s.mu.Unlock()

	s.notify()
	return stamped, err
}

// Update merges patch onto the record with the given id and recomputes its
// status from the resulting expiry date (a patched expiry wins, otherwise
// the existing one is kept). An unknown id is a no-op, not an error.
func (s *Store) Update(id string, patch models.ItemPatch) error {
	s.mu.Lock()
	next, changed := updateItem(s.items, id, patch, s.nowFn())
	if !changed {
		s.mu.Unlock()
		return nil
	}
	s.items = next
	err := s.persist()
	s.mu.Unlock()

	s.notify()
	return err
}

// Remove deletes the record with the given id. An unknown id is a no-op.
func (s *Store) Remove(id string) error {
	return s.RemoveAll([]string{id})
}

// RemoveAll deletes every record whose id appears in ids, persisting once.
// Unknown ids are ignored.
func (s *Store) RemoveAll(ids []string) error {
	s.mu.Lock()
	next, changed := removeItems(s.items, ids)
	if !changed {
		s.mu.Unlock()
		return nil
	}
	s.items = next
	err := s.persist()
	s.mu.Unlock()

	s.notify()
	return err
}

// Items returns an ordered copy of the collection with status recomputed
// against the current time, so a snapshot rendered today always reflects
// current freshness even if a record was never touched again.
func (s *Store) Items() []models.FridgeItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len returns the number of tracked items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) snapshotLocked() []models.FridgeItem {
	now := s.nowFn()
	out := make([]models.FridgeItem, len(s.items))
	for i, item := range s.items {
		item.Status = ComputeStatus(item.ExpiryDate, now)
		out[i] = item
	}
	return out
}

// persist must be called with the write lock held: the snapshot has to be
// flushed before the mutation is considered complete.
func (s *Store) persist() error {
	if s.persister == nil {
		return nil
	}
	return s.persister.Save(s.items)
}

func (s *Store) notify() {
	s.mu.RLock()
	fn := s.onChange
	var snapshot []models.FridgeItem
	if fn != nil {
		snapshot = s.snapshotLocked()
	}
	s.mu.RUnlock()

	if fn != nil {
		fn(snapshot)
	}
}

// --- pure transformations ---

func addItem(items []models.FridgeItem, item models.FridgeItem, now time.Time) []models.FridgeItem {
	item.Status = ComputeStatus(item.ExpiryDate, now)
	next := make([]models.FridgeItem, len(items), len(items)+1)
	copy(next, items)
	return append(next, item)
}

func updateItem(items []models.FridgeItem, id string, patch models.ItemPatch, now time.Time) ([]models.FridgeItem, bool) {
	for i, item := range items {
		if item.ID != id {
			continue
		}

		next := make([]models.FridgeItem, len(items))
		copy(next, items)
		next[i] = applyPatch(item, patch, now)
		return next, true
	}
	return items, false
}

func applyPatch(item models.FridgeItem, patch models.ItemPatch, now time.Time) models.FridgeItem {
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.ExpiryDate != nil {
		item.ExpiryDate = patch.ExpiryDate
	}
	if patch.StorageTips != nil {
		item.StorageTips = *patch.StorageTips
	}
	if patch.Notes != nil {
		item.Notes = *patch.Notes
	}

	// patch.Status is deliberately ignored: status is derived state.
	item.Status = ComputeStatus(item.ExpiryDate, now)
	return item
}

func removeItems(items []models.FridgeItem, ids []string) ([]models.FridgeItem, bool) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	next := make([]models.FridgeItem, 0, len(items))
	for _, item := range items {
		if !drop[item.ID] {
			next = append(next, item)
		}
	}

	if len(next) == len(items) {
		return items, false
	}
	return next, true
}
