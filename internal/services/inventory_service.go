// internal/services/inventory_service.go
package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/freshsense/freshsense/internal/errors"
	"github.com/freshsense/freshsense/internal/inventory"
	"github.com/freshsense/freshsense/internal/models"
)

// InventoryService orchestrates the inventory store: stamping drafts into
// full records, partial updates, and recipe-driven consumption.
type InventoryService struct {
	store *inventory.Store
	nowFn func() time.Time
}

// NewInventoryService wraps store.
func NewInventoryService(store *inventory.Store) *InventoryService {
	return &InventoryService{
		store: store,
		nowFn: time.Now,
	}
}

// Items returns the current ordered collection.
func (s *InventoryService) Items() []models.FridgeItem {
	return s.store.Items()
}

// AddManual commits a manually entered draft. Manual entries always carry
// confidence 1.
func (s *InventoryService) AddManual(draft models.ItemDraft, notes string) (models.FridgeItem, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return models.FridgeItem{}, apperrors.NewValidationError("item name is required", nil)
	}
	if draft.Category == "" {
		draft.Category = models.CategoryOther
	}
	if !draft.Category.Valid() {
		return models.FridgeItem{}, apperrors.NewValidationError("unknown item category", nil)
	}

	draft.Confidence = 1
	item := s.itemFromDraft(draft, models.SourceManual, s.nowFn())
	item.Notes = notes
	return s.store.Add(item)
}

// CommitDrafts writes reviewed scan drafts into the store. Empty names are
// skipped; this is the only path that commits scanned items.
func (s *InventoryService) CommitDrafts(drafts []models.ItemDraft, source models.ItemSource) ([]models.FridgeItem, error) {
	now := s.nowFn()
	added := make([]models.FridgeItem, 0, len(drafts))
	for _, draft := range drafts {
		if strings.TrimSpace(draft.Name) == "" {
			continue
		}
		item, err := s.store.Add(s.itemFromDraft(draft, source, now))
		if err != nil {
			return added, err
		}
		added = append(added, item)
	}
	return added, nil
}

// Update applies a partial update. Unknown ids are a no-op.
func (s *InventoryService) Update(id string, patch models.ItemPatch) error {
	return s.store.Update(id, patch)
}

// Remove deletes an item. Unknown ids are a no-op.
func (s *InventoryService) Remove(id string) error {
	return s.store.Remove(id)
}

// Cook removes the inventory records consumed by the chosen recipe and
// returns them. Matching is the permissive substring heuristic; only the
// recipe's ingredients participate, never its missingIngredients.
func (s *InventoryService) Cook(recipe models.Recipe) ([]models.FridgeItem, error) {
	consumed := inventory.MatchConsumed(s.store.Items(), recipe.Ingredients)
	if len(consumed) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(consumed))
	for _, item := range consumed {
		ids = append(ids, item.ID)
	}
	if err := s.store.RemoveAll(ids); err != nil {
		return consumed, err
	}
	return consumed, nil
}

// itemFromDraft stamps a draft into a full record. A zero daysToExpire
// means no known expiry, matching the review flow of the capture UI.
func (s *InventoryService) itemFromDraft(draft models.ItemDraft, source models.ItemSource, now time.Time) models.FridgeItem {
	var expiry *time.Time
	if draft.DaysToExpire != 0 {
		e := now.Add(time.Duration(draft.DaysToExpire) * 24 * time.Hour)
		expiry = &e
	}

	return models.FridgeItem{
		ID:           uuid.NewString(),
		Name:         draft.Name,
		Category:     draft.Category,
		Quantity:     draft.Quantity,
		ExpiryDate:   expiry,
		PurchaseDate: now,
		AddedDate:    now,
		Source:       source,
		Confidence:   draft.Confidence,
		StorageTips:  draft.StorageTips,
	}
}
