// internal/models/item.go
package models

import "time"

// ItemCategory classifies a tracked food item.
type ItemCategory string

const (
	CategoryDairy    ItemCategory = "Dairy"
	CategoryProduce  ItemCategory = "Produce"
	CategoryMeat     ItemCategory = "Meat"
	CategoryPantry   ItemCategory = "Pantry"
	CategoryFrozen   ItemCategory = "Frozen"
	CategoryBeverage ItemCategory = "Beverage"
	CategoryOther    ItemCategory = "Other"
)

// Categories lists every valid item category.
var Categories = []ItemCategory{
	CategoryDairy,
	CategoryProduce,
	CategoryMeat,
	CategoryPantry,
	CategoryFrozen,
	CategoryBeverage,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c ItemCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ItemStatus is the derived freshness state of an item. It is always
// computed from the expiry date, never set by a caller.
type ItemStatus string

const (
	StatusFresh    ItemStatus = "fresh"
	StatusExpiring ItemStatus = "expiring"
	StatusExpired  ItemStatus = "expired"
)

// ItemSource records how an item entered the inventory.
type ItemSource string

const (
	SourceManual      ItemSource = "manual"
	SourceFridgeScan  ItemSource = "fridge_scan"
	SourceReceiptScan ItemSource = "receipt_scan"
)

// FridgeItem is a single tracked food entry. JSON field names mirror the
// persisted snapshot layout, so older snapshots remain readable.
type FridgeItem struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Category     ItemCategory `json:"category"`
	Quantity     string       `json:"quantity"`
	ExpiryDate   *time.Time   `json:"expiryDate,omitempty"`
	PurchaseDate time.Time    `json:"purchaseDate"`
	AddedDate    time.Time    `json:"addedDate"`
	Status       ItemStatus   `json:"status"`
	Source       ItemSource   `json:"source"`
	Confidence   float64      `json:"confidence"`
	StorageTips  string       `json:"storageTips,omitempty"`
	Notes        string       `json:"notes,omitempty"`
}

// ItemPatch is a partial update for a FridgeItem. Nil fields keep the
// existing value. Status is accepted for wire compatibility but always
// ignored: the store recomputes it from the resulting expiry date.
type ItemPatch struct {
	Name        *string       `json:"name,omitempty"`
	Category    *ItemCategory `json:"category,omitempty"`
	Quantity    *string       `json:"quantity,omitempty"`
	ExpiryDate  *time.Time    `json:"expiryDate,omitempty"`
	Status      *ItemStatus   `json:"status,omitempty"`
	StorageTips *string       `json:"storageTips,omitempty"`
	Notes       *string       `json:"notes,omitempty"`
}

// ItemDraft is one candidate item produced by the extraction gateway or a
// manual entry form, before it is confirmed into the inventory. The validate
// tags encode the gateway response schema.
type ItemDraft struct {
	Name         string       `json:"name"`
	Quantity     string       `json:"quantity"`
	Category     ItemCategory `json:"category" validate:"oneof=Dairy Produce Meat Pantry Frozen Beverage Other"`
	Confidence   float64      `json:"confidence" validate:"gte=0,lte=1"`
	DaysToExpire int          `json:"daysToExpire"`
	StorageTips  string       `json:"storageTips,omitempty"`
}
