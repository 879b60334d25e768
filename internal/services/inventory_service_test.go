// internal/services/inventory_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/freshsense/freshsense/internal/errors"
	"github.com/freshsense/freshsense/internal/inventory"
	"github.com/freshsense/freshsense/internal/models"
)

// The store derives status with its own clock, so the fixture time has to
// track the wall clock rather than a fixed date.
var serviceNow = time.Now().UTC().Truncate(time.Second)

func newTestInventoryService() *InventoryService {
	svc := NewInventoryService(inventory.NewStore(nil))
	svc.nowFn = func() time.Time { return serviceNow }
	return svc
}

func TestAddManualStampsDraft(t *testing.T) {
	svc := newTestInventoryService()

	item, err := svc.AddManual(models.ItemDraft{
		Name:         "Yogurt",
		Category:     models.CategoryDairy,
		Quantity:     "2 cups",
		DaysToExpire: 5,
	}, "opened yesterday")
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Yogurt", item.Name)
	assert.Equal(t, models.SourceManual, item.Source)
	assert.Equal(t, float64(1), item.Confidence, "manual entries always carry full confidence")
	assert.Equal(t, serviceNow, item.PurchaseDate)
	assert.Equal(t, serviceNow, item.AddedDate)
	assert.Equal(t, "opened yesterday", item.Notes)

	require.NotNil(t, item.ExpiryDate)
	assert.Equal(t, serviceNow.Add(5*24*time.Hour), *item.ExpiryDate)
	assert.Equal(t, models.StatusFresh, item.Status)

	require.Len(t, svc.Items(), 1)
}

func TestAddManualDefaultsCategory(t *testing.T) {
	svc := newTestInventoryService()

	item, err := svc.AddManual(models.ItemDraft{Name: "Mystery Jar"}, "")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryOther, item.Category)
	assert.Nil(t, item.ExpiryDate, "no daysToExpire means no expiry")
	assert.Equal(t, models.StatusFresh, item.Status)
}

func TestAddManualRejectsEmptyName(t *testing.T) {
	svc := newTestInventoryService()

	_, err := svc.AddManual(models.ItemDraft{Name: "   "}, "")
	assert.True(t, apperrors.IsValidationError(err))
	assert.Empty(t, svc.Items())
}

func TestAddManualRejectsUnknownCategory(t *testing.T) {
	svc := newTestInventoryService()

	_, err := svc.AddManual(models.ItemDraft{Name: "Milk", Category: "Spices"}, "")
	assert.True(t, apperrors.IsValidationError(err))
}

func TestCommitDraftsSkipsEmptyNames(t *testing.T) {
	svc := newTestInventoryService()

	added, err := svc.CommitDrafts([]models.ItemDraft{
		{Name: "Milk", Category: models.CategoryDairy, Confidence: 0.9, DaysToExpire: 7},
		{Name: "", Category: models.CategoryOther},
		{Name: "Apples", Category: models.CategoryProduce, Confidence: 0.8, DaysToExpire: 14},
	}, models.SourceFridgeScan)
	require.NoError(t, err)

	require.Len(t, added, 2)
	assert.Equal(t, "Milk", added[0].Name)
	assert.Equal(t, models.SourceFridgeScan, added[0].Source)
	assert.Equal(t, 0.9, added[0].Confidence)
	assert.Equal(t, "Apples", added[1].Name)

	assert.Len(t, svc.Items(), 2)
}

func TestCookConsumesMatchingItems(t *testing.T) {
	svc := newTestInventoryService()
	_, err := svc.CommitDrafts([]models.ItemDraft{
		{Name: "Apple", Category: models.CategoryProduce},
		{Name: "Whole Milk", Category: models.CategoryDairy},
		{Name: "Butter", Category: models.CategoryDairy},
	}, models.SourceManual)
	require.NoError(t, err)

	consumed, err := svc.Cook(models.Recipe{
		ID:                 "r1",
		Title:              "Apple Smoothie",
		Ingredients:        []string{"apples", "milk"},
		MissingIngredients: []string{"butter"},
	})
	require.NoError(t, err)

	require.Len(t, consumed, 2)
	assert.Equal(t, "Apple", consumed[0].Name)
	assert.Equal(t, "Whole Milk", consumed[1].Name)

	// missingIngredients never consume anything, so Butter survives.
	remaining := svc.Items()
	require.Len(t, remaining, 1)
	assert.Equal(t, "Butter", remaining[0].Name)
}

func TestCookWithNoMatchesLeavesInventoryAlone(t *testing.T) {
	svc := newTestInventoryService()
	_, err := svc.AddManual(models.ItemDraft{Name: "Butter", Category: models.CategoryDairy}, "")
	require.NoError(t, err)

	consumed, err := svc.Cook(models.Recipe{ID: "r1", Title: "Rice Bowl", Ingredients: []string{"rice"}})
	require.NoError(t, err)
	assert.Empty(t, consumed)
	assert.Len(t, svc.Items(), 1)
}
