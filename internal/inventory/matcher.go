// internal/inventory/matcher.go
package inventory

import (
	"strings"

	"github.com/freshsense/freshsense/internal/models"
)

// MatchConsumed selects the inventory records used up by cooking a recipe
// with the given ingredient names. A record matches when its name and an
// ingredient contain each other as a case-insensitive substring in either
// direction, so "Apple" matches "apples" and also "pineapple". Each
// record is selected at most once and input order is preserved.
func MatchConsumed(items []models.FridgeItem, ingredients []string) []models.FridgeItem {
	lowered := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		ing = strings.ToLower(strings.TrimSpace(ing))
		if ing == "" {
			continue
		}
		lowered = append(lowered, ing)
	}

	var matched []models.FridgeItem
	for _, item := range items {
		name := strings.ToLower(item.Name)
		for _, ing := range lowered {
			if strings.Contains(name, ing) || strings.Contains(ing, name) {
				matched = append(matched, item)
				break
			}
		}
	}
	return matched
}
