// internal/models/recipe.go
package models

// Recipe is a suggestion produced by the recipe gateway. Recipes are
// ephemeral: they are returned to the caller and never persisted.
// Ingredients names the inventory items the recipe draws on;
// MissingIngredients are pantry staples or things to buy and never
// participate in consumption matching.
type Recipe struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title" validate:"required"`
	Description        string   `json:"description"`
	Ingredients        []string `json:"ingredients"`
	MissingIngredients []string `json:"missingIngredients"`
	Instructions       []string `json:"instructions"`
	PrepTime           string   `json:"prepTime"`
	CookTime           string   `json:"cookTime"`
}
