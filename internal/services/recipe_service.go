// internal/services/recipe_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apperrors "github.com/freshsense/freshsense/internal/errors"
	"github.com/freshsense/freshsense/internal/llm"
	"github.com/freshsense/freshsense/internal/models"
	"github.com/freshsense/freshsense/internal/utils"
)

const (
	recipeSystemPrompt = "You are a helpful chef. Generate 2-3 creative recipes using the provided " +
		"list of ingredients. Prioritize using items that are \"expiring\" or \"expired\" (if safe, " +
		"e.g. slightly old produce, otherwise warn). Assume the user has basic pantry staples " +
		"(oil, salt, pepper, spices)."

	recipeSchemaPrompt = "Respond with a JSON object of the form " +
		`{"recipes": [{"id": string, "title": string, "description": string, ` +
		`"ingredients": [string], "missingIngredients": [string], "instructions": [string], ` +
		`"prepTime": string, "cookTime": string}]}. ` +
		"The ingredients list names available items used by the recipe; missingIngredients are " +
		"pantry staples or things to buy."
)

// recipeResult is the declared recipe gateway response schema.
type recipeResult struct {
	Recipes []models.Recipe `json:"recipes" validate:"omitempty,dive"`
}

// RecipeService generates recipe suggestions from an inventory snapshot
// via the AI gateway.
type RecipeService struct {
	llm      *LLMService
	validate *validator.Validate
	logger   *utils.Logger

	inFlight atomic.Bool
}

// NewRecipeService creates the recipe gateway client.
func NewRecipeService(llmService *LLMService) *RecipeService {
	return &RecipeService{
		llm:      llmService,
		validate: validator.New(),
		logger:   utils.GetLogger(),
	}
}

// Suggest asks the model for recipes using the given items. Suggestions
// are ephemeral; nothing is persisted. An empty inventory is rejected
// before any model call.
func (s *RecipeService) Suggest(ctx context.Context, items []models.FridgeItem) ([]models.Recipe, error) {
	if len(items) == 0 {
		return nil, apperrors.NewValidationError("no items provided", nil)
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, apperrors.NewBusyError("a recipe generation is already in progress", nil)
	}
	defer s.inFlight.Store(false)

	descriptions := make([]string, 0, len(items))
	for _, item := range items {
		descriptions = append(descriptions, fmt.Sprintf("%s (%s, %s)", item.Name, item.Quantity, item.Status))
	}

	req := llm.CompletionRequest{
		Prompt:       "Available ingredients: " + strings.Join(descriptions, ", "),
		SystemPrompt: recipeSystemPrompt + "\n\n" + recipeSchemaPrompt,
		Temperature:  0.7,
	}

	var result recipeResult
	if err := s.llm.CreateStructuredCompletion(ctx, req, &result); err != nil {
		s.logger.Error("recipe generation failed", map[string]interface{}{
			"items": len(items),
			"error": err.Error(),
		})
		return nil, apperrors.NewProcessingError("failed to generate recipes", err)
	}

	if result.Recipes == nil {
		s.logger.Error("recipe response missing recipes field", nil)
		return nil, apperrors.NewProcessingError("failed to generate recipes", nil)
	}

	if err := s.validate.Struct(&result); err != nil {
		s.logger.Error("recipe response failed schema validation", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, apperrors.NewProcessingError("failed to generate recipes", err)
	}

	// The cook flow references recipes by id, so make sure each has one.
	for i := range result.Recipes {
		if result.Recipes[i].ID == "" {
			result.Recipes[i].ID = uuid.NewString()
		}
	}

	s.logger.Info("recipes generated", map[string]interface{}{
		"count": len(result.Recipes),
	})
	return result.Recipes, nil
}
