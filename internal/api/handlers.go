// internal/api/handlers.go
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/freshsense/freshsense/internal/config"
	"github.com/freshsense/freshsense/internal/llm"
	"github.com/freshsense/freshsense/internal/models"
	"github.com/freshsense/freshsense/internal/services"
	"github.com/freshsense/freshsense/internal/utils"
)

// Handler wires the HTTP surface to the services.
type Handler struct {
	Inventory  *services.InventoryService
	Extraction *services.ExtractionService
	Recipes    *services.RecipeService
	LLM        *services.LLMService
	WebSocket  *WebSocketHandler
	Response   *ResponseHelper
}

// NewHandler creates the API handler.
func NewHandler(
	inventoryService *services.InventoryService,
	extractionService *services.ExtractionService,
	recipeService *services.RecipeService,
	llmService *services.LLMService,
	wsHandler *WebSocketHandler,
) *Handler {
	return &Handler{
		Inventory:  inventoryService,
		Extraction: extractionService,
		Recipes:    recipeService,
		LLM:        llmService,
		WebSocket:  wsHandler,
		Response:   NewResponseHelper(),
	}
}

// AddItemRequest is a manual entry submission.
type AddItemRequest struct {
	Name         string              `json:"name"`
	Category     models.ItemCategory `json:"category"`
	Quantity     string              `json:"quantity"`
	DaysToExpire int                 `json:"daysToExpire"`
	StorageTips  string              `json:"storageTips"`
	Notes        string              `json:"notes"`
}

// CommitItemsRequest confirms reviewed scan drafts into the inventory.
type CommitItemsRequest struct {
	Items  []models.ItemDraft `json:"items"`
	Source models.ItemSource  `json:"source"`
}

// AnalyzeImageRequest carries a data-URI encoded photo and its context.
type AnalyzeImageRequest struct {
	Image string `json:"image"`
	Type  string `json:"type"`
}

// CookRecipeRequest names the chosen recipe to cook.
type CookRecipeRequest struct {
	Recipe models.Recipe `json:"recipe"`
}

// UpdateLLMConfigRequest switches the AI provider settings.
type UpdateLLMConfigRequest struct {
	Provider string            `json:"provider"`
	Config   map[string]string `json:"config"`
}

// GetItems returns the full ordered inventory.
func (h *Handler) GetItems(c *gin.Context) {
	h.Response.Success(c, gin.H{"items": h.Inventory.Items()})
}

// AddItem commits one manually entered item.
func (h *Handler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "invalid request body")
		return
	}

	item, err := h.Inventory.AddManual(models.ItemDraft{
		Name:         req.Name,
		Category:     req.Category,
		Quantity:     req.Quantity,
		DaysToExpire: req.DaysToExpire,
		StorageTips:  req.StorageTips,
	}, req.Notes)
	if err != nil {
		h.Response.FromAppError(c, err)
		return
	}

	h.Response.Created(c, item)
}

// CommitItems writes reviewed scan drafts into the inventory. This is the
// only path that commits scanned items; the analyze endpoint itself never
// mutates state.
func (h *Handler) CommitItems(c *gin.Context) {
	var req CommitItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "invalid request body")
		return
	}

	switch req.Source {
	case models.SourceFridgeScan, models.SourceReceiptScan, models.SourceManual:
	default:
		h.Response.BadRequest(c, "unknown item source")
		return
	}

	added, err := h.Inventory.CommitDrafts(req.Items, req.Source)
	if err != nil {
		h.Response.FromAppError(c, err)
		return
	}

	h.Response.Created(c, gin.H{"items": added})
}

// UpdateItem applies a partial update. An unknown id is a silent no-op,
// matching the store's idempotent semantics.
func (h *Handler) UpdateItem(c *gin.Context) {
	var patch models.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.Response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.Inventory.Update(c.Param("id"), patch); err != nil {
		h.Response.FromAppError(c, err)
		return
	}

	h.Response.Success(c, gin.H{"items": h.Inventory.Items()})
}

// DeleteItem removes an item; deleting an unknown id succeeds.
func (h *Handler) DeleteItem(c *gin.Context) {
	if err := h.Inventory.Remove(c.Param("id")); err != nil {
		h.Response.FromAppError(c, err)
		return
	}

	h.Response.Success(c, nil, "item removed")
}

// AnalyzeImage runs the extraction gateway on an uploaded photo and
// returns candidate drafts for review.
func (h *Handler) AnalyzeImage(c *gin.Context) {
	var req AnalyzeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "invalid request body")
		return
	}

	drafts, err := h.Extraction.AnalyzeImage(c.Request.Context(), req.Image, services.ScanType(req.Type))
	if err != nil {
		h.Response.FromAppError(c, err)
		return
	}

	h.Response.Success(c, gin.H{"items": drafts})
}

// GenerateRecipes asks the recipe gateway for suggestions from the
// current inventory snapshot.
func (h *Handler) GenerateRecipes(c *gin.Context) {
	recipes, err := h.Recipes.Suggest(c.Request.Context(), h.Inventory.Items())
	if err != nil {
		h.Response.FromAppError(c, err)
		return
	}

	h.Response.Success(c, gin.H{"recipes": recipes})
}

// CookRecipe consumes the inventory records matched by the chosen
// recipe's ingredients and returns what was removed.
func (h *Handler) CookRecipe(c *gin.Context) {
	var req CookRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "invalid request body")
		return
	}

	removed, err := h.Inventory.Cook(req.Recipe)
	if err != nil {
		h.Response.FromAppError(c, err)
		return
	}
	if removed == nil {
		removed = []models.FridgeItem{}
	}

	h.Response.Success(c, gin.H{"removed": removed})
}

// GetLLMStatus reports provider readiness for the settings page.
func (h *Handler) GetLLMStatus(c *gin.Context) {
	cfg := config.GetCurrentConfig()
	h.Response.Success(c, gin.H{
		"ready":     h.LLM.IsReady(),
		"state":     h.LLM.ReadyState(),
		"provider":  cfg.LLMProvider,
		"providers": llm.ListProviders(),
	})
}

// UpdateLLMConfig switches the AI provider and persists the settings.
func (h *Handler) UpdateLLMConfig(c *gin.Context) {
	var req UpdateLLMConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "invalid request body")
		return
	}
	if req.Provider == "" || req.Config["api_key"] == "" {
		h.Response.BadRequest(c, "provider and api_key are required")
		return
	}

	if err := h.LLM.UpdateProvider(req.Provider, req.Config); err != nil {
		utils.GetLogger().Errorf("provider update failed: %v", err)
		h.Response.BadRequest(c, "failed to initialize provider")
		return
	}

	if err := config.UpdateLLMConfig(req.Provider, req.Config); err != nil {
		h.Response.InternalError(c, "failed to save settings")
		return
	}

	h.Response.Success(c, nil, "settings saved")
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(c *gin.Context) {
	h.Response.Success(c, gin.H{
		"status":     "ok",
		"items":      len(h.Inventory.Items()),
		"llm_ready":  h.LLM.IsReady(),
		"ws_clients": h.WebSocket.ClientCount(),
	})
}
