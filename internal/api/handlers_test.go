// internal/api/handlers_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshsense/freshsense/internal/inventory"
	"github.com/freshsense/freshsense/internal/llm"
	"github.com/freshsense/freshsense/internal/models"
	"github.com/freshsense/freshsense/internal/services"
)

// scriptedProvider returns a canned gateway response.
type scriptedProvider struct {
	response string
	err      error
	calls    int
}

func (p *scriptedProvider) Initialize(config map[string]string) error { return nil }
func (p *scriptedProvider) GetName() string                           { return "scripted" }
func (p *scriptedProvider) GetSupportedModels() []string              { return []string{"scripted-1"} }

func (p *scriptedProvider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{Text: p.response}, nil
}

type testEnv struct {
	router  *gin.Engine
	handler *Handler
	store   *inventory.Store
}

func newTestEnv(provider llm.Provider) *testEnv {
	gin.SetMode(gin.TestMode)

	store := inventory.NewStore(nil)
	llmSvc := services.NewLLMServiceWithProvider(provider)
	handler := NewHandler(
		services.NewInventoryService(store),
		services.NewExtractionService(llmSvc),
		services.NewRecipeService(llmSvc),
		llmSvc,
		NewWebSocketHandler(),
	)

	r := gin.New()
	r.GET("/healthz", handler.HealthCheck)
	api := r.Group("/api")
	{
		api.GET("/items", handler.GetItems)
		api.POST("/items", handler.AddItem)
		api.POST("/items/commit", handler.CommitItems)
		api.PUT("/items/:id", handler.UpdateItem)
		api.DELETE("/items/:id", handler.DeleteItem)
		api.POST("/ai/analyze-image", handler.AnalyzeImage)
		api.POST("/ai/recipes", handler.GenerateRecipes)
		api.POST("/recipes/cook", handler.CookRecipe)
		api.GET("/llm/status", handler.GetLLMStatus)
	}

	return &testEnv{router: r, handler: handler, store: store}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var reader *bytes.Reader
	if raw, ok := body.([]byte); ok {
		reader = bytes.NewReader(raw)
	} else if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func itemsFromData(t *testing.T, data interface{}) []models.FridgeItem {
	t.Helper()

	raw, err := json.Marshal(data)
	require.NoError(t, err)

	var payload struct {
		Items []models.FridgeItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	return payload.Items
}

func TestAddItemEndpoint(t *testing.T) {
	env := newTestEnv(&scriptedProvider{})

	w, resp := env.do(t, http.MethodPost, "/api/items", AddItemRequest{
		Name:         "Milk",
		Category:     models.CategoryDairy,
		Quantity:     "1L",
		DaysToExpire: 7,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.Success)

	var item models.FridgeItem
	raw, _ := json.Marshal(resp.Data)
	require.NoError(t, json.Unmarshal(raw, &item))
	assert.Equal(t, "Milk", item.Name)
	assert.Equal(t, models.StatusFresh, item.Status)
	assert.Equal(t, models.SourceManual, item.Source)

	assert.Equal(t, 1, env.store.Len())
}

func TestAddItemEmptyNameRejected(t *testing.T) {
	env := newTestEnv(&scriptedProvider{})

	w, resp := env.do(t, http.MethodPost, "/api/items", AddItemRequest{Name: "  "})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, 0, env.store.Len())
}

func TestAddItemMalformedBody(t *testing.T) {
	env := newTestEnv(&scriptedProvider{})

	w, _ := env.do(t, http.MethodPost, "/api/items", []byte("{not json"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetItemsEndpoint(t *testing.T) {
	env := newTestEnv(&scriptedProvider{})
	env.do(t, http.MethodPost, "/api/items", AddItemRequest{Name: "Eggs"})

	w, resp := env.do(t, http.MethodGet, "/api/items", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	items := itemsFromData(t, resp.Data)
	require.Len(t, items, 1)
	assert.Equal(t, "Eggs", items[0].Name)
}

func TestCommitItemsEndpoint(t *testing.T) {
	env := newTestEnv(&scriptedProvider{})

	w, resp := env.do(t, http.MethodPost, "/api/items/commit", CommitItemsRequest{
		Items: []models.ItemDraft{
			{Name: "Milk", Category: models.CategoryDairy, Confidence: 0.9},
			{Name: "", Category: models.CategoryOther},
		},
		Source: models.SourceFridgeScan,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	items := itemsFromData(t, resp.Data)
	require.Len(t, items, 1)
	assert.Equal(t, models.SourceFridgeScan, items[0].Source)
}

func TestCommitItemsUnknownSource(t *testing.T) {
	env := newTestEnv(&scriptedProvider{})

	w, _ := env.do(t, http.MethodPost, "/api/items/commit", CommitItemsRequest{
		Items:  []models.ItemDraft{{Name: "Milk", Category: models.CategoryDairy}},
		Source: models.ItemSource("telepathy"),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, env.store.Len())
}

func TestUpdateItemUnknownIDIsNoOp(t *testing.T) {
	env := newTestEnv(&scriptedProvider{})
	env.do(t, http.MethodPost, "/api/items", AddItemRequest{Name: "Milk"})

	name := "Cream"
	w, resp := env.do(t, http.MethodPut, "/api/items/nope", models.ItemPatch{Name: &name})

	assert.Equal(t, http.StatusOK, w.Code)
	items := itemsFromData(t, resp.Data)
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Name)
}

func TestDeleteItemIsIdempotent(t *testing.T) {
	env := newTestEnv(&scriptedProvider{})

	w, resp := env.do(t, http.MethodDelete, "/api/items/nope", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}

func TestAnalyzeImageEndpoint(t *testing.T) {
	provider := &scriptedProvider{response: `{"items": [
		{"name": "Milk", "quantity": "1L", "category": "Dairy", "confidence": 0.9, "daysToExpire": 7}
	]}`}
	env := newTestEnv(provider)

	w, resp := env.do(t, http.MethodPost, "/api/ai/analyze-image", AnalyzeImageRequest{
		Image: "data:image/jpeg;base64,dGVzdA==",
		Type:  "fridge",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	// Analysis only proposes drafts; nothing is committed.
	assert.Equal(t, 0, env.store.Len())
}

func TestAnalyzeImageMissingImage(t *testing.T) {
	provider := &scriptedProvider{}
	env := newTestEnv(provider)

	w, _ := env.do(t, http.MethodPost, "/api/ai/analyze-image", AnalyzeImageRequest{Type: "fridge"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, provider.calls)
}

func TestAnalyzeImageGatewayFailureLeavesStateUntouched(t *testing.T) {
	provider := &scriptedProvider{response: "not json at all"}
	env := newTestEnv(provider)

	w, resp := env.do(t, http.MethodPost, "/api/ai/analyze-image", AnalyzeImageRequest{
		Image: "data:image/jpeg;base64,dGVzdA==",
		Type:  "fridge",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, 0, env.store.Len())
}

func TestGenerateRecipesEmptyInventory(t *testing.T) {
	provider := &scriptedProvider{}
	env := newTestEnv(provider)

	w, _ := env.do(t, http.MethodPost, "/api/ai/recipes", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, provider.calls)
}

func TestGenerateRecipesUsesServerSnapshot(t *testing.T) {
	provider := &scriptedProvider{response: `{"recipes": [
		{"id": "r1", "title": "Scramble", "ingredients": ["eggs"]}
	]}`}
	env := newTestEnv(provider)
	env.do(t, http.MethodPost, "/api/items", AddItemRequest{Name: "Eggs"})

	w, resp := env.do(t, http.MethodPost, "/api/ai/recipes", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, 1, provider.calls)
}

func TestCookRecipeEndpoint(t *testing.T) {
	env := newTestEnv(&scriptedProvider{})
	env.do(t, http.MethodPost, "/api/items", AddItemRequest{Name: "Apple"})
	env.do(t, http.MethodPost, "/api/items", AddItemRequest{Name: "Butter"})

	w, resp := env.do(t, http.MethodPost, "/api/recipes/cook", CookRecipeRequest{
		Recipe: models.Recipe{ID: "r1", Title: "Apple Pie", Ingredients: []string{"apples"}},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	raw, _ := json.Marshal(resp.Data)
	var payload struct {
		Removed []models.FridgeItem `json:"removed"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	require.Len(t, payload.Removed, 1)
	assert.Equal(t, "Apple", payload.Removed[0].Name)

	assert.Equal(t, 1, env.store.Len())
}

func TestCookRecipeNoMatches(t *testing.T) {
	env := newTestEnv(&scriptedProvider{})

	w, resp := env.do(t, http.MethodPost, "/api/recipes/cook", CookRecipeRequest{
		Recipe: models.Recipe{ID: "r1", Title: "Rice Bowl", Ingredients: []string{"rice"}},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	raw, _ := json.Marshal(resp.Data)
	var payload struct {
		Removed []models.FridgeItem `json:"removed"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.NotNil(t, payload.Removed)
	assert.Empty(t, payload.Removed)
}

func TestHealthCheckEndpoint(t *testing.T) {
	env := newTestEnv(&scriptedProvider{})

	w, resp := env.do(t, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}

func TestLLMStatusEndpoint(t *testing.T) {
	env := newTestEnv(&scriptedProvider{})

	w, resp := env.do(t, http.MethodGet, "/api/llm/status", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	raw, _ := json.Marshal(resp.Data)
	var payload struct {
		Ready bool `json:"ready"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.True(t, payload.Ready)
}
