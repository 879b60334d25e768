// internal/api/router.go
package api

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/freshsense/freshsense/internal/config"
	"github.com/freshsense/freshsense/internal/di"
	"github.com/freshsense/freshsense/internal/services"
)

// SetupRouter wires the HTTP routes. Services must already be registered
// in the DI container.
func SetupRouter() (*gin.Engine, error) {
	cfg := config.GetCurrentConfig()
	container := di.GetContainer()

	inventoryService, ok := container.Get("inventory").(*services.InventoryService)
	if !ok {
		return nil, fmt.Errorf("inventory service not initialized")
	}

	extractionService, ok := container.Get("extraction").(*services.ExtractionService)
	if !ok {
		return nil, fmt.Errorf("extraction service not initialized")
	}

	recipeService, ok := container.Get("recipes").(*services.RecipeService)
	if !ok {
		return nil, fmt.Errorf("recipe service not initialized")
	}

	llmService, ok := container.Get("llm").(*services.LLMService)
	if !ok {
		return nil, fmt.Errorf("llm service not initialized")
	}

	wsHandler, ok := container.Get("websocket").(*WebSocketHandler)
	if !ok {
		return nil, fmt.Errorf("websocket handler not initialized")
	}

	handler := NewHandler(inventoryService, extractionService, recipeService, llmService, wsHandler)

	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(corsMiddleware())
	r.Use(requestIDMiddleware())

	r.GET("/healthz", handler.HealthCheck)
	r.GET("/ws/inventory", wsHandler.InventoryFeed)

	api := r.Group("/api")
	api.Use(DefaultRateLimit())
	{
		itemsGroup := api.Group("/items")
		{
			itemsGroup.GET("", handler.GetItems)
			itemsGroup.POST("", handler.AddItem)
			itemsGroup.POST("/commit", handler.CommitItems)
			itemsGroup.PUT("/:id", handler.UpdateItem)
			itemsGroup.DELETE("/:id", handler.DeleteItem)
		}

		aiGroup := api.Group("/ai")
		{
			aiGroup.POST("/analyze-image", ScanRateLimit(), handler.AnalyzeImage)
			aiGroup.POST("/recipes", RecipeRateLimit(), handler.GenerateRecipes)
		}

		api.POST("/recipes/cook", handler.CookRecipe)

		llmGroup := api.Group("/llm")
		{
			llmGroup.GET("/status", handler.GetLLMStatus)
			llmGroup.PUT("/config", handler.UpdateLLMConfig)
		}
	}

	return r, nil
}
