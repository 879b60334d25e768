// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/freshsense/freshsense/internal/api"
	"github.com/freshsense/freshsense/internal/config"
	"github.com/freshsense/freshsense/internal/di"
	"github.com/freshsense/freshsense/internal/inventory"
	"github.com/freshsense/freshsense/internal/models"
	"github.com/freshsense/freshsense/internal/services"
	"github.com/freshsense/freshsense/internal/storage"
	"github.com/freshsense/freshsense/internal/utils"

	// Registered AI providers.
	_ "github.com/freshsense/freshsense/internal/llm/providers/google"
	_ "github.com/freshsense/freshsense/internal/llm/providers/openai"
)

func main() {
	log.Println("starting freshsense server...")

	baseConfig, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	createDirectories(baseConfig)

	if err := config.InitConfig(baseConfig.DataDir); err != nil {
		log.Fatalf("failed to initialize config system: %v", err)
	}

	if err := utils.InitLogger(filepath.Join(baseConfig.LogDir, "server.log")); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	logger := utils.GetLogger()
	if baseConfig.DebugMode {
		logger.SetLogLevel(utils.DEBUG)
	}

	if err := initServices(baseConfig); err != nil {
		log.Fatalf("failed to initialize services: %v", err)
	}
	logger.Infof("services initialized: %v", di.GetContainer().GetNames())

	router, err := api.SetupRouter()
	if err != nil {
		log.Fatalf("failed to set up routes: %v", err)
	}

	logger.Infof("listening on http://localhost:%s", baseConfig.Port)
	runWithGracefulShutdown(router, baseConfig.Port)
}

// initServices builds the service graph in dependency order and registers
// everything in the container.
func initServices(cfg *config.Config) error {
	container := di.GetContainer()

	fileStorage, err := storage.NewFileStorage(cfg.DataDir)
	if err != nil {
		return err
	}
	container.Register("storage", fileStorage)

	store := inventory.NewStore(inventory.NewFilePersister(fileStorage))
	if err := store.Load(); err != nil {
		return err
	}
	container.Register("store", store)

	wsHandler := api.NewWebSocketHandler()
	container.Register("websocket", wsHandler)

	// Every successful mutation pushes a fresh snapshot to connected
	// dashboards.
	store.OnChange(func(items []models.FridgeItem) {
		wsHandler.Broadcast("inventory_updated", items)
	})

	llmService := services.NewLLMService()
	container.Register("llm", llmService)
	if !llmService.IsReady() {
		utils.GetLogger().Warnf("AI provider not ready: %s", llmService.ReadyState())
	}

	container.Register("inventory", services.NewInventoryService(store))
	container.Register("extraction", services.NewExtractionService(llmService))
	container.Register("recipes", services.NewRecipeService(llmService))

	return nil
}

func runWithGracefulShutdown(router *gin.Engine, port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	if ws, ok := di.GetContainer().Get("websocket").(*api.WebSocketHandler); ok {
		ws.CloseAll()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced server shutdown: %v", err)
	}

	log.Println("server stopped")
}

func createDirectories(cfg *config.Config) {
	dirs := []string{
		cfg.DataDir,
		cfg.LogDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}
}
