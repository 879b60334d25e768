// internal/services/llm_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/freshsense/freshsense/internal/config"
	"github.com/freshsense/freshsense/internal/llm"
)

// LLMService wraps the configured provider and turns completions into
// structured data. The provider can be swapped at runtime from the
// settings endpoint.
type LLMService struct {
	provider      llm.Provider
	providerMutex sync.RWMutex
	readyState    string
}

// NewLLMService builds the service from the current configuration. A
// missing API key leaves the service in a not-ready state instead of
// failing startup.
func NewLLMService() *LLMService {
	s := &LLMService{readyState: "not configured"}

	cfg := config.GetCurrentConfig()
	if cfg.LLMConfig["api_key"] == "" {
		return s
	}

	if err := s.UpdateProvider(cfg.LLMProvider, cfg.LLMConfig); err != nil {
		s.readyState = err.Error()
	}
	return s
}

// NewLLMServiceWithProvider builds a ready service around an already
// initialized provider.
func NewLLMServiceWithProvider(provider llm.Provider) *LLMService {
	return &LLMService{provider: provider, readyState: "ready"}
}

// UpdateProvider re-initializes the backing provider.
func (s *LLMService) UpdateProvider(name string, providerConfig map[string]string) error {
	provider, err := llm.GetProvider(name, providerConfig)
	if err != nil {
		return err
	}

	s.providerMutex.Lock()
	s.provider = provider
	s.readyState = "ready"
	s.providerMutex.Unlock()
	return nil
}

// IsReady reports whether a provider is configured.
func (s *LLMService) IsReady() bool {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()
	return s.provider != nil
}

// ReadyState describes why the service is not ready.
func (s *LLMService) ReadyState() string {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()
	return s.readyState
}

// ProviderName returns the active provider's name, or "".
func (s *LLMService) ProviderName() string {
	s.providerMutex.RLock()
	defer s.providerMutex.RUnlock()
	if s.provider == nil {
		return ""
	}
	return s.provider.GetName()
}

// CreateStructuredCompletion runs req with the provider's JSON response
// mode and unmarshals the cleaned output into out.
func (s *LLMService) CreateStructuredCompletion(ctx context.Context, req llm.CompletionRequest, out interface{}) error {
	s.providerMutex.RLock()
	provider := s.provider
	readyState := s.readyState
	s.providerMutex.RUnlock()

	if provider == nil {
		return fmt.Errorf("LLM service not ready: %s", readyState)
	}

	req.JSONResponse = true
	if req.SystemPrompt != "" {
		req.SystemPrompt += "\n\n"
	}
	req.SystemPrompt += "Return your response as valid JSON matching the requested schema, without explanations or preambles."

	resp, err := provider.CompleteText(ctx, req)
	if err != nil {
		return err
	}

	text := cleanJSONString(resp.Text)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("failed to parse AI response into structured data: %w", err)
	}
	return nil
}

var jsonNoiseReplacer = strings.NewReplacer(
	"```json", "",
	"```", "",
	"\ufeff", "",
	"\u00a0", " ",
)

// cleanJSONString strips markdown fences and any prose around the first
// JSON object or array in s. Models occasionally wrap structured output
// even in JSON response mode.
func cleanJSONString(s string) string {
	if s == "" {
		return s
	}

	s = jsonNoiseReplacer.Replace(s)
	s = strings.TrimSpace(s)

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s
	}

	var end int
	if s[start] == '{' {
		end = strings.LastIndex(s, "}")
	} else {
		end = strings.LastIndex(s, "]")
	}
	if end <= start {
		return s
	}

	return s[start : end+1]
}
