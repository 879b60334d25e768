// internal/services/extraction_service.go
package services

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/freshsense/freshsense/internal/errors"
	"github.com/freshsense/freshsense/internal/llm"
	"github.com/freshsense/freshsense/internal/models"
	"github.com/freshsense/freshsense/internal/utils"
)

// ScanType declares what kind of photo is being analyzed.
type ScanType string

const (
	ScanFridge  ScanType = "fridge"
	ScanReceipt ScanType = "receipt"
)

const (
	fridgePrompt = "Analyze this image of a fridge interior. Identify all visible food items. " +
		"Estimate quantities and categorize them. Also provide storage tips and estimated " +
		"shelf life in days (daysToExpire) assuming the items were bought today."

	receiptPrompt = "Analyze this grocery receipt. Extract all food items purchased. " +
		"Estimate quantities and categorize them. Also provide storage tips and estimated " +
		"shelf life in days (daysToExpire) assuming the items were bought today."

	extractionSchemaPrompt = "Respond with a JSON object of the form " +
		`{"items": [{"name": string, "quantity": string, ` +
		`"category": "Dairy"|"Produce"|"Meat"|"Pantry"|"Frozen"|"Beverage"|"Other", ` +
		`"confidence": number between 0 and 1, "daysToExpire": integer, "storageTips": optional string}]}.`
)

// extractionResult is the declared extraction gateway response schema.
type extractionResult struct {
	Items []models.ItemDraft `json:"items" validate:"omitempty,dive"`
}

// ExtractionService turns a photographed fridge interior or grocery
// receipt into candidate item drafts via the AI gateway.
type ExtractionService struct {
	llm      *LLMService
	validate *validator.Validate
	logger   *utils.Logger

	// Single-slot guard: a second analyze call while one is in flight is
	// rejected instead of firing a concurrent model request.
	inFlight atomic.Bool
}

// NewExtractionService creates the extraction gateway client.
func NewExtractionService(llmService *LLMService) *ExtractionService {
	return &ExtractionService{
		llm:      llmService,
		validate: validator.New(),
		logger:   utils.GetLogger(),
	}
}

// AnalyzeImage sends the data-URI encoded image to the model and returns
// the extracted drafts. Drafts with an empty name are filtered out before
// they reach review. A response that fails schema validation is a failed
// call: no state is touched and the caller gets a generic error.
func (s *ExtractionService) AnalyzeImage(ctx context.Context, image string, scanType ScanType) ([]models.ItemDraft, error) {
	if strings.TrimSpace(image) == "" {
		return nil, apperrors.NewValidationError("no image provided", nil)
	}

	var prompt string
	switch scanType {
	case ScanFridge:
		prompt = fridgePrompt
	case ScanReceipt:
		prompt = receiptPrompt
	default:
		return nil, apperrors.NewValidationError("scan type must be \"fridge\" or \"receipt\"", nil)
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, apperrors.NewBusyError("an image analysis is already in progress", nil)
	}
	defer s.inFlight.Store(false)

	req := llm.CompletionRequest{
		Prompt:       prompt,
		SystemPrompt: extractionSchemaPrompt,
		Image:        image,
		Temperature:  0.3,
	}

	var result extractionResult
	if err := s.llm.CreateStructuredCompletion(ctx, req, &result); err != nil {
		s.logger.Error("image analysis failed", map[string]interface{}{
			"scan_type": string(scanType),
			"error":     err.Error(),
		})
		return nil, apperrors.NewProcessingError("failed to analyze image", err)
	}

	if result.Items == nil {
		s.logger.Error("extraction response missing items field", map[string]interface{}{
			"scan_type": string(scanType),
		})
		return nil, apperrors.NewProcessingError("failed to analyze image", nil)
	}

	if err := s.validate.Struct(&result); err != nil {
		s.logger.Error("extraction response failed schema validation", map[string]interface{}{
			"scan_type": string(scanType),
			"error":     err.Error(),
		})
		return nil, apperrors.NewProcessingError("failed to analyze image", err)
	}

	drafts := make([]models.ItemDraft, 0, len(result.Items))
	for _, draft := range result.Items {
		if strings.TrimSpace(draft.Name) == "" {
			continue
		}
		drafts = append(drafts, draft)
	}

	s.logger.Info("image analyzed", map[string]interface{}{
		"scan_type": string(scanType),
		"items":     len(drafts),
	})
	return drafts, nil
}
