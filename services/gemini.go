package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"athenaapi/models"

	"google.golang.org/genai"
)

func floatPointer(f float32) *float32 {
	return &f
}

func Int32Pointer(i int32) *int32 {
	return &i
}

// maxReadAttempts bounds retries for idempotent read calls (parsing,
// analysis, suggestions). Generation calls are never retried.
const maxReadAttempts = 3

// GeminiServiceProvider is the language/vision model surface the
// controllers depend on. Mocked in tests.
type GeminiServiceProvider interface {
	ParseFashionQuery(ctx context.Context, query string) models.Interpretation
	AnalyzeImageStyle(ctx context.Context, imageBytes []byte, mimeType string, additionalDescription string) models.Interpretation
	AnalyzeGarmentRegions(ctx context.Context, imageBytes []byte, mimeType string) ([]models.GarmentRegion, error)
	GenerateConceptImage(ctx context.Context, prompt string) ([]byte, error)
	RefineConceptImage(ctx context.Context, refinementPrompt string, currentImage []byte, mimeType string) ([]byte, error)
	GenerateStyleSuggestions(ctx context.Context, imageBytes []byte, mimeType string, description string, originalQuery string) ([]models.StyleSuggestion, error)
	GenerateLookImage(ctx context.Context, productImages [][]byte, prompt string) ([]byte, error)
}

// GoogleGeminiService talks to the Gemini API through a single client
// constructed at startup and injected here. Every call is bounded by
// Timeout.
type GoogleGeminiService struct {
	Client     *genai.Client
	Model      string
	ImageModel string
	Timeout    time.Duration
}

func NewGoogleGeminiService(client *genai.Client, model, imageModel string, timeout time.Duration) *GoogleGeminiService {
	return &GoogleGeminiService{
		Client:     client,
		Model:      model,
		ImageModel: imageModel,
		Timeout:    timeout,
	}
}

// ParseFashionQuery extracts structured attributes and a visual prompt
// from a natural language style query. It never fails: a model error or
// unparseable response degrades to an unfiltered interpretation that
// keeps the search flow alive.
func (gs *GoogleGeminiService) ParseFashionQuery(ctx context.Context, query string) models.Interpretation {
	parts := []*genai.Part{{Text: BuildParsePrompt(query)}}

	text, err := gs.generateTextWithRetry(ctx, gs.Model, parts)
	if err != nil {
		fmt.Println("Error parsing fashion query:", err)
		return models.FallbackInterpretation(query, "")
	}
	return models.ParseInterpretation(text, query, "")
}

// AnalyzeImageStyle runs the vision model over an uploaded reference
// image. Same fail-closed contract as ParseFashionQuery.
func (gs *GoogleGeminiService) AnalyzeImageStyle(ctx context.Context, imageBytes []byte, mimeType string, additionalDescription string) models.Interpretation {
	fallbackQuery := "Fashion style inspired by your uploaded image"
	if additionalDescription != "" {
		fallbackQuery = "Fashion style: " + additionalDescription
	}

	parts := []*genai.Part{
		{Text: BuildImageAnalysisPrompt(additionalDescription)},
		{InlineData: &genai.Blob{Data: imageBytes, MIMEType: mimeType}},
	}

	text, err := gs.generateTextWithRetry(ctx, gs.Model, parts)
	if err != nil {
		fmt.Println("Error analyzing image style:", err)
		return models.FallbackInterpretation(fallbackQuery, "")
	}
	interp := models.ParseInterpretation(text, fallbackQuery, "")
	if interp.StyleDescription == "" {
		interp.StyleDescription = fallbackQuery
	}
	return interp
}

// AnalyzeGarmentRegions detects the distinct garments in a concept
// image so product matching can fan out per category. An empty result
// means single-category matching should be used instead.
func (gs *GoogleGeminiService) AnalyzeGarmentRegions(ctx context.Context, imageBytes []byte, mimeType string) ([]models.GarmentRegion, error) {
	parts := []*genai.Part{
		{Text: BuildGarmentRegionsPrompt()},
		{InlineData: &genai.Blob{Data: imageBytes, MIMEType: mimeType}},
	}

	text, err := gs.generateTextWithRetry(ctx, gs.Model, parts)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Garments []models.GarmentRegion `json:"garments"`
	}
	if err := json.Unmarshal([]byte(models.StripMarkdownFences(text)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse garment regions: %v", err)
	}
	return parsed.Garments, nil
}

// GenerateConceptImage asks the image model for a catalog-style
// photograph of the described concept and returns the raw image bytes.
func (gs *GoogleGeminiService) GenerateConceptImage(ctx context.Context, prompt string) ([]byte, error) {
	parts := []*genai.Part{{Text: BuildConceptPrompt(prompt)}}
	return gs.generateImage(ctx, parts)
}

// RefineConceptImage edits the current concept image according to the
// refinement instruction. Without a current image it generates fresh.
func (gs *GoogleGeminiService) RefineConceptImage(ctx context.Context, refinementPrompt string, currentImage []byte, mimeType string) ([]byte, error) {
	parts := []*genai.Part{{Text: BuildRefinePrompt(refinementPrompt)}}
	if len(currentImage) > 0 {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{Data: currentImage, MIMEType: mimeType},
		})
	}
	return gs.generateImage(ctx, parts)
}

// GenerateStyleSuggestions analyzes the current concept image and
// proposes refinement chips. Callers substitute the fixed fallback list
// on error.
func (gs *GoogleGeminiService) GenerateStyleSuggestions(ctx context.Context, imageBytes []byte, mimeType string, description string, originalQuery string) ([]models.StyleSuggestion, error) {
	parts := []*genai.Part{
		{InlineData: &genai.Blob{Data: imageBytes, MIMEType: mimeType}},
		{Text: BuildSuggestionPrompt(description, originalQuery)},
	}

	text, err := gs.generateTextWithRetry(ctx, gs.Model, parts)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Suggestions []models.StyleSuggestion `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(models.StripMarkdownFences(text)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %v", err)
	}
	if len(parsed.Suggestions) == 0 {
		return nil, fmt.Errorf("model returned no suggestions")
	}
	if len(parsed.Suggestions) > 6 {
		parsed.Suggestions = parsed.Suggestions[:6]
	}
	return parsed.Suggestions, nil
}

// GenerateLookImage composes the selected product images into one
// styled outfit photograph. Product images go first, prompt last.
func (gs *GoogleGeminiService) GenerateLookImage(ctx context.Context, productImages [][]byte, prompt string) ([]byte, error) {
	var parts []*genai.Part
	for _, img := range productImages {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{Data: img, MIMEType: "image/png"},
		})
	}
	parts = append(parts, &genai.Part{Text: prompt})
	return gs.generateImage(ctx, parts)
}

func (gs *GoogleGeminiService) generateTextWithRetry(ctx context.Context, model string, parts []*genai.Part) (string, error) {
	ctx, cancel := boundedContext(ctx, gs.Timeout)
	defer cancel()

	var lastErr error
	for attempt := 1; attempt <= maxReadAttempts; attempt++ {
		result, err := gs.Client.Models.GenerateContent(ctx, model, []*genai.Content{{Parts: parts}}, &genai.GenerateContentConfig{
			CandidateCount:  1,
			MaxOutputTokens: 8192,
			Temperature:     floatPointer(0.2),
		})
		if err != nil {
			lastErr = err
			fmt.Printf("Error in GenerateContent, attempt %d: %v\n", attempt, err)
			continue
		}
		if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("content violation: %s", result.PromptFeedback.BlockReasonMessage)
		}
		text := strings.TrimSpace(result.Text())
		if text == "" {
			lastErr = fmt.Errorf("empty model response")
			continue
		}
		return text, nil
	}
	return "", fmt.Errorf("model call failed after %d attempts: %v", maxReadAttempts, lastErr)
}

func (gs *GoogleGeminiService) generateImage(ctx context.Context, parts []*genai.Part) ([]byte, error) {
	ctx, cancel := boundedContext(ctx, gs.Timeout)
	defer cancel()

	result, err := gs.Client.Models.GenerateContent(ctx, gs.ImageModel, []*genai.Content{{Parts: parts}}, &genai.GenerateContentConfig{
		CandidateCount:  1,
		MaxOutputTokens: 8192,
		Temperature:     floatPointer(0.6),
	})
	if err != nil {
		fmt.Println("Error in GenerateContent:", err)
		return nil, fmt.Errorf("%v", err)
	}

	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		fmt.Println(result.PromptFeedback.BlockReason)
		fmt.Println(result.PromptFeedback.BlockReasonMessage)
		return nil, fmt.Errorf("content violation: %s", result.PromptFeedback.BlockReasonMessage)
	}

	images, err := GetAllInlineImages(result)
	if err != nil {
		return nil, fmt.Errorf("error extracting generated image: %v", err)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no image found in model response")
	}
	return images[0], nil
}

// GetAllInlineImages collects every inline image part from a model
// response, in candidate order.
func GetAllInlineImages(result *genai.GenerateContentResponse) ([][]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("nil response")
	}

	var allImageData [][]byte

	for _, cand := range result.Candidates {
		for _, rating := range cand.SafetyRatings {
			if rating.Blocked {
				return nil, fmt.Errorf("content blocked by safety setting: %s", rating.Category)
			}
		}
		if cand.Content == nil || len(cand.Content.Parts) == 0 {
			continue
		}

		for _, part := range cand.Content.Parts {
			inlineData := part.InlineData
			if inlineData != nil && strings.HasPrefix(inlineData.MIMEType, "image/") && len(inlineData.Data) > 0 {
				allImageData = append(allImageData, inlineData.Data)
			}
		}
	}

	if len(allImageData) == 0 {
		return nil, nil
	}
	return allImageData, nil
}
