package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"athenaapi/config"
	"athenaapi/models"
	"athenaapi/services"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
)

// SearchController holds the concept workbench endpoints: text and
// image search, refinement and suggestion generation.
type SearchController struct {
	Config     *config.Config
	Gemini     services.GeminiServiceProvider
	ImageStore services.ImageStore
	URLCache   services.URLCacheServiceProvider
}

func (controller *SearchController) SearchRoutes(g *echo.Group) {
	g.POST("/search", controller.Search)
	g.POST("/search-by-image", controller.SearchByImage)
	g.POST("/refine", controller.Refine)
	g.POST("/suggest-refinements", controller.SuggestRefinements)
}

func (controller *SearchController) Search(c echo.Context) error {
	var req SearchIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()

	interp := controller.Gemini.ParseFashionQuery(ctx, req.Query)
	interp.Filter.Gender = controller.Config.Search.Gender

	imageURL, description := controller.generateAndStoreConcept(ctx, interp, req.Query)

	return c.JSON(http.StatusOK, SearchResponse{
		ImageURL:         imageURL,
		Description:      description,
		ParsedAttributes: interp,
	})
}

func (controller *SearchController) SearchByImage(c echo.Context) error {
	var req SearchByImageIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	imageBytes, mimeType, err := services.DecodeUploadedImage(req.ImageData)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()

	interp := controller.Gemini.AnalyzeImageStyle(ctx, imageBytes, mimeType, req.AdditionalDescription)
	interp.Filter.Gender = controller.Config.Search.Gender

	analyzedStyle := interp.StyleDescription
	if analyzedStyle == "" {
		analyzedStyle = "Style based on uploaded image"
	}

	imageURL, description := controller.generateAndStoreConcept(ctx, interp, analyzedStyle)

	return c.JSON(http.StatusOK, SearchByImageResponse{
		ImageURL:         imageURL,
		Description:      description,
		ParsedAttributes: interp,
		AnalyzedStyle:    analyzedStyle,
	})
}

func (controller *SearchController) Refine(c echo.Context) error {
	var req RefineIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()

	// Placeholder concepts have no fetchable image; refinement then
	// falls back to generating from scratch.
	var currentImage []byte
	if strings.HasPrefix(req.CurrentImageURL, "http://") || strings.HasPrefix(req.CurrentImageURL, "https://") {
		content, err := services.ReadFileFromUrl(req.CurrentImageURL)
		if err != nil {
			fmt.Println("Could not fetch current concept image, refining without it:", err)
		} else {
			currentImage = content
		}
	}

	refined, err := controller.Gemini.RefineConceptImage(ctx, req.RefinementPrompt, currentImage, "image/png")
	if err != nil {
		sentry.CaptureException(fmt.Errorf("refinement generation failed: %v", err))
		prompt := req.OriginalPrompt + " with " + req.RefinementPrompt
		return c.JSON(http.StatusOK, RefineResponse{
			ImageURL:    services.PlaceholderImageURL,
			Description: services.PlaceholderDescription(prompt),
		})
	}

	imageURL := controller.storeConcept(ctx, "refined", refined)
	if imageURL == "" {
		prompt := req.OriginalPrompt + " with " + req.RefinementPrompt
		return c.JSON(http.StatusOK, RefineResponse{
			ImageURL:    services.PlaceholderImageURL,
			Description: services.PlaceholderDescription(prompt),
		})
	}

	return c.JSON(http.StatusOK, RefineResponse{
		ImageURL:    imageURL,
		Description: "Refined design incorporating: " + req.RefinementPrompt,
	})
}

func (controller *SearchController) SuggestRefinements(c echo.Context) error {
	var req SuggestRefinementsIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()

	suggestions, err := controller.suggestForImage(ctx, req)
	if err != nil {
		fmt.Println("Suggestion generation failed, serving fallback:", err)
		return c.JSON(http.StatusOK, SuggestionsResponse{
			Suggestions: models.FallbackSuggestions(),
			Degraded:    controller.degradedFlag(),
		})
	}

	return c.JSON(http.StatusOK, SuggestionsResponse{Suggestions: suggestions})
}

func (controller *SearchController) suggestForImage(ctx context.Context, req SuggestRefinementsIn) ([]models.StyleSuggestion, error) {
	if !strings.HasPrefix(req.ImageURL, "http://") && !strings.HasPrefix(req.ImageURL, "https://") {
		return nil, fmt.Errorf("unsupported image URL format")
	}
	imageBytes, err := services.ReadFileFromUrl(req.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("could not fetch concept image: %v", err)
	}
	return controller.Gemini.GenerateStyleSuggestions(ctx, imageBytes, "image/png", req.Description, req.Query)
}

// degradedFlag is nil unless the deployment opted into marking
// fallback suggestions, so default responses stay byte-identical to
// the silent behavior.
func (controller *SearchController) degradedFlag() *bool {
	if !controller.Config.Search.SuggestionsDegradedFlag {
		return nil
	}
	return BoolPointer(true)
}

// generateAndStoreConcept runs the image model for an interpretation
// and stores the result. Any failure downgrades to the placeholder
// image rather than failing the request.
func (controller *SearchController) generateAndStoreConcept(ctx context.Context, interp models.Interpretation, fallbackPrompt string) (string, string) {
	enhanced := services.EnhanceVisualPrompt(interp.VisualPrompt, interp)

	imageBytes, err := controller.Gemini.GenerateConceptImage(ctx, enhanced)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("concept generation failed: %v", err))
		return services.PlaceholderImageURL, services.PlaceholderDescription(fallbackPrompt)
	}

	if whitened, werr := services.WhitenBackgroundFeathered(imageBytes, 225, 250, 0.6); werr == nil {
		imageBytes = whitened
	}

	imageURL := controller.storeConcept(ctx, "concepts", imageBytes)
	if imageURL == "" {
		return services.PlaceholderImageURL, services.PlaceholderDescription(fallbackPrompt)
	}
	return imageURL, services.ConceptDescription(interp)
}

// storeConcept writes generated bytes to object storage and returns a
// presigned read URL, or "" when storage is unavailable.
func (controller *SearchController) storeConcept(ctx context.Context, prefix string, imageBytes []byte) string {
	objectKey, err := controller.ImageStore.StoreGeneratedImage(ctx, prefix, imageBytes)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("failed to store generated image: %v", err))
		return ""
	}
	readURL, err := controller.URLCache.GetReadURL(ctx, objectKey)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("failed to presign read URL for %s: %v", objectKey, err))
		return ""
	}
	return readURL
}
