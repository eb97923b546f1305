package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"athenaapi/config"
	"athenaapi/matcher"
	"athenaapi/models"
	"athenaapi/services"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ProductsController holds catalog matching and look composition.
type ProductsController struct {
	Config     *config.Config
	Gemini     services.GeminiServiceProvider
	Embedding  services.EmbeddingServiceProvider
	ImageStore services.ImageStore
	URLCache   services.URLCacheServiceProvider
}

func (controller *ProductsController) ProductRoutes(g *echo.Group) {
	g.POST("/match-products", controller.MatchProducts)
	g.POST("/create-look", controller.CreateLook)
}

func (controller *ProductsController) MatchProducts(c echo.Context) error {
	var req MatchProductsIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	db, ok := c.Get("__db").(*gorm.DB)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database connection error"})
	}

	ctx := c.Request().Context()

	// Re-parse the query so attribute filters survive the image round
	// trip. The parse is fail-closed, so a model hiccup only loosens
	// the filter, it never blocks matching.
	interp := controller.Gemini.ParseFashionQuery(ctx, req.Query)
	interp.Filter.Gender = controller.Config.Search.Gender

	imageBytes := controller.fetchConceptImage(req.ImageURL)

	embedding, err := controller.embedConcept(ctx, imageBytes, req)
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "Embedding service is unavailable, please try again later"})
	}

	m := matcher.New(db, controller.Config.Search, controller.Embedding.Dimensions())

	products, err := controller.match(c, m, embedding, interp.Filter, imageBytes)
	if err != nil {
		switch {
		case errors.Is(err, matcher.ErrDimensionMismatch):
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Catalog embedding dimensions are incompatible with the query"})
		case errors.Is(err, matcher.ErrCatalogUnavailable):
			sentry.CaptureException(err)
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "Product catalog is unavailable, please try again later"})
		default:
			sentry.CaptureException(err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Product matching failed"})
		}
	}

	return c.JSON(http.StatusOK, MatchProductsResponse{
		Products:         products,
		MatchDescription: matcher.MatchDescription(products, interp.Filter),
	})
}

func (controller *ProductsController) CreateLook(c echo.Context) error {
	var req CreateLookIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	// The validator enforces 2-3 products before any model call.
	ctx := c.Request().Context()

	var productImages [][]byte
	var productLines []string
	for i, product := range req.Products {
		imageBytes, err := services.ReadFileFromUrl(product.ImageURL)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("Could not load image for product: %s", product.Name),
			})
		}
		productImages = append(productImages, imageBytes)
		productLines = append(productLines, services.ProductDescriptionLine(product, i+1))
	}

	// A look must come back even when synthesis fails, so composition
	// failures degrade to the placeholder image instead of erroring.
	lookImageURL := services.PlaceholderImageURL
	lookImage, err := controller.Gemini.GenerateLookImage(ctx, productImages, services.BuildLookPrompt(productLines))
	if err != nil {
		sentry.CaptureException(fmt.Errorf("look generation failed: %v", err))
	} else if storedURL := controller.storeLook(ctx, lookImage); storedURL != "" {
		lookImageURL = storedURL
	}

	return c.JSON(http.StatusOK, CreateLookResponse{
		LookImageURL: lookImageURL,
		Description:  services.LookDescription(req.Products),
		Products:     req.Products,
	})
}

// storeLook writes a synthesized look image and returns its presigned
// read URL, or "" when storage is unavailable.
func (controller *ProductsController) storeLook(ctx context.Context, lookImage []byte) string {
	objectKey, err := controller.ImageStore.StoreGeneratedImage(ctx, "looks", lookImage)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("failed to store look image: %v", err))
		return ""
	}
	readURL, err := controller.URLCache.GetReadURL(ctx, objectKey)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("failed to presign look image %s: %v", objectKey, err))
		return ""
	}
	return readURL
}

// fetchConceptImage pulls the concept image bytes when the URL is
// fetchable. Placeholder data URIs and fetch failures yield nil, which
// downgrades matching to text embedding.
func (controller *ProductsController) fetchConceptImage(imageURL string) []byte {
	if !strings.HasPrefix(imageURL, "http://") && !strings.HasPrefix(imageURL, "https://") {
		return nil
	}
	content, err := services.ReadFileFromUrl(imageURL)
	if err != nil {
		fmt.Println("Could not fetch concept image for matching:", err)
		return nil
	}
	return content
}

// embedConcept prefers embedding the concept image; without one it
// embeds the concept description, then the raw query.
func (controller *ProductsController) embedConcept(ctx context.Context, imageBytes []byte, req MatchProductsIn) ([]float32, error) {
	if len(imageBytes) > 0 {
		return controller.Embedding.EmbedImage(ctx, imageBytes, "image/png")
	}
	text := req.Description
	if text == "" {
		text = req.Query
	}
	return controller.Embedding.EmbedText(ctx, text)
}

func (controller *ProductsController) match(c echo.Context, m *matcher.Matcher, embedding []float32, filter models.AttributeFilter, imageBytes []byte) ([]models.Product, error) {
	ctx := c.Request().Context()

	if controller.Config.Search.MultiCategory && len(imageBytes) > 0 {
		garments, err := controller.Gemini.AnalyzeGarmentRegions(ctx, imageBytes, "image/png")
		if err != nil {
			fmt.Println("Garment analysis failed, falling back to single-category match:", err)
		} else if len(garments) >= 2 {
			return m.MatchCategories(ctx, embedding, garments, controller.Config.Search.Gender, controller.Config.Search.TopKPerCategory)
		}
	}

	return m.Match(ctx, embedding, filter, controller.Config.Search.TopK)
}
