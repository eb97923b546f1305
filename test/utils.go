package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"athenaapi/models"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

func NewRefString(data string) *string {
	return &data
}

// GeminiServiceMock scripts every model surface so controller tests
// run without network. Zero values behave like a healthy model with
// canned answers; the error fields flip individual calls into failure.
type GeminiServiceMock struct {
	Interpretation    *models.Interpretation
	Garments          []models.GarmentRegion
	GarmentsErr       error
	ConceptImage      []byte
	ConceptErr        error
	RefineErr         error
	Suggestions       []models.StyleSuggestion
	SuggestionsErr    error
	LookImage         []byte
	LookErr           error
	GenerateCalls     int
	LookGenerateCalls int
}

func (m *GeminiServiceMock) ParseFashionQuery(ctx context.Context, query string) models.Interpretation {
	if m.Interpretation != nil {
		return *m.Interpretation
	}
	return models.FallbackInterpretation(query, "Women")
}

func (m *GeminiServiceMock) AnalyzeImageStyle(ctx context.Context, imageBytes []byte, mimeType string, additionalDescription string) models.Interpretation {
	if m.Interpretation != nil {
		return *m.Interpretation
	}
	interp := models.FallbackInterpretation("Fashion style inspired by your uploaded image", "Women")
	interp.StyleDescription = "A relaxed casual style with soft neutral tones"
	return interp
}

func (m *GeminiServiceMock) AnalyzeGarmentRegions(ctx context.Context, imageBytes []byte, mimeType string) ([]models.GarmentRegion, error) {
	if m.GarmentsErr != nil {
		return nil, m.GarmentsErr
	}
	return m.Garments, nil
}

func (m *GeminiServiceMock) GenerateConceptImage(ctx context.Context, prompt string) ([]byte, error) {
	m.GenerateCalls++
	if m.ConceptErr != nil {
		return nil, m.ConceptErr
	}
	if m.ConceptImage != nil {
		return m.ConceptImage, nil
	}
	return FakePNG(), nil
}

func (m *GeminiServiceMock) RefineConceptImage(ctx context.Context, refinementPrompt string, currentImage []byte, mimeType string) ([]byte, error) {
	m.GenerateCalls++
	if m.RefineErr != nil {
		return nil, m.RefineErr
	}
	if m.ConceptImage != nil {
		return m.ConceptImage, nil
	}
	return FakePNG(), nil
}

func (m *GeminiServiceMock) GenerateStyleSuggestions(ctx context.Context, imageBytes []byte, mimeType string, description string, originalQuery string) ([]models.StyleSuggestion, error) {
	if m.SuggestionsErr != nil {
		return nil, m.SuggestionsErr
	}
	if m.Suggestions != nil {
		return m.Suggestions, nil
	}
	return []models.StyleSuggestion{
		{Title: "Burgundy Version", Description: "Make it burgundy for a richer palette"},
		{Title: "Midi Length", Description: "Change to midi length"},
	}, nil
}

func (m *GeminiServiceMock) GenerateLookImage(ctx context.Context, productImages [][]byte, prompt string) ([]byte, error) {
	m.LookGenerateCalls++
	if m.LookErr != nil {
		return nil, m.LookErr
	}
	if m.LookImage != nil {
		return m.LookImage, nil
	}
	return FakePNG(), nil
}

// EmbeddingServiceMock returns a fixed vector, or an error when Err is
// set. Dims defaults to the length of Vector.
type EmbeddingServiceMock struct {
	Vector []float32
	Err    error
	Dims   int
}

func (m *EmbeddingServiceMock) Dimensions() int {
	if m.Dims > 0 {
		return m.Dims
	}
	return len(m.Vector)
}

func (m *EmbeddingServiceMock) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Vector, nil
}

func (m *EmbeddingServiceMock) EmbedImage(ctx context.Context, imageBytes []byte, mimeType string) ([]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Vector, nil
}

type AWSProviderMock struct {
	MockUrl string
}

func (awsService AWSProviderMock) InitPresignClient(ctx context.Context) error {
	return nil
}

func (awsService AWSProviderMock) PresignLink(ctx context.Context, bucketName string, fileName string) (string, error) {
	return fmt.Sprintf("https://fakebucketurl.com/%s", fileName), nil
}

func (awsService AWSProviderMock) GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	return awsService.MockUrl, nil
}

func (awsService AWSProviderMock) UploadToPresignedURL(ctx context.Context, bucketName, url string, fileContent []byte) (string, int, error) {
	return url, 204, nil
}

// URLCacheMock hands out deterministic read URLs keyed by object key.
type URLCacheMock struct {
	BaseURL string
}

func (m URLCacheMock) GetReadURL(ctx context.Context, objectKey string) (string, error) {
	if objectKey == "" {
		return "", nil
	}
	base := m.BaseURL
	if base == "" {
		base = "https://fakebucketurl.com"
	}
	return base + "/" + objectKey, nil
}

// FakePNG is a minimal valid 1x1 PNG, enough for content sniffing and
// decoding in tests.
func FakePNG() []byte {
	return []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
		0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
		0x89, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x44, 0x41,
		0x54, 0x78, 0x9C, 0x62, 0xF8, 0xCF, 0xC0, 0x00,
		0x00, 0x00, 0x03, 0x00, 0x01, 0x73, 0x75, 0x01,
		0x18, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4E,
		0x44, 0xAE, 0x42, 0x60, 0x82,
	}
}
