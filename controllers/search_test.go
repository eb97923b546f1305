package controllers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appconfig "athenaapi/config"
	"athenaapi/dbhelper"
	"athenaapi/services"
	"athenaapi/test"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig() *appconfig.Config {
	return &appconfig.Config{
		Search: appconfig.SearchConfig{
			TopK:            10,
			TopKPerCategory: 5,
			Gender:          "Women",
		},
		Storage: appconfig.StorageConfig{BucketName: "athena-test"},
	}
}

func setupTestServer(db *gorm.DB, cfg *appconfig.Config, gemini *test.GeminiServiceMock, embedding *test.EmbeddingServiceMock) *echo.Echo {
	return SetupServer(db, cfg, gemini, embedding, test.AWSProviderMock{}, test.URLCacheMock{})
}

// fakeImageServer serves a valid PNG for every path, standing in for
// object storage when handlers fetch a concept or product image back.
func fakeImageServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(test.FakePNG())
	}))
	t.Cleanup(server.Close)
	return server
}

func fakePNGDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(test.FakePNG())
}

func TestSearchOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	gemini := &test.GeminiServiceMock{}
	e := setupTestServer(db, testConfig(), gemini, &test.EmbeddingServiceMock{})

	req := test.NewJSONRequest("POST", "/api/search", SearchIn{Query: "red dress for a summer wedding"})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, strings.HasPrefix(response.ImageURL, "https://fakebucketurl.com/concepts/"), response.ImageURL)
	assert.True(t, strings.HasSuffix(response.ImageURL, ".png"), response.ImageURL)
	assert.NotEmpty(t, response.Description)
	assert.Equal(t, "Women", response.ParsedAttributes.Filter.Gender)
	assert.Equal(t, 1, gemini.GenerateCalls)
}

func TestSearchMissingQuery(t *testing.T) {
	db := dbhelper.SetupTestDB()
	e := setupTestServer(db, testConfig(), &test.GeminiServiceMock{}, &test.EmbeddingServiceMock{})

	req := test.NewJSONRequest("POST", "/api/search", SearchIn{})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var response map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "Query")
}

func TestSearchConceptFailureReturnsPlaceholder(t *testing.T) {
	db := dbhelper.SetupTestDB()
	gemini := &test.GeminiServiceMock{ConceptErr: errors.New("image model quota exceeded")}
	e := setupTestServer(db, testConfig(), gemini, &test.EmbeddingServiceMock{})

	req := test.NewJSONRequest("POST", "/api/search", SearchIn{Query: "cozy winter sweater"})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	// Image failure degrades to a placeholder, never a 5xx.
	require.Equal(t, http.StatusOK, rec.Code)

	var response SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, strings.HasPrefix(response.ImageURL, "data:image/svg+xml"), response.ImageURL)
	assert.Contains(t, response.Description, "cozy winter sweater")
	assert.Contains(t, response.Description, "placeholder")
}

func TestSearchByImageOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	e := setupTestServer(db, testConfig(), &test.GeminiServiceMock{}, &test.EmbeddingServiceMock{})

	reqBody := SearchByImageIn{
		ImageData:             fakePNGDataURI(),
		AdditionalDescription: "street style, oversized fit",
	}
	req := test.NewJSONRequest("POST", "/api/search-by-image", reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response SearchByImageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "A relaxed casual style with soft neutral tones", response.AnalyzedStyle)
	assert.True(t, strings.HasPrefix(response.ImageURL, "https://fakebucketurl.com/concepts/"), response.ImageURL)
	assert.Equal(t, "Women", response.ParsedAttributes.Filter.Gender)
}

func TestSearchByImageInvalidBase64(t *testing.T) {
	db := dbhelper.SetupTestDB()
	e := setupTestServer(db, testConfig(), &test.GeminiServiceMock{}, &test.EmbeddingServiceMock{})

	reqBody := SearchByImageIn{ImageData: "data:image/png;base64,!!!not-base64!!!"}
	req := test.NewJSONRequest("POST", "/api/search-by-image", reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchByImageUnsupportedContent(t *testing.T) {
	db := dbhelper.SetupTestDB()
	e := setupTestServer(db, testConfig(), &test.GeminiServiceMock{}, &test.EmbeddingServiceMock{})

	// Valid base64, but the payload is plain text rather than an image.
	reqBody := SearchByImageIn{
		ImageData: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("definitely not an image")),
	}
	req := test.NewJSONRequest("POST", "/api/search-by-image", reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchByImageMissingData(t *testing.T) {
	db := dbhelper.SetupTestDB()
	e := setupTestServer(db, testConfig(), &test.GeminiServiceMock{}, &test.EmbeddingServiceMock{})

	req := test.NewJSONRequest("POST", "/api/search-by-image", SearchByImageIn{})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefineOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	server := fakeImageServer(t)
	e := setupTestServer(db, testConfig(), &test.GeminiServiceMock{}, &test.EmbeddingServiceMock{})

	reqBody := RefineIn{
		OriginalPrompt:   "flowy navy evening gown",
		RefinementPrompt: "make the sleeves shorter",
		CurrentImageURL:  server.URL + "/concepts/current.png",
	}
	req := test.NewJSONRequest("POST", "/api/refine", reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response RefineResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, strings.HasPrefix(response.ImageURL, "https://fakebucketurl.com/refined/"), response.ImageURL)
	assert.Equal(t, "Refined design incorporating: make the sleeves shorter", response.Description)
}

func TestRefineGenerationFailureReturnsPlaceholder(t *testing.T) {
	db := dbhelper.SetupTestDB()
	gemini := &test.GeminiServiceMock{RefineErr: errors.New("image model unavailable")}
	e := setupTestServer(db, testConfig(), gemini, &test.EmbeddingServiceMock{})

	reqBody := RefineIn{
		OriginalPrompt:   "flowy navy evening gown",
		RefinementPrompt: "make the sleeves shorter",
		CurrentImageURL:  services.PlaceholderImageURL,
	}
	req := test.NewJSONRequest("POST", "/api/refine", reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response RefineResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, strings.HasPrefix(response.ImageURL, "data:image/svg+xml"), response.ImageURL)
	assert.Contains(t, response.Description, "flowy navy evening gown with make the sleeves shorter")
}

func TestRefineMissingFields(t *testing.T) {
	db := dbhelper.SetupTestDB()
	e := setupTestServer(db, testConfig(), &test.GeminiServiceMock{}, &test.EmbeddingServiceMock{})

	req := test.NewJSONRequest("POST", "/api/refine", RefineIn{RefinementPrompt: "make it blue"})
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestRefinementsOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	server := fakeImageServer(t)
	e := setupTestServer(db, testConfig(), &test.GeminiServiceMock{}, &test.EmbeddingServiceMock{})

	reqBody := SuggestRefinementsIn{
		ImageURL:    server.URL + "/concepts/current.png",
		Description: "A red midi dress",
		Query:       "red dress",
	}
	req := test.NewJSONRequest("POST", "/api/suggest-refinements", reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response SuggestionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Suggestions, 2)
	assert.Equal(t, "Burgundy Version", response.Suggestions[0].Title)
	assert.Nil(t, response.Degraded)
}

func TestSuggestRefinementsFallbackOnError(t *testing.T) {
	db := dbhelper.SetupTestDB()
	server := fakeImageServer(t)
	gemini := &test.GeminiServiceMock{SuggestionsErr: errors.New("model unavailable")}
	e := setupTestServer(db, testConfig(), gemini, &test.EmbeddingServiceMock{})

	reqBody := SuggestRefinementsIn{ImageURL: server.URL + "/concepts/current.png"}
	req := test.NewJSONRequest("POST", "/api/suggest-refinements", reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response SuggestionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Suggestions, 4)
	assert.Equal(t, "Color Variation", response.Suggestions[0].Title)
	assert.Equal(t, "Silhouette Change", response.Suggestions[3].Title)

	// Without the opt-in flag the fallback is served silently.
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	_, present := raw["degraded"]
	assert.False(t, present)
}

func TestSuggestRefinementsFallbackForPlaceholderConcept(t *testing.T) {
	db := dbhelper.SetupTestDB()
	e := setupTestServer(db, testConfig(), &test.GeminiServiceMock{}, &test.EmbeddingServiceMock{})

	// A placeholder data URI cannot be fetched, so suggestions degrade
	// to the defaults.
	reqBody := SuggestRefinementsIn{ImageURL: services.PlaceholderImageURL}
	req := test.NewJSONRequest("POST", "/api/suggest-refinements", reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response SuggestionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Suggestions, 4)
}

func TestSuggestRefinementsDegradedFlag(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cfg := testConfig()
	cfg.Search.SuggestionsDegradedFlag = true
	gemini := &test.GeminiServiceMock{SuggestionsErr: errors.New("model unavailable")}
	server := fakeImageServer(t)
	e := setupTestServer(db, cfg, gemini, &test.EmbeddingServiceMock{})

	reqBody := SuggestRefinementsIn{ImageURL: server.URL + "/concepts/current.png"}
	req := test.NewJSONRequest("POST", "/api/suggest-refinements", reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response SuggestionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Suggestions, 4)
	require.NotNil(t, response.Degraded)
	assert.True(t, *response.Degraded)
}
