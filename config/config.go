package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Gemini    GeminiConfig
	Embedding EmbeddingConfig
	Search    SearchConfig
	Storage   StorageConfig
}

type AppConfig struct {
	Port        string
	Environment string
	SentryDSN   string
}

type GeminiConfig struct {
	APIKey         string
	Model          string
	ImageModel     string
	RequestTimeout time.Duration
}

type EmbeddingConfig struct {
	Model      string
	Dimensions int
	Timeout    time.Duration
}

type SearchConfig struct {
	// UseVectorIndex selects ANN ordering through the pgvector index.
	// When false the matcher ranks with an exact in-process cosine pass.
	UseVectorIndex  bool
	TopK            int
	TopKPerCategory int
	MultiCategory   bool
	Gender          string
	// SuggestionsDegradedFlag controls whether fallback suggestions are
	// marked as degraded in the response instead of passed off silently.
	SuggestionsDegradedFlag bool
}

type StorageConfig struct {
	BucketName      string
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:        getEnv("PORT", "8083"),
			Environment: getEnv("ENV", "local"),
			SentryDSN:   getEnv("SENTRY_DSN", ""),
		},
		Gemini: GeminiConfig{
			APIKey:         getEnv("GOOGLE_API_KEY", ""),
			Model:          getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			ImageModel:     getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image-preview"),
			RequestTimeout: getEnvAsDuration("GEMINI_TIMEOUT", 60*time.Second),
		},
		Embedding: EmbeddingConfig{
			Model:      getEnv("EMBEDDING_MODEL", "multimodalembedding@001"),
			Dimensions: getEnvAsInt("EMBEDDING_DIMENSIONS", 1408),
			Timeout:    getEnvAsDuration("EMBEDDING_TIMEOUT", 30*time.Second),
		},
		Search: SearchConfig{
			UseVectorIndex:          getEnvAsBool("USE_VECTOR_INDEX", false),
			TopK:                    getEnvAsInt("SEARCH_TOP_K", 10),
			TopKPerCategory:         getEnvAsInt("SEARCH_TOP_K_PER_CATEGORY", 5),
			MultiCategory:           getEnvAsBool("MULTI_CATEGORY_SEARCH", false),
			Gender:                  getEnv("CATALOG_GENDER", "Women"),
			SuggestionsDegradedFlag: getEnvAsBool("SUGGESTIONS_DEGRADED_FLAG", false),
		},
		Storage: StorageConfig{
			BucketName:      getEnv("R2_BUCKET_NAME", ""),
			AccountID:       getEnv("R2_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			AccessKeySecret: getEnv("R2_ACCESS_KEY_SECRET", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
