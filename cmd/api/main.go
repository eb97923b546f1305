package main

import (
	"context"
	"log"
	"time"

	appconfig "athenaapi/config"
	"athenaapi/controllers"
	"athenaapi/dbhelper"
	"athenaapi/services"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/genai"
)

func main() {
	cfg := appconfig.Load()

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.App.SentryDSN,
		Environment:      cfg.App.Environment,
		Release:          "athenaapi@1.0.0",
		Debug:            false,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Recover()
	defer sentry.Flush(2 * time.Second)

	db := dbhelper.SetupDB()

	// One authenticated client for every model surface, created once
	// and injected into the services that need it.
	genaiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Fatalf("error initializing genai client: %v", err)
	}

	geminiService := services.NewGoogleGeminiService(genaiClient, cfg.Gemini.Model, cfg.Gemini.ImageModel, cfg.Gemini.RequestTimeout)
	embeddingService := services.NewGoogleEmbeddingService(genaiClient, cfg.Embedding.Model, cfg.Embedding.Dimensions, cfg.Embedding.Timeout)

	awsService := &services.AWSService{Storage: cfg.Storage}
	urlCache, err := services.NewURLCacheService(awsService, cfg.Storage.BucketName)
	if err != nil {
		log.Fatal("Failed to initialize URL cache service")
	}

	e := controllers.SetupServer(db, cfg, geminiService, embeddingService, awsService, urlCache)
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(10)))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))

	e.Logger.Fatal(e.Start(":" + cfg.App.Port))
}
