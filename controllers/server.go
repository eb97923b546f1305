package controllers

import (
	"context"
	"log"
	"net/http"

	appconfig "athenaapi/config"
	"athenaapi/services"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func SetupServer(
	db *gorm.DB,
	cfg *appconfig.Config,
	geminiService services.GeminiServiceProvider,
	embeddingService services.EmbeddingServiceProvider,
	awsService services.AWSServiceProvider,
	urlCache services.URLCacheServiceProvider,
) *echo.Echo {

	err := awsService.InitPresignClient(context.Background())
	if err != nil {
		log.Fatal("Failed to initialize AWS provider: S3")
	}

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("__db", db)
			return next(c)
		}
	})

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	imageStore := &services.R2ImageStore{AWS: awsService, BucketName: cfg.Storage.BucketName}

	apiGroup := e.Group("/api")

	searchController := SearchController{
		Config:     cfg,
		Gemini:     geminiService,
		ImageStore: imageStore,
		URLCache:   urlCache,
	}
	searchController.SearchRoutes(apiGroup)

	productsController := ProductsController{
		Config:     cfg,
		Gemini:     geminiService,
		Embedding:  embeddingService,
		ImageStore: imageStore,
		URLCache:   urlCache,
	}
	productsController.ProductRoutes(apiGroup)

	healthController := HealthController{}
	healthController.HealthRoutes(e)

	return e
}
