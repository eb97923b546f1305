package dbhelper

import (
	"fmt"
	"os"
	"time"

	"athenaapi/models"
	"athenaapi/services"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupDB() *gorm.DB {
	db, err := gorm.Open(postgres.Open(
		fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s",
			services.GetEnv("DB_USERNAME", ""),
			services.GetEnv("DB_PASSWORD", ""),
			services.GetEnv("DB_HOST", ""),
			services.GetEnv("DB_PORT", ""),
			services.GetEnv("DB_NAME", ""),
		),
	), &gorm.Config{})
	if err != nil {
		panic(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(300)
	sqlDB.SetConnMaxLifetime(time.Minute * 5)
	db.Logger.LogMode(logger.LogLevel(logger.Info))

	// The catalog table stores 1408-dim vectors; the extension must
	// exist before the column type can migrate.
	db.Exec("CREATE EXTENSION IF NOT EXISTS vector;")
	Migrate(db, &models.CatalogProduct{})

	return db
}

func SetupTestDB() *gorm.DB {
	os.Setenv("DB_USERNAME", "athena")
	os.Setenv("DB_PASSWORD", "athena")
	os.Setenv("DB_HOST", "localhost")
	os.Setenv("DB_NAME", "athena")
	os.Setenv("DB_PORT", "5432")
	return SetupDB()
}
