package persistence

import (
	"fmt"

	"github.com/Nico-AP/datadonation-wi/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewPostgresDB opens the primary database connection.
func NewPostgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the scraper schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Hashtag{},
		&model.TikTokUser{},
		&model.TikTokVideo{},
	)
}
