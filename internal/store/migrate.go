package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/alextreichler/shopfront/internal/models"
)

type schemaMigration struct {
	Version   string    `gorm:"primaryKey;size:64"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (schemaMigration) TableName() string { return "schema_migrations" }

type migration struct {
	version string
	apply   func(tx *gorm.DB) error
}

// Versions are applied in slice order and never edited once released.
var migrations = []migration{
	{
		version: "001_users_products",
		apply: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.User{}, &models.Product{})
		},
	},
	{
		version: "002_orders",
		apply: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&models.Order{}, &models.OrderItem{})
		},
	},
}

// Migrate applies every migration not yet recorded in schema_migrations.
func (s *Store) Migrate(ctx context.Context) error {
	db := s.DB.WithContext(ctx)
	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		applied, err := isApplied(db, m.version)
		if err != nil {
			return err
		}
		if applied {
			slog.Debug("Skipping already applied migration", "version", m.version)
			continue
		}

		slog.Info("Applying migration", "version", m.version)
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := m.apply(tx); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{Version: m.version}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", m.version, err)
		}
	}
	return nil
}

// AppliedMigrations lists recorded versions, oldest first.
func (s *Store) AppliedMigrations(ctx context.Context) ([]string, error) {
	var versions []string
	err := s.DB.WithContext(ctx).Model(&schemaMigration{}).Order("version").Pluck("version", &versions).Error
	return versions, err
}

func isApplied(db *gorm.DB, version string) (bool, error) {
	var m schemaMigration
	err := db.Where("version = ?", version).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check migration %s: %w", version, err)
	}
	return true, nil
}
