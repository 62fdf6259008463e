package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/alextreichler/shopfront/internal/models"
)

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.DB.WithContext(ctx).Order("id").Find(&products).Error
	return products, err
}

func (s *Store) ListProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var products []models.Product
	err := s.DB.WithContext(ctx).Where("category = ?", category).Order("id").Find(&products).Error
	return products, err
}

// GetProduct returns nil, nil when the product does not exist.
func (s *Store) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := s.DB.WithContext(ctx).Take(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Categories lists the distinct product categories alphabetically.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.DB.WithContext(ctx).Model(&models.Product{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}

// SeedProducts inserts products that are not already present. A product is
// present when one with the same name and category exists. It returns the
// number of rows created.
func (s *Store) SeedProducts(ctx context.Context, products []models.Product) (int, error) {
	created := 0
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range products {
			var existing models.Product
			err := tx.Where("name = ? AND category = ?", p.Name, p.Category).Take(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			p.ID = 0
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
