package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/alextreichler/shopfront/internal/models"
)

var ErrEmptyOrder = errors.New("order has no items")

// CreateOrder writes the order row and all of its items in one transaction.
// On success order.ID and every item's OrderID are set.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	if len(order.Items) == 0 {
		return ErrEmptyOrder
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(order).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
		}
		if err := tx.Create(&order.Items).Error; err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
		return nil
	})
}

// GetOrder returns the order with its items, or nil, nil when missing.
func (s *Store) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := s.DB.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).Take(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOrders returns the most recent orders first, with items.
func (s *Store) ListOrders(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("order_date DESC, id DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// ListOrdersByUser returns one customer's orders, newest first, with items.
func (s *Store) ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("user_id = ?", userID).
		Order("order_date DESC, id DESC").
		Find(&orders).Error
	return orders, err
}
