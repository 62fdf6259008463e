package store

import (
	"context"

	"github.com/alextreichler/shopfront/internal/models"
)

type Stats struct {
	TotalProducts         int64
	TotalOrders           int64
	Revenue               float64
	OrdersByPaymentMethod map[string]int64
	TopProducts           []ProductSales
}

type ProductSales struct {
	ProductID   uint
	ProductName string
	Quantity    int64
}

func (s *Store) GetStats(ctx context.Context, top int) (*Stats, error) {
	db := s.DB.WithContext(ctx)
	stats := &Stats{
		OrdersByPaymentMethod: make(map[string]int64),
	}

	// 1. Totals
	if err := db.Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Select("COALESCE(SUM(total_price), 0)").Scan(&stats.Revenue).Error; err != nil {
		return nil, err
	}

	// 2. Orders by payment method
	var methods []struct {
		PaymentMethod string
		Count         int64
	}
	if err := db.Model(&models.Order{}).
		Select("payment_method, COUNT(*) AS count").
		Group("payment_method").
		Scan(&methods).Error; err != nil {
		return nil, err
	}
	for _, m := range methods {
		stats.OrdersByPaymentMethod[m.PaymentMethod] = m.Count
	}

	// 3. Best sellers by units
	if err := db.Model(&models.OrderItem{}).
		Select("product_id, product_name, SUM(quantity) AS quantity").
		Group("product_id, product_name").
		Order("quantity DESC, product_id").
		Limit(top).
		Scan(&stats.TopProducts).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
