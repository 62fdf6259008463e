// Package cart holds the per-session shopping cart. A cart lives in the
// session cookie, so it only stores what the cart page needs to render.
package cart

import (
	"encoding/gob"

	"github.com/alextreichler/shopfront/internal/models"
)

func init() {
	gob.Register(Cart{})
}

type Item struct {
	ID       uint
	Name     string
	Price    float64
	ImageURL string
	Quantity int
}

// Subtotal is Price × Quantity.
func (i Item) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

type Cart []Item

// Add increments the entry for p, or appends a new entry with quantity 1.
func (c Cart) Add(p models.Product) Cart {
	for i := range c {
		if c[i].ID == p.ID {
			c[i].Quantity++
			return c
		}
	}
	return append(c, Item{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		ImageURL: p.ImageURL,
		Quantity: 1,
	})
}

// Remove drops every entry for product id.
func (c Cart) Remove(id uint) Cart {
	out := make(Cart, 0, len(c))
	for _, item := range c {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

func (c Cart) Total() float64 {
	var total float64
	for _, item := range c {
		total += item.Subtotal()
	}
	return total
}

// Count is the number of units across all entries.
func (c Cart) Count() int {
	n := 0
	for _, item := range c {
		n += item.Quantity
	}
	return n
}

func (c Cart) Empty() bool {
	return len(c) == 0
}

// OrderItems snapshots the cart as order lines, in cart order.
func (c Cart) OrderItems() []models.OrderItem {
	items := make([]models.OrderItem, 0, len(c))
	for _, item := range c {
		items = append(items, models.OrderItem{
			ProductID:   item.ID,
			ProductName: item.Name,
			Price:       item.Price,
			Quantity:    item.Quantity,
		})
	}
	return items
}
