package models

import (
	"time"
)

// Column sizes enforced before writes.
const (
	MaxUsernameLen = 80
	MaxNameLen     = 100
	MaxAddressLen  = 255
	MaxPhoneLen    = 15
)

type Product struct {
	ID          uint    `gorm:"primaryKey" json:"id" yaml:"-"`
	Name        string  `gorm:"size:100;not null" json:"name" yaml:"name"`
	Description string  `gorm:"size:255" json:"description" yaml:"description"`
	Price       float64 `gorm:"not null" json:"price" yaml:"price"`
	ImageURL    string  `gorm:"size:255" json:"image_url" yaml:"image_url"`
	Category    string  `gorm:"size:50;not null;index" json:"category" yaml:"category"`
}

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"size:80;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"` // bcrypt
}

type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        *uint       `gorm:"index" json:"user_id"` // nil for guest checkout
	Name          string      `gorm:"size:100;not null" json:"name"`
	Address       string      `gorm:"size:255;not null" json:"address"`
	Phone         string      `gorm:"size:15;not null" json:"phone"`
	PaymentMethod string      `gorm:"size:50;not null" json:"payment_method"`
	TotalPrice    float64     `gorm:"not null" json:"total_price"`
	OrderDate     time.Time   `gorm:"autoCreateTime" json:"order_date"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem snapshots the product at purchase time.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"index;not null" json:"order_id"`
	ProductID   uint    `gorm:"not null" json:"product_id"`
	ProductName string  `gorm:"size:100;not null" json:"product_name"`
	Price       float64 `gorm:"not null" json:"price"`
	Quantity    int     `gorm:"not null" json:"quantity"`
}

// Student is a row of the roster table. The table name is chosen at runtime,
// so it carries no ORM mapping.
type Student struct {
	MSSV     string `json:"mssv"`
	FullName string `json:"hoten"`
}
