package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a CRM contact. Email is unique across all customers; the
// database enforces it with a unique index and the unique-violation is
// surfaced through the store as a duplicate error.
type Customer struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"size:100"`
	Email     string  `gorm:"size:254;uniqueIndex"`
	Phone     *string `gorm:"size:20"`
	CreatedAt time.Time
}

// Product is a sellable item. Price is stored as an exact decimal, never
// as a binary float.
type Product struct {
	ID    uint            `gorm:"primaryKey"`
	Name  string          `gorm:"size:100"`
	Price decimal.Decimal `gorm:"type:decimal(10,2)"`
	Stock int             `gorm:"not null;default:0"`
}

// Order links one customer to one or more products. TotalAmount is a
// snapshot of the product prices at creation time and is never recomputed.
// Deleting a customer cascades to their orders; products are shared across
// orders through the order_products join table and never cascade.
type Order struct {
	ID          uint            `gorm:"primaryKey"`
	CustomerID  uint            `gorm:"index:idx_orders_customer_id"`
	Customer    Customer        `gorm:"constraint:OnDelete:CASCADE"`
	Products    []Product       `gorm:"many2many:order_products;"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2)"`
	OrderDate   time.Time       `gorm:"index"`
}
