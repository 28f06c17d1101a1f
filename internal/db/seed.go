package db

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"graphql-crm/internal/models"
)

func strptr(s string) *string { return &s }

// SeedDemo populates an empty database with a small demo dataset. It is
// idempotent: nothing is written when customers already exist.
func SeedDemo(ctx context.Context, gdb *gorm.DB) error {
	var existing int64
	if err := gdb.WithContext(ctx).Model(&models.Customer{}).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	customers := []models.Customer{
		{Name: "Alice", Email: "alice@example.com", Phone: strptr("+1234567890")},
		{Name: "Bob", Email: "bob@example.com", Phone: strptr("123-456-7890")},
		{Name: "Carol", Email: "carol@example.com"},
	}
	if err := gdb.WithContext(ctx).Create(&customers).Error; err != nil {
		return err
	}

	products := []models.Product{
		{Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: 10},
		{Name: "Phone", Price: decimal.RequireFromString("499.99"), Stock: 5},
		{Name: "Headphones", Price: decimal.RequireFromString("79.90"), Stock: 3},
		{Name: "Monitor", Price: decimal.RequireFromString("249.00"), Stock: 25},
	}
	if err := gdb.WithContext(ctx).Create(&products).Error; err != nil {
		return err
	}

	now := time.Now()
	orders := []models.Order{
		{
			CustomerID:  customers[0].ID,
			Products:    []models.Product{products[0], products[1]},
			TotalAmount: products[0].Price.Add(products[1].Price),
			OrderDate:   now.AddDate(0, 0, -3),
		},
		{
			CustomerID:  customers[1].ID,
			Products:    []models.Product{products[2]},
			TotalAmount: products[2].Price,
			OrderDate:   now.AddDate(0, 0, -1),
		},
	}
	for i := range orders {
		if err := gdb.WithContext(ctx).Create(&orders[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
