// Package store is the persistence boundary for the CRM. Handlers and
// resolvers depend on the Store interface only, so the MySQL-backed
// implementation can be swapped for the in-memory one in tests.
package store

import (
	"context"
	"errors"

	"graphql-crm/internal/filter"
	"graphql-crm/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a customer email is already taken.
	ErrDuplicateEmail = errors.New("email already exists")
)

// Store provides create/read/update access to the CRM entities.
//
// List methods apply the given criteria with all terms AND-combined and
// the sort keys in sequence; with no sort keys the collection comes back
// in insertion (primary key) order. Every single-entity write is atomic;
// CreateOrder commits the order row and its product associations as one
// transaction.
type Store interface {
	CreateCustomer(ctx context.Context, c *models.Customer) error
	CustomerByID(ctx context.Context, id uint) (*models.Customer, error)
	CustomerEmailExists(ctx context.Context, email string) (bool, error)
	Customers(ctx context.Context, crit filter.CustomerCriteria, orderBy []filter.SortKey) ([]models.Customer, error)
	// DeleteCustomer removes the customer and cascades to their orders.
	DeleteCustomer(ctx context.Context, id uint) error

	CreateProduct(ctx context.Context, p *models.Product) error
	ProductByID(ctx context.Context, id uint) (*models.Product, error)
	// ProductsByIDs returns the products whose ids were found; missing ids
	// are skipped, not an error.
	ProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	Products(ctx context.Context, crit filter.ProductCriteria, orderBy []filter.SortKey) ([]models.Product, error)
	ProductsBelowStock(ctx context.Context, threshold int) ([]models.Product, error)
	SaveProduct(ctx context.Context, p *models.Product) error

	CreateOrder(ctx context.Context, o *models.Order) error
	Orders(ctx context.Context, crit filter.OrderCriteria, orderBy []filter.SortKey) ([]models.Order, error)
}
