package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"graphql-crm/internal/filter"
	"graphql-crm/internal/models"
)

// MemoryStore is an in-memory Store used by tests and local experiments.
// It applies the filter package's pure predicates, so its results match
// the SQL translation in the gorm store for any snapshot.
type MemoryStore struct {
	mu           sync.RWMutex
	customers    []models.Customer
	products     []models.Product
	orders       []memOrder
	nextCustomer uint
	nextProduct  uint
	nextOrder    uint
}

// memOrder keeps references instead of embedded rows, mirroring the FK
// and join-table layout of the MySQL schema.
type memOrder struct {
	id          uint
	customerID  uint
	productIDs  []uint
	totalAmount decimal.Decimal
	orderDate   time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) CreateCustomer(ctx context.Context, c *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.customers {
		if strings.EqualFold(existing.Email, c.Email) {
			return ErrDuplicateEmail
		}
	}
	s.nextCustomer++
	c.ID = s.nextCustomer
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	s.customers = append(s.customers, *c)
	return nil
}

func (s *MemoryStore) CustomerByID(ctx context.Context, id uint) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.ID == id {
			out := c
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CustomerEmailExists(ctx context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if strings.EqualFold(c.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) Customers(ctx context.Context, crit filter.CustomerCriteria, orderBy []filter.SortKey) ([]models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Customer
	for _, c := range s.customers {
		if crit.Match(c) {
			out = append(out, c)
		}
	}
	filter.SortCustomers(out, orderBy)
	return out, nil
}

func (s *MemoryStore) DeleteCustomer(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, c := range s.customers {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	s.customers = append(s.customers[:idx], s.customers[idx+1:]...)
	// Cascade, like the FK's ON DELETE CASCADE.
	kept := s.orders[:0]
	for _, o := range s.orders {
		if o.customerID != id {
			kept = append(kept, o)
		}
	}
	s.orders = kept
	return nil
}

func (s *MemoryStore) CreateProduct(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextProduct++
	p.ID = s.nextProduct
	s.products = append(s.products, *p)
	return nil
}

func (s *MemoryStore) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			out := p
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.productsByIDsLocked(ids), nil
}

func (s *MemoryStore) productsByIDsLocked(ids []uint) []models.Product {
	want := make(map[uint]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Product
	for _, p := range s.products {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

func (s *MemoryStore) Products(ctx context.Context, crit filter.ProductCriteria, orderBy []filter.SortKey) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Product
	for _, p := range s.products {
		if crit.Match(p) {
			out = append(out, p)
		}
	}
	filter.SortProducts(out, orderBy)
	return out, nil
}

func (s *MemoryStore) ProductsBelowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Product
	for _, p := range s.products {
		if p.Stock < threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) SaveProduct(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.products {
		if existing.ID == p.ID {
			s.products[i] = *p
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) CreateOrder(ctx context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextOrder++
	o.ID = s.nextOrder
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now()
	}
	ids := make([]uint, len(o.Products))
	for i, p := range o.Products {
		ids[i] = p.ID
	}
	s.orders = append(s.orders, memOrder{
		id:          o.ID,
		customerID:  o.CustomerID,
		productIDs:  ids,
		totalAmount: o.TotalAmount,
		orderDate:   o.OrderDate,
	})
	return nil
}

func (s *MemoryStore) Orders(ctx context.Context, crit filter.OrderCriteria, orderBy []filter.SortKey) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Order
	for _, mo := range s.orders {
		o := models.Order{
			ID:          mo.id,
			CustomerID:  mo.customerID,
			Products:    s.productsByIDsLocked(mo.productIDs),
			TotalAmount: mo.totalAmount,
			OrderDate:   mo.orderDate,
		}
		for _, c := range s.customers {
			if c.ID == mo.customerID {
				o.Customer = c
				break
			}
		}
		if crit.Match(o) {
			out = append(out, o)
		}
	}
	filter.SortOrders(out, orderBy)
	return out, nil
}
