// Package service implements the CRM mutations. Every handler follows the
// same shape: validate the typed input, apply the domain rules, persist,
// and return a result carrying either the entity (or entities) with an
// empty error list, or no entity with the full list of violated rules.
// Domain violations never surface as transport errors, and unexpected
// store failures are caught here and reported as a single error string.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"graphql-crm/internal/models"
	"graphql-crm/internal/store"
)

// Restock defaults, overridable through Config.
const (
	DefaultLowStockThreshold = 10
	DefaultRestockAmount     = 10
)

// Config tunes the restock mutation.
type Config struct {
	LowStockThreshold int
	RestockAmount     int
}

// Service validates and persists CRM state changes through a Store.
type Service struct {
	store     store.Store
	threshold int
	restock   int
}

// New builds a Service. Zero config fields fall back to the defaults.
func New(st store.Store, cfg Config) *Service {
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = DefaultLowStockThreshold
	}
	if cfg.RestockAmount <= 0 {
		cfg.RestockAmount = DefaultRestockAmount
	}
	return &Service{store: st, threshold: cfg.LowStockThreshold, restock: cfg.RestockAmount}
}

// CustomerResult is the payload of CreateCustomer.
type CustomerResult struct {
	Customer *models.Customer
	Message  string
	Errors   []string
}

// BulkCustomersResult is the payload of BulkCreateCustomers.
type BulkCustomersResult struct {
	Customers []models.Customer
	Errors    []string
}

// ProductResult is the payload of CreateProduct.
type ProductResult struct {
	Product *models.Product
	Errors  []string
}

// OrderResult is the payload of CreateOrder.
type OrderResult struct {
	Order  *models.Order
	Errors []string
}

// RestockResult is the payload of UpdateLowStockProducts.
type RestockResult struct {
	Products []models.Product
	Message  string
	Errors   []string
}

// CreateCustomer validates email uniqueness and the phone format, then
// persists. All violated rules are reported together, not just the first.
func (s *Service) CreateCustomer(ctx context.Context, in CustomerInput) CustomerResult {
	errs := in.validateMessages()
	if in.Email != "" {
		exists, err := s.store.CustomerEmailExists(ctx, in.Email)
		if err != nil {
			return CustomerResult{Errors: []string{unexpected(err)}}
		}
		if exists {
			errs = append(errs, "Email already exists")
		}
	}
	if len(errs) > 0 {
		return CustomerResult{Errors: errs}
	}

	c := &models.Customer{Name: in.Name, Email: in.Email, Phone: in.Phone}
	if err := s.store.CreateCustomer(ctx, c); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return CustomerResult{Errors: []string{"Email already exists"}}
		}
		return CustomerResult{Errors: []string{unexpected(err)}}
	}
	return CustomerResult{Customer: c, Message: "Customer created successfully"}
}

// BulkCreateCustomers processes each entry independently: one entry's
// failure is recorded as "<email>: <reason>" and never aborts the rest.
// Partial success is the designed behavior.
func (s *Service) BulkCreateCustomers(ctx context.Context, ins []CustomerInput) BulkCustomersResult {
	var res BulkCustomersResult
	for _, in := range ins {
		r := s.CreateCustomer(ctx, in)
		if len(r.Errors) > 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %s", in.Email, strings.Join(r.Errors, "; ")))
			continue
		}
		res.Customers = append(res.Customers, *r.Customer)
	}
	return res
}

// CreateProduct converts the price to an exact decimal via its string
// form, so 19.99 persists as 19.99 and not a binary-float artifact.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) ProductResult {
	errs := in.validateMessages()

	price, perr := decimal.NewFromString(strconv.FormatFloat(in.Price, 'f', -1, 64))
	switch {
	case perr != nil:
		errs = append(errs, "Invalid price")
	case price.Cmp(decimal.Zero) <= 0:
		errs = append(errs, "Price must be positive")
	}
	stock := 0
	if in.Stock != nil {
		if *in.Stock < 0 {
			errs = append(errs, "Stock cannot be negative")
		} else {
			stock = *in.Stock
		}
	}
	if len(errs) > 0 {
		return ProductResult{Errors: errs}
	}

	p := &models.Product{Name: in.Name, Price: price, Stock: stock}
	if err := s.store.CreateProduct(ctx, p); err != nil {
		return ProductResult{Errors: []string{unexpected(err)}}
	}
	return ProductResult{Product: p}
}

// CreateOrder resolves the customer and products, snapshots the total as
// the exact decimal sum of the matched prices, stamps the order date, and
// commits the order with its associations as one unit. When only some of
// the given product ids exist the order proceeds with the found subset;
// the error fires only when none match.
func (s *Service) CreateOrder(ctx context.Context, in OrderInput) OrderResult {
	cust, err := s.store.CustomerByID(ctx, in.CustomerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return OrderResult{Errors: []string{"Invalid customer ID"}}
		}
		return OrderResult{Errors: []string{unexpected(err)}}
	}

	products, err := s.store.ProductsByIDs(ctx, in.ProductIDs)
	if err != nil {
		return OrderResult{Errors: []string{unexpected(err)}}
	}
	if len(products) == 0 {
		return OrderResult{Errors: []string{"Invalid product IDs"}}
	}

	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price)
	}

	o := &models.Order{CustomerID: cust.ID, Products: products, TotalAmount: total, OrderDate: time.Now()}
	if err := s.store.CreateOrder(ctx, o); err != nil {
		return OrderResult{Errors: []string{unexpected(err)}}
	}
	o.Customer = *cust
	return OrderResult{Order: o}
}

// UpdateLowStockProducts restocks every product with stock below the
// configured threshold and reports each updated product. Products at or
// above the threshold are untouched, so repeated calls converge.
func (s *Service) UpdateLowStockProducts(ctx context.Context) RestockResult {
	low, err := s.store.ProductsBelowStock(ctx, s.threshold)
	if err != nil {
		return RestockResult{Errors: []string{unexpected(err)}}
	}
	if len(low) == 0 {
		return RestockResult{Message: "No low-stock products found"}
	}

	var res RestockResult
	for _, p := range low {
		p.Stock += s.restock
		if err := s.store.SaveProduct(ctx, &p); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %s", p.Name, unexpected(err)))
			continue
		}
		res.Products = append(res.Products, p)
	}
	res.Message = fmt.Sprintf("Restocked %d products", len(res.Products))
	return res
}

func unexpected(err error) string {
	return "Unexpected error: " + err.Error()
}
