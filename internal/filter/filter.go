// Package filter turns named, optional criteria into predicates over the
// CRM collections plus an optional multi-key ordering. Every provided
// criterion is AND-combined; an omitted criterion imposes no constraint.
// The predicates are pure functions of a collection snapshot so the
// in-memory store and the SQL translation in the gorm store must agree on
// results for any input.
package filter

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"graphql-crm/internal/models"
)

// CustomerCriteria narrows a customer collection.
type CustomerCriteria struct {
	NameIContains  string
	EmailIContains string
	CreatedAtGte   *time.Time
	CreatedAtLte   *time.Time
	PhonePattern   string // case-insensitive prefix match
}

// Match reports whether the customer satisfies every provided criterion.
func (c CustomerCriteria) Match(cust models.Customer) bool {
	if c.NameIContains != "" && !containsFold(cust.Name, c.NameIContains) {
		return false
	}
	if c.EmailIContains != "" && !containsFold(cust.Email, c.EmailIContains) {
		return false
	}
	if c.CreatedAtGte != nil && cust.CreatedAt.Before(*c.CreatedAtGte) {
		return false
	}
	if c.CreatedAtLte != nil && cust.CreatedAt.After(*c.CreatedAtLte) {
		return false
	}
	if c.PhonePattern != "" {
		if cust.Phone == nil || !hasPrefixFold(*cust.Phone, c.PhonePattern) {
			return false
		}
	}
	return true
}

// ProductCriteria narrows a product collection. Bounds are inclusive and
// independently optional.
type ProductCriteria struct {
	NameIContains string
	PriceGte      *decimal.Decimal
	PriceLte      *decimal.Decimal
	StockGte      *int
	StockLte      *int
}

// Match reports whether the product satisfies every provided criterion.
func (c ProductCriteria) Match(p models.Product) bool {
	if c.NameIContains != "" && !containsFold(p.Name, c.NameIContains) {
		return false
	}
	if c.PriceGte != nil && p.Price.LessThan(*c.PriceGte) {
		return false
	}
	if c.PriceLte != nil && p.Price.GreaterThan(*c.PriceLte) {
		return false
	}
	if c.StockGte != nil && p.Stock < *c.StockGte {
		return false
	}
	if c.StockLte != nil && p.Stock > *c.StockLte {
		return false
	}
	return true
}

// OrderCriteria narrows an order collection. CustomerName and ProductName
// reach through the associations, so Match expects orders with Customer
// and Products populated.
type OrderCriteria struct {
	TotalAmountGte *decimal.Decimal
	TotalAmountLte *decimal.Decimal
	OrderDateGte   *time.Time
	OrderDateLte   *time.Time
	CustomerName   string
	ProductName    string
	ProductID      *uint
}

// Match reports whether the order satisfies every provided criterion.
func (c OrderCriteria) Match(o models.Order) bool {
	if c.TotalAmountGte != nil && o.TotalAmount.LessThan(*c.TotalAmountGte) {
		return false
	}
	if c.TotalAmountLte != nil && o.TotalAmount.GreaterThan(*c.TotalAmountLte) {
		return false
	}
	if c.OrderDateGte != nil && o.OrderDate.Before(*c.OrderDateGte) {
		return false
	}
	if c.OrderDateLte != nil && o.OrderDate.After(*c.OrderDateLte) {
		return false
	}
	if c.CustomerName != "" && !containsFold(o.Customer.Name, c.CustomerName) {
		return false
	}
	if c.ProductName != "" {
		found := false
		for _, p := range o.Products {
			if containsFold(p.Name, c.ProductName) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if c.ProductID != nil {
		found := false
		for _, p := range o.Products {
			if p.ID == *c.ProductID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// hasPrefixFold matches the case-insensitive collation MySQL applies to
// the LIKE translation of the same criterion.
func hasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}
