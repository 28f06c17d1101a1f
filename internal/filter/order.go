package filter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"graphql-crm/internal/models"
)

// SortKey is one resolved ordering key. Keys are applied in sequence as
// primary, secondary, ... sort keys.
type SortKey struct {
	Field string
	Desc  bool
}

// Orderable fields per entity. Tokens outside these sets are caller
// errors, never silently ignored.
var (
	CustomerOrderFields = []string{"name", "email", "createdAt"}
	ProductOrderFields  = []string{"name", "price", "stock"}
	OrderOrderFields    = []string{"totalAmount", "orderDate", "id"}
)

// ParseOrderBy resolves orderBy tokens against the allowed field set. A
// leading "-" requests descending order.
func ParseOrderBy(allowed []string, tokens []string) ([]SortKey, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	keys := make([]SortKey, 0, len(tokens))
	for _, tok := range tokens {
		field := strings.TrimPrefix(tok, "-")
		known := false
		for _, f := range allowed {
			if f == field {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown orderBy field %q (allowed: %s)", field, strings.Join(allowed, ", "))
		}
		keys = append(keys, SortKey{Field: field, Desc: field != tok})
	}
	return keys, nil
}

// SortCustomers orders the slice in place by the given keys. The sort is
// stable, so equal elements keep their insertion order.
func SortCustomers(customers []models.Customer, keys []SortKey) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(customers, func(i, j int) bool {
		for _, k := range keys {
			var c int
			switch k.Field {
			case "name":
				c = strings.Compare(customers[i].Name, customers[j].Name)
			case "email":
				c = strings.Compare(customers[i].Email, customers[j].Email)
			case "createdAt":
				c = compareTimes(customers[i].CreatedAt, customers[j].CreatedAt)
			}
			if c != 0 {
				return less(c, k.Desc)
			}
		}
		return false
	})
}

// SortProducts orders the slice in place by the given keys.
func SortProducts(products []models.Product, keys []SortKey) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(products, func(i, j int) bool {
		for _, k := range keys {
			var c int
			switch k.Field {
			case "name":
				c = strings.Compare(products[i].Name, products[j].Name)
			case "price":
				c = products[i].Price.Cmp(products[j].Price)
			case "stock":
				c = compareInts(products[i].Stock, products[j].Stock)
			}
			if c != 0 {
				return less(c, k.Desc)
			}
		}
		return false
	})
}

// SortOrders orders the slice in place by the given keys.
func SortOrders(orders []models.Order, keys []SortKey) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(orders, func(i, j int) bool {
		for _, k := range keys {
			var c int
			switch k.Field {
			case "totalAmount":
				c = orders[i].TotalAmount.Cmp(orders[j].TotalAmount)
			case "orderDate":
				c = compareTimes(orders[i].OrderDate, orders[j].OrderDate)
			case "id":
				c = compareInts(int(orders[i].ID), int(orders[j].ID))
			}
			if c != 0 {
				return less(c, k.Desc)
			}
		}
		return false
	})
}

func less(cmp int, desc bool) bool {
	if desc {
		return cmp > 0
	}
	return cmp < 0
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}
