package gql

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"graphql-crm/internal/filter"
	"graphql-crm/internal/service"
)

// Argument decoding helpers. graphql-go hands resolvers coerced values:
// input objects as map[string]interface{}, DateTime as time.Time, the
// Decimal scalar as decimal.Decimal, ID as string.

func optString(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func optTime(m map[string]interface{}, key string) *time.Time {
	if t, ok := m[key].(time.Time); ok {
		return &t
	}
	return nil
}

func optDecimal(m map[string]interface{}, key string) *decimal.Decimal {
	if d, ok := m[key].(decimal.Decimal); ok {
		return &d
	}
	return nil
}

func optInt(m map[string]interface{}, key string) *int {
	if n, ok := m[key].(int); ok {
		return &n
	}
	return nil
}

func parseID(v interface{}) (uint, error) {
	switch id := v.(type) {
	case string:
		n, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid id %q", id)
		}
		return uint(n), nil
	case int:
		if id < 0 {
			return 0, fmt.Errorf("invalid id %d", id)
		}
		return uint(id), nil
	case float64:
		if id < 0 || id != math.Trunc(id) {
			return 0, fmt.Errorf("invalid id %v", id)
		}
		return uint(id), nil
	}
	return 0, fmt.Errorf("invalid id %v", v)
}

func filterArg(args map[string]interface{}) map[string]interface{} {
	m, _ := args["filter"].(map[string]interface{})
	return m
}

func sortKeys(allowed []string, args map[string]interface{}) ([]filter.SortKey, error) {
	raw, ok := args["orderBy"].([]interface{})
	if !ok {
		return nil, nil
	}
	tokens := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			tokens = append(tokens, s)
		}
	}
	return filter.ParseOrderBy(allowed, tokens)
}

func paginate[T any](items []T, args map[string]interface{}) []T {
	if items == nil {
		items = []T{}
	}
	offset := 0
	if n, ok := args["offset"].(int); ok && n > 0 {
		offset = n
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if n, ok := args["limit"].(int); ok && n >= 0 && n < len(items) {
		items = items[:n]
	}
	return items
}

func customerCriteria(args map[string]interface{}) filter.CustomerCriteria {
	m := filterArg(args)
	if m == nil {
		return filter.CustomerCriteria{}
	}
	return filter.CustomerCriteria{
		NameIContains:  optString(m, "nameIcontains"),
		EmailIContains: optString(m, "emailIcontains"),
		CreatedAtGte:   optTime(m, "createdAtGte"),
		CreatedAtLte:   optTime(m, "createdAtLte"),
		PhonePattern:   optString(m, "phonePattern"),
	}
}

func productCriteria(args map[string]interface{}) filter.ProductCriteria {
	m := filterArg(args)
	if m == nil {
		return filter.ProductCriteria{}
	}
	return filter.ProductCriteria{
		NameIContains: optString(m, "nameIcontains"),
		PriceGte:      optDecimal(m, "priceGte"),
		PriceLte:      optDecimal(m, "priceLte"),
		StockGte:      optInt(m, "stockGte"),
		StockLte:      optInt(m, "stockLte"),
	}
}

func orderCriteria(args map[string]interface{}) (filter.OrderCriteria, error) {
	m := filterArg(args)
	if m == nil {
		return filter.OrderCriteria{}, nil
	}
	crit := filter.OrderCriteria{
		TotalAmountGte: optDecimal(m, "totalAmountGte"),
		TotalAmountLte: optDecimal(m, "totalAmountLte"),
		OrderDateGte:   optTime(m, "orderDateGte"),
		OrderDateLte:   optTime(m, "orderDateLte"),
		CustomerName:   optString(m, "customerName"),
		ProductName:    optString(m, "productName"),
	}
	if v, ok := m["productId"]; ok {
		id, err := parseID(v)
		if err != nil {
			return crit, err
		}
		crit.ProductID = &id
	}
	return crit, nil
}

func customerInputFrom(m map[string]interface{}) service.CustomerInput {
	in := service.CustomerInput{
		Name:  optString(m, "name"),
		Email: optString(m, "email"),
	}
	if phone, ok := m["phone"].(string); ok {
		in.Phone = &phone
	}
	return in
}

func productInputFrom(m map[string]interface{}) service.ProductInput {
	in := service.ProductInput{Name: optString(m, "name")}
	switch v := m["price"].(type) {
	case float64:
		in.Price = v
	case int:
		in.Price = float64(v)
	}
	in.Stock = optInt(m, "stock")
	return in
}

func orderInputFrom(m map[string]interface{}) (service.OrderInput, error) {
	var in service.OrderInput
	if v, ok := m["customerId"]; ok {
		id, err := parseID(v)
		if err != nil {
			return in, err
		}
		in.CustomerID = id
	}
	if raw, ok := m["productIds"].([]interface{}); ok {
		for _, v := range raw {
			id, err := parseID(v)
			if err != nil {
				return in, err
			}
			in.ProductIDs = append(in.ProductIDs, id)
		}
	}
	return in, nil
}

func stringsOrEmpty(errs []string) []string {
	if errs == nil {
		return []string{}
	}
	return errs
}
