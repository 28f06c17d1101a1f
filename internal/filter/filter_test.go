package filter

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphql-crm/internal/models"
)

func strptr(s string) *string { return &s }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCustomerCriteriaMatch(t *testing.T) {
	alice := models.Customer{
		Name:      "Alice",
		Email:     "alice@example.com",
		Phone:     strptr("+1234567890"),
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	bob := models.Customer{
		Name:      "Bob",
		Email:     "bob@example.com",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, CustomerCriteria{}.Match(alice), "empty criteria match everything")

	crit := CustomerCriteria{NameIContains: "ali"}
	assert.True(t, crit.Match(alice))
	assert.False(t, crit.Match(bob))

	assert.True(t, CustomerCriteria{EmailIContains: "EXAMPLE"}.Match(alice))

	feb := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, CustomerCriteria{CreatedAtGte: &feb}.Match(alice))
	assert.False(t, CustomerCriteria{CreatedAtGte: &feb}.Match(bob))
	assert.True(t, CustomerCriteria{CreatedAtLte: &feb}.Match(bob))

	assert.True(t, CustomerCriteria{PhonePattern: "+123"}.Match(alice))
	assert.False(t, CustomerCriteria{PhonePattern: "+123"}.Match(bob), "nil phone never matches a pattern")

	// MySQL's default collation makes the LIKE translation
	// case-insensitive; the predicate must agree.
	carol := models.Customer{Name: "Carol", Email: "carol@example.com", Phone: strptr("+1-800-FLOWERS")}
	assert.True(t, CustomerCriteria{PhonePattern: "+1-800-flowers"}.Match(carol))
	assert.True(t, CustomerCriteria{PhonePattern: "+1-800-FLO"}.Match(carol))

	// Bounds are inclusive.
	exact := alice.CreatedAt
	assert.True(t, CustomerCriteria{CreatedAtGte: &exact, CreatedAtLte: &exact}.Match(alice))
}

func TestProductCriteriaBounds(t *testing.T) {
	laptop := models.Product{Name: "Laptop", Price: dec("999.99"), Stock: 10}

	lo, hi := dec("100"), dec("1000")
	assert.True(t, ProductCriteria{PriceGte: &lo, PriceLte: &hi}.Match(laptop))

	exact := dec("999.99")
	assert.True(t, ProductCriteria{PriceGte: &exact}.Match(laptop), "lower bound is inclusive")
	assert.True(t, ProductCriteria{PriceLte: &exact}.Match(laptop), "upper bound is inclusive")

	over := dec("1000.00")
	assert.False(t, ProductCriteria{PriceGte: &over}.Match(laptop))

	ten := 10
	nine := 9
	assert.True(t, ProductCriteria{StockGte: &ten, StockLte: &ten}.Match(laptop))
	assert.False(t, ProductCriteria{StockLte: &nine}.Match(laptop))

	assert.True(t, ProductCriteria{NameIContains: "LAP"}.Match(laptop))
}

func TestOrderCriteriaJoins(t *testing.T) {
	order := models.Order{
		Customer: models.Customer{Name: "Alice"},
		Products: []models.Product{
			{ID: 1, Name: "Laptop"},
			{ID: 2, Name: "Phone"},
		},
		TotalAmount: dec("1499.98"),
		OrderDate:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, OrderCriteria{CustomerName: "ali"}.Match(order))
	assert.False(t, OrderCriteria{CustomerName: "bob"}.Match(order))

	assert.True(t, OrderCriteria{ProductName: "phone"}.Match(order))
	assert.False(t, OrderCriteria{ProductName: "tablet"}.Match(order))

	one, three := uint(1), uint(3)
	assert.True(t, OrderCriteria{ProductID: &one}.Match(order))
	assert.False(t, OrderCriteria{ProductID: &three}.Match(order))

	lo := dec("1499.98")
	assert.True(t, OrderCriteria{TotalAmountGte: &lo, TotalAmountLte: &lo}.Match(order))
}

func TestParseOrderBy(t *testing.T) {
	keys, err := ParseOrderBy(ProductOrderFields, []string{"price", "-stock"})
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, SortKey{Field: "price"}, keys[0])
	assert.Equal(t, SortKey{Field: "stock", Desc: true}, keys[1])

	keys, err = ParseOrderBy(ProductOrderFields, nil)
	require.NoError(t, err)
	assert.Nil(t, keys)

	_, err = ParseOrderBy(ProductOrderFields, []string{"-height"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown orderBy field "height"`)
}

func TestSortProductsMultiKey(t *testing.T) {
	products := []models.Product{
		{Name: "B", Price: dec("10"), Stock: 5},
		{Name: "A", Price: dec("10"), Stock: 9},
		{Name: "C", Price: dec("5"), Stock: 1},
	}

	keys, err := ParseOrderBy(ProductOrderFields, []string{"price", "-stock"})
	require.NoError(t, err)
	SortProducts(products, keys)

	assert.Equal(t, "C", products[0].Name)
	assert.Equal(t, "A", products[1].Name, "equal prices fall back to stock descending")
	assert.Equal(t, "B", products[2].Name)
}

func TestSortCustomersStable(t *testing.T) {
	customers := []models.Customer{
		{ID: 1, Name: "Same"},
		{ID: 2, Name: "Same"},
	}
	SortCustomers(customers, []SortKey{{Field: "name"}})
	assert.Equal(t, uint(1), customers[0].ID, "stable sort keeps insertion order for equal keys")
}

func TestSortOrdersByDateDesc(t *testing.T) {
	old := models.Order{ID: 1, OrderDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	recent := models.Order{ID: 2, OrderDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)}
	orders := []models.Order{old, recent}

	SortOrders(orders, []SortKey{{Field: "orderDate", Desc: true}})
	assert.Equal(t, uint(2), orders[0].ID)
}
