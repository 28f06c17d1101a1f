package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphql-crm/internal/filter"
	"graphql-crm/internal/models"
)

func seedMemory(t *testing.T) (*MemoryStore, models.Customer, []models.Product) {
	t.Helper()
	ctx := context.Background()
	st := NewMemoryStore()

	cust := models.Customer{Name: "Alice", Email: "alice@example.com"}
	require.NoError(t, st.CreateCustomer(ctx, &cust))

	products := []models.Product{
		{Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: 10},
		{Name: "Phone", Price: decimal.RequireFromString("499.99"), Stock: 5},
	}
	for i := range products {
		require.NoError(t, st.CreateProduct(ctx, &products[i]))
	}
	return st, cust, products
}

func TestMemoryDuplicateEmail(t *testing.T) {
	st, _, _ := seedMemory(t)
	ctx := context.Background()

	dup := models.Customer{Name: "Other", Email: "ALICE@example.com"}
	err := st.CreateCustomer(ctx, &dup)
	assert.ErrorIs(t, err, ErrDuplicateEmail, "email uniqueness is case-insensitive, like the MySQL index")

	exists, err := st.CustomerEmailExists(ctx, "Alice@Example.Com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryProductsByIDsSubset(t *testing.T) {
	st, _, products := seedMemory(t)

	got, err := st.ProductsByIDs(context.Background(), []uint{products[0].ID, 999})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Laptop", got[0].Name)
}

func TestMemoryDeleteCustomerCascades(t *testing.T) {
	st, cust, products := seedMemory(t)
	ctx := context.Background()

	order := models.Order{
		CustomerID:  cust.ID,
		Products:    products,
		TotalAmount: decimal.RequireFromString("1499.98"),
	}
	require.NoError(t, st.CreateOrder(ctx, &order))

	require.NoError(t, st.DeleteCustomer(ctx, cust.ID))

	_, err := st.CustomerByID(ctx, cust.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	orders, err := st.Orders(ctx, filter.OrderCriteria{}, nil)
	require.NoError(t, err)
	assert.Empty(t, orders, "orders go with their customer")

	// Products are shared, never cascaded.
	remaining, err := st.Products(ctx, filter.ProductCriteria{}, nil)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestMemoryOrdersResolveAssociations(t *testing.T) {
	st, cust, products := seedMemory(t)
	ctx := context.Background()

	order := models.Order{
		CustomerID:  cust.ID,
		Products:    products[:1],
		TotalAmount: products[0].Price,
	}
	require.NoError(t, st.CreateOrder(ctx, &order))

	orders, err := st.Orders(ctx, filter.OrderCriteria{CustomerName: "ali"}, nil)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "alice@example.com", orders[0].Customer.Email)
	require.Len(t, orders[0].Products, 1)
	assert.Equal(t, "Laptop", orders[0].Products[0].Name)
}

func TestMemoryInsertionOrderAndSorting(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	for _, name := range []string{"Zoe", "Adam", "Mia"} {
		c := models.Customer{Name: name, Email: name + "@example.com"}
		require.NoError(t, st.CreateCustomer(ctx, &c))
	}

	unordered, err := st.Customers(ctx, filter.CustomerCriteria{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, []uint{unordered[0].ID, unordered[1].ID, unordered[2].ID})

	sorted, err := st.Customers(ctx, filter.CustomerCriteria{}, []filter.SortKey{{Field: "name", Desc: true}})
	require.NoError(t, err)
	assert.Equal(t, "Zoe", sorted[0].Name)
	assert.Equal(t, "Mia", sorted[1].Name)
	assert.Equal(t, "Adam", sorted[2].Name)
}

func TestMemorySaveProduct(t *testing.T) {
	st, _, products := seedMemory(t)
	ctx := context.Background()

	p := products[0]
	p.Stock = 42
	require.NoError(t, st.SaveProduct(ctx, &p))

	got, err := st.ProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Stock)

	missing := models.Product{ID: 404, Name: "Ghost"}
	assert.ErrorIs(t, st.SaveProduct(ctx, &missing), ErrNotFound)
}
