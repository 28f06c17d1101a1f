package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphql-crm/internal/filter"
	"graphql-crm/internal/gql"
	"graphql-crm/internal/models"
	"graphql-crm/internal/service"
	"graphql-crm/internal/store"
)

func newRunner(t *testing.T) (*Runner, *service.Service, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	svc := service.New(st, service.Config{})
	schema, err := gql.NewSchema(svc, st)
	require.NoError(t, err)

	r := NewRunner(schema, st, zerolog.Nop(), t.TempDir(), 0)
	r.now = func() time.Time {
		return time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)
	}
	return r, svc, st
}

func readLog(t *testing.T, r *Runner, file string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(r.dir, file))
	require.NoError(t, err)
	return string(b)
}

func intptr(n int) *int { return &n }

func TestRegisterSchedules(t *testing.T) {
	r, _, _ := newRunner(t)
	c := cron.New()
	require.NoError(t, r.Register(c))
	assert.Len(t, c.Entries(), 5)
}

func TestHeartbeat(t *testing.T) {
	r, _, _ := newRunner(t)

	r.Heartbeat()
	r.Heartbeat()

	content := readLog(t, r, heartbeatLog)
	assert.Equal(t, "28/08/2026-09:30:00 CRM is alive\n28/08/2026-09:30:00 CRM is alive\n", content)
}

func TestRestockLowStock(t *testing.T) {
	r, svc, _ := newRunner(t)
	ctx := context.Background()
	require.Empty(t, svc.CreateProduct(ctx, service.ProductInput{Name: "Low", Price: 1.00, Stock: intptr(3)}).Errors)
	require.Empty(t, svc.CreateProduct(ctx, service.ProductInput{Name: "Fine", Price: 1.00, Stock: intptr(20)}).Errors)

	r.RestockLowStock()

	content := readLog(t, r, lowStockLog)
	assert.Contains(t, content, "Restocked Low to stock 13")
	assert.NotContains(t, content, "Fine")
	assert.Contains(t, content, "Restocked 1 products")
}

func TestRestockLowStockEmpty(t *testing.T) {
	r, _, _ := newRunner(t)

	r.RestockLowStock()

	content := readLog(t, r, lowStockLog)
	assert.Contains(t, content, "No low-stock products found")
}

func TestCleanupInactiveCustomers(t *testing.T) {
	r, svc, st := newRunner(t)
	ctx := context.Background()

	require.Empty(t, svc.CreateCustomer(ctx, service.CustomerInput{Name: "Alice", Email: "alice@example.com"}).Errors)
	require.Empty(t, svc.CreateCustomer(ctx, service.CustomerInput{Name: "Bob", Email: "bob@example.com"}).Errors)
	require.Empty(t, svc.CreateCustomer(ctx, service.CustomerInput{Name: "Carol", Email: "carol@example.com"}).Errors)
	require.Empty(t, svc.CreateProduct(ctx, service.ProductInput{Name: "Laptop", Price: 999.99}).Errors)

	// Alice ordered inside the 365-day window, Bob well outside it,
	// Carol never at all.
	fresh := models.Order{
		CustomerID:  1,
		Products:    []models.Product{{ID: 1}},
		TotalAmount: decimal.RequireFromString("999.99"),
		OrderDate:   r.now().AddDate(0, 0, -30),
	}
	require.NoError(t, st.CreateOrder(ctx, &fresh))
	ancient := models.Order{
		CustomerID:  2,
		Products:    []models.Product{{ID: 1}},
		TotalAmount: decimal.RequireFromString("999.99"),
		OrderDate:   r.now().AddDate(-2, 0, 0),
	}
	require.NoError(t, st.CreateOrder(ctx, &ancient))

	r.CleanupInactiveCustomers()

	content := readLog(t, r, cleanupLog)
	assert.Contains(t, content, "2026-08-28 09:30:00 - Deleted 2 inactive customers")

	remaining, err := st.Customers(ctx, filter.CustomerCriteria{}, nil)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "alice@example.com", remaining[0].Email)

	// Bob's stale order cascades with him.
	orders, err := st.Orders(ctx, filter.OrderCriteria{}, nil)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestCleanupInactiveCustomersNoneInactive(t *testing.T) {
	r, svc, st := newRunner(t)
	ctx := context.Background()

	require.Empty(t, svc.CreateCustomer(ctx, service.CustomerInput{Name: "Alice", Email: "alice@example.com"}).Errors)
	require.Empty(t, svc.CreateProduct(ctx, service.ProductInput{Name: "Laptop", Price: 999.99}).Errors)
	require.Empty(t, svc.CreateOrder(ctx, service.OrderInput{CustomerID: 1, ProductIDs: []uint{1}}).Errors)

	r.CleanupInactiveCustomers()

	content := readLog(t, r, cleanupLog)
	assert.Contains(t, content, "Deleted 0 inactive customers")

	remaining, err := st.Customers(ctx, filter.CustomerCriteria{}, nil)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestSendOrderReminders(t *testing.T) {
	r, svc, st := newRunner(t)
	ctx := context.Background()

	require.Empty(t, svc.CreateCustomer(ctx, service.CustomerInput{Name: "Alice", Email: "alice@example.com"}).Errors)
	require.Empty(t, svc.CreateProduct(ctx, service.ProductInput{Name: "Laptop", Price: 999.99}).Errors)

	// One order inside the 7-day window, one well outside it.
	recent := models.Order{
		CustomerID:  1,
		Products:    []models.Product{{ID: 1}},
		TotalAmount: decimal.RequireFromString("999.99"),
		OrderDate:   r.now().AddDate(0, 0, -2),
	}
	require.NoError(t, st.CreateOrder(ctx, &recent))
	stale := models.Order{
		CustomerID:  1,
		Products:    []models.Product{{ID: 1}},
		TotalAmount: decimal.RequireFromString("999.99"),
		OrderDate:   r.now().AddDate(0, 0, -30),
	}
	require.NoError(t, st.CreateOrder(ctx, &stale))

	r.SendOrderReminders()

	content := readLog(t, r, remindersLog)
	assert.Contains(t, content, "Reminder for order 1 (customer: alice@example.com)")
	assert.NotContains(t, content, "order 2")
}

func TestGenerateWeeklyReport(t *testing.T) {
	r, svc, _ := newRunner(t)
	ctx := context.Background()

	require.Empty(t, svc.CreateCustomer(ctx, service.CustomerInput{Name: "Alice", Email: "alice@example.com"}).Errors)
	require.Empty(t, svc.CreateCustomer(ctx, service.CustomerInput{Name: "Bob", Email: "bob@example.com"}).Errors)
	require.Empty(t, svc.CreateProduct(ctx, service.ProductInput{Name: "Laptop", Price: 999.99}).Errors)
	require.Empty(t, svc.CreateProduct(ctx, service.ProductInput{Name: "Phone", Price: 499.99}).Errors)
	require.Empty(t, svc.CreateOrder(ctx, service.OrderInput{CustomerID: 1, ProductIDs: []uint{1, 2}}).Errors)

	r.GenerateWeeklyReport()

	content := readLog(t, r, reportLog)
	assert.Contains(t, content, "2026-08-28 09:30:00 - Report: 2 customers, 1 orders, 1499.98 revenue")
}

func TestGenerateWeeklyReportEmpty(t *testing.T) {
	r, _, _ := newRunner(t)

	r.GenerateWeeklyReport()

	content := readLog(t, r, reportLog)
	assert.Contains(t, content, "Report: 0 customers, 0 orders, 0 revenue")
}

// The jobs must not write a heartbeat line when the log directory is not
// writable; they log the failure instead of crashing the scheduler.
func TestAppendLineBadDir(t *testing.T) {
	st := store.NewMemoryStore()
	svc := service.New(st, service.Config{})
	schema, err := gql.NewSchema(svc, st)
	require.NoError(t, err)

	r := NewRunner(schema, st, zerolog.Nop(), "/nonexistent/dir", 0)
	assert.NotPanics(t, func() { r.Heartbeat() })
}
