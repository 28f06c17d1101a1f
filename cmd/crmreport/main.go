// crmreport prints a one-shot summary of the CRM dataset: entity counts,
// total revenue, and the products currently below the restock threshold.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"graphql-crm/internal/config"
	"graphql-crm/internal/db"
	"graphql-crm/internal/filter"
	"graphql-crm/internal/store"
)

func main() {
	flag.Parse()

	cfg := config.Load()
	gdb, err := db.Open(cfg.DB)
	if err != nil {
		log.Fatalf("failed to connect to MySQL: %v", err)
	}

	ctx := context.Background()
	st := store.NewGormStore(gdb)

	customers, err := st.Customers(ctx, filter.CustomerCriteria{}, nil)
	if err != nil {
		log.Fatalf("failed to list customers: %v", err)
	}
	products, err := st.Products(ctx, filter.ProductCriteria{}, nil)
	if err != nil {
		log.Fatalf("failed to list products: %v", err)
	}
	orders, err := st.Orders(ctx, filter.OrderCriteria{}, nil)
	if err != nil {
		log.Fatalf("failed to list orders: %v", err)
	}

	revenue := decimal.Zero
	for _, o := range orders {
		revenue = revenue.Add(o.TotalAmount)
	}

	summary := tablewriter.NewTable(os.Stdout)
	summary.Header([]string{"Metric", "Value"})
	summary.Append([]string{"Customers", strconv.Itoa(len(customers))})
	summary.Append([]string{"Products", strconv.Itoa(len(products))})
	summary.Append([]string{"Orders", strconv.Itoa(len(orders))})
	summary.Append([]string{"Revenue", revenue.String()})
	if err := summary.Render(); err != nil {
		log.Fatalf("failed to render summary: %v", err)
	}

	low, err := st.ProductsBelowStock(ctx, cfg.LowStockThreshold)
	if err != nil {
		log.Fatalf("failed to list low-stock products: %v", err)
	}
	if len(low) == 0 {
		log.Printf("no products below the restock threshold (%d)", cfg.LowStockThreshold)
		return
	}

	lowTable := tablewriter.NewTable(os.Stdout)
	lowTable.Header([]string{"Low-stock product", "Price", "Stock"})
	for _, p := range low {
		lowTable.Append([]string{p.Name, p.Price.String(), strconv.Itoa(p.Stock)})
	}
	if err := lowTable.Render(); err != nil {
		log.Fatalf("failed to render low-stock table: %v", err)
	}
}
