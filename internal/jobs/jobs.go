// Package jobs contains the scheduled maintenance routines: a liveness
// heartbeat, the low-stock restock run, order reminders, the weekly
// summary report, and the inactive-customer cleanup. Most jobs execute a
// GraphQL operation against the schema in-process; the cleanup works
// through the store since deletion is not exposed as a mutation. Every
// job appends fixed-format lines to its own text log, so the outcome
// trail survives process restarts.
package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"graphql-crm/internal/filter"
	"graphql-crm/internal/store"
)

// Cron schedules, standard five-field expressions.
const (
	HeartbeatSchedule = "*/5 * * * *"
	RestockSchedule   = "0 */12 * * *"
	CleanupSchedule   = "0 2 * * 0"
	RemindersSchedule = "0 8 * * *"
	ReportSchedule    = "0 6 * * 1"
)

// DefaultInactiveDays is how long a customer may go without placing an
// order before the cleanup job removes them.
const DefaultInactiveDays = 365

// Job log file names, created under the configured log directory.
const (
	heartbeatLog = "crm_heartbeat_log.txt"
	lowStockLog  = "low_stock_updates_log.txt"
	cleanupLog   = "customer_cleanup_log.txt"
	remindersLog = "order_reminders_log.txt"
	reportLog    = "crm_report_log.txt"
)

// Runner executes the maintenance jobs against a GraphQL schema and a
// store.
type Runner struct {
	schema       graphql.Schema
	store        store.Store
	log          zerolog.Logger
	dir          string
	inactiveDays int
	now          func() time.Time
}

// NewRunner builds a Runner writing its job logs under dir. A
// non-positive inactiveDays falls back to the default.
func NewRunner(schema graphql.Schema, st store.Store, log zerolog.Logger, dir string, inactiveDays int) *Runner {
	if inactiveDays <= 0 {
		inactiveDays = DefaultInactiveDays
	}
	return &Runner{schema: schema, store: st, log: log, dir: dir, inactiveDays: inactiveDays, now: time.Now}
}

// Register adds all jobs to the cron scheduler.
func (r *Runner) Register(c *cron.Cron) error {
	entries := []struct {
		spec string
		fn   func()
	}{
		{HeartbeatSchedule, r.Heartbeat},
		{RestockSchedule, r.RestockLowStock},
		{CleanupSchedule, r.CleanupInactiveCustomers},
		{RemindersSchedule, r.SendOrderReminders},
		{ReportSchedule, r.GenerateWeeklyReport},
	}
	for _, e := range entries {
		if _, err := c.AddFunc(e.spec, e.fn); err != nil {
			return fmt.Errorf("register job %q: %w", e.spec, err)
		}
	}
	return nil
}

// Heartbeat appends a liveness line and verifies the schema still answers
// an introspection query.
func (r *Runner) Heartbeat() {
	ts := r.now().Format("02/01/2006-15:04:05")
	r.appendLine(heartbeatLog, ts+" CRM is alive")

	res := r.exec(`{ __schema { queryType { name } } }`, nil)
	if len(res.Errors) > 0 {
		r.log.Warn().Str("job", "heartbeat").Msgf("graphql endpoint check failed: %v", res.Errors)
		return
	}
	r.log.Debug().Str("job", "heartbeat").Msg("graphql endpoint is responsive")
}

// RestockLowStock runs the updateLowStockProducts mutation and logs every
// restocked product with its new stock level.
func (r *Runner) RestockLowStock() {
	const mutation = `mutation {
		updateLowStockProducts {
			products { name stock }
			message
			errors
		}
	}`

	ts := r.now().Format("2006-01-02 15:04:05")
	res := r.exec(mutation, nil)
	if len(res.Errors) > 0 {
		r.appendLine(lowStockLog, fmt.Sprintf("%s - Error: %v", ts, res.Errors))
		r.log.Error().Str("job", "low_stock").Msgf("mutation failed: %v", res.Errors)
		return
	}

	payload := dig(res.Data, "updateLowStockProducts")
	for _, e := range stringList(payload, "errors") {
		r.appendLine(lowStockLog, fmt.Sprintf("%s - Error: %s", ts, e))
	}
	for _, v := range list(payload, "products") {
		p, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		r.appendLine(lowStockLog, fmt.Sprintf("%s - Restocked %v to stock %v", ts, p["name"], p["stock"]))
	}
	if msg, ok := payload["message"].(string); ok && msg != "" {
		r.appendLine(lowStockLog, fmt.Sprintf("%s - %s", ts, msg))
	}
}

// CleanupInactiveCustomers deletes every customer without an order in
// the configured window and logs the count. Orders cascade with their
// customer.
func (r *Runner) CleanupInactiveCustomers() {
	ctx := context.Background()
	ts := r.now().Format("2006-01-02 15:04:05")
	cutoff := r.now().AddDate(0, 0, -r.inactiveDays)

	recent, err := r.store.Orders(ctx, filter.OrderCriteria{OrderDateGte: &cutoff}, nil)
	if err != nil {
		r.appendLine(cleanupLog, fmt.Sprintf("%s - Error: %v", ts, err))
		r.log.Error().Str("job", "customer_cleanup").Err(err).Msg("listing recent orders failed")
		return
	}
	active := make(map[uint]bool, len(recent))
	for _, o := range recent {
		active[o.CustomerID] = true
	}

	customers, err := r.store.Customers(ctx, filter.CustomerCriteria{}, nil)
	if err != nil {
		r.appendLine(cleanupLog, fmt.Sprintf("%s - Error: %v", ts, err))
		r.log.Error().Str("job", "customer_cleanup").Err(err).Msg("listing customers failed")
		return
	}

	deleted := 0
	for _, c := range customers {
		if active[c.ID] {
			continue
		}
		if err := r.store.DeleteCustomer(ctx, c.ID); err != nil {
			r.log.Error().Str("job", "customer_cleanup").Uint("customer", c.ID).Err(err).Msg("delete failed")
			continue
		}
		deleted++
	}
	r.appendLine(cleanupLog, fmt.Sprintf("%s - Deleted %d inactive customers", ts, deleted))
	r.log.Info().Str("job", "customer_cleanup").Int("deleted", deleted).Msg("Customer cleanup processed!")
}

// SendOrderReminders logs a reminder line for every order placed within
// the last seven days.
func (r *Runner) SendOrderReminders() {
	const query = `query ($since: DateTime!) {
		orders(filter: {orderDateGte: $since}) {
			id
			orderDate
			customer { email }
		}
	}`

	since := r.now().AddDate(0, 0, -7)
	res := r.exec(query, map[string]interface{}{"since": since.Format(time.RFC3339)})
	ts := r.now().Format("2006-01-02 15:04:05")
	if len(res.Errors) > 0 {
		r.appendLine(remindersLog, fmt.Sprintf("%s - Error: %v", ts, res.Errors))
		r.log.Error().Str("job", "order_reminders").Msgf("query failed: %v", res.Errors)
		return
	}

	orders := list(res.Data, "orders")
	for _, v := range orders {
		o, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		email := ""
		if c, ok := o["customer"].(map[string]interface{}); ok {
			email, _ = c["email"].(string)
		}
		r.appendLine(remindersLog, fmt.Sprintf("%s - Reminder for order %v (customer: %s)", ts, o["id"], email))
	}
	r.log.Info().Str("job", "order_reminders").Int("orders", len(orders)).Msg("Order reminders processed!")
}

// GenerateWeeklyReport appends a summary line with the customer count,
// order count, and total revenue.
func (r *Runner) GenerateWeeklyReport() {
	const query = `{
		customers { id }
		orders { id totalAmount }
	}`

	ts := r.now().Format("2006-01-02 15:04:05")
	res := r.exec(query, nil)
	if len(res.Errors) > 0 {
		r.appendLine(reportLog, fmt.Sprintf("%s - Error generating report: %v", ts, res.Errors))
		r.log.Error().Str("job", "weekly_report").Msgf("query failed: %v", res.Errors)
		return
	}

	customers := list(res.Data, "customers")
	orders := list(res.Data, "orders")
	revenue := decimal.Zero
	for _, v := range orders {
		o, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		if s, ok := o["totalAmount"].(string); ok {
			if d, err := decimal.NewFromString(s); err == nil {
				revenue = revenue.Add(d)
			}
		}
	}

	line := fmt.Sprintf("%s - Report: %d customers, %d orders, %s revenue",
		ts, len(customers), len(orders), revenue.String())
	r.appendLine(reportLog, line)
	r.log.Info().Str("job", "weekly_report").Msg(line)
}

func (r *Runner) exec(request string, vars map[string]interface{}) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         r.schema,
		RequestString:  request,
		VariableValues: vars,
		Context:        context.Background(),
	})
}

func (r *Runner) appendLine(file, line string) {
	path := filepath.Join(r.dir, file)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		r.log.Error().Err(err).Str("file", path).Msg("open job log")
		return
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		r.log.Error().Err(err).Str("file", path).Msg("write job log")
	}
}

func dig(data interface{}, key string) map[string]interface{} {
	m, ok := data.(map[string]interface{})
	if !ok {
		return nil
	}
	inner, _ := m[key].(map[string]interface{})
	return inner
}

func list(data interface{}, key string) []interface{} {
	m, ok := data.(map[string]interface{})
	if !ok {
		return nil
	}
	l, _ := m[key].([]interface{})
	return l
}

func stringList(m map[string]interface{}, key string) []string {
	raw, _ := m[key].([]interface{})
	var out []string
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
