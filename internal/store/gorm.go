package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"graphql-crm/internal/filter"
	"graphql-crm/internal/models"
)

// gormStore persists the CRM entities in MySQL through gorm. Filter
// criteria are translated to SQL so the database does the narrowing; the
// semantics must stay in lockstep with the pure predicates in the filter
// package (LOWER/LIKE for the icontains options, inclusive bounds).
type gormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a gorm DB in the Store interface.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) CreateCustomer(ctx context.Context, c *models.Customer) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

func (s *gormStore) CustomerByID(ctx context.Context, id uint) (*models.Customer, error) {
	var c models.Customer
	err := s.db.WithContext(ctx).First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}
	return &c, nil
}

func (s *gormStore) CustomerEmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Customer{}).
		Where("email = ?", email).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("count customers by email: %w", err)
	}
	return n > 0, nil
}

func (s *gormStore) Customers(ctx context.Context, crit filter.CustomerCriteria, orderBy []filter.SortKey) ([]models.Customer, error) {
	q := s.db.WithContext(ctx).Model(&models.Customer{})
	if crit.NameIContains != "" {
		q = q.Where("LOWER(name) LIKE ?", likePattern(crit.NameIContains))
	}
	if crit.EmailIContains != "" {
		q = q.Where("LOWER(email) LIKE ?", likePattern(crit.EmailIContains))
	}
	if crit.CreatedAtGte != nil {
		q = q.Where("created_at >= ?", *crit.CreatedAtGte)
	}
	if crit.CreatedAtLte != nil {
		q = q.Where("created_at <= ?", *crit.CreatedAtLte)
	}
	if crit.PhonePattern != "" {
		q = q.Where("phone LIKE ?", escapeLike(crit.PhonePattern)+"%")
	}
	q = applyOrder(q, "customers", customerColumns, orderBy)

	var customers []models.Customer
	if err := q.Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

func (s *gormStore) DeleteCustomer(ctx context.Context, id uint) error {
	// Orders go with the customer via the FK's ON DELETE CASCADE.
	res := s.db.WithContext(ctx).Delete(&models.Customer{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete customer %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) CreateProduct(ctx context.Context, p *models.Product) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (s *gormStore) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &p, nil
}

func (s *gormStore) ProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list products by ids: %w", err)
	}
	return products, nil
}

func (s *gormStore) Products(ctx context.Context, crit filter.ProductCriteria, orderBy []filter.SortKey) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Model(&models.Product{})
	if crit.NameIContains != "" {
		q = q.Where("LOWER(name) LIKE ?", likePattern(crit.NameIContains))
	}
	if crit.PriceGte != nil {
		q = q.Where("price >= ?", *crit.PriceGte)
	}
	if crit.PriceLte != nil {
		q = q.Where("price <= ?", *crit.PriceLte)
	}
	if crit.StockGte != nil {
		q = q.Where("stock >= ?", *crit.StockGte)
	}
	if crit.StockLte != nil {
		q = q.Where("stock <= ?", *crit.StockLte)
	}
	q = applyOrder(q, "products", productColumns, orderBy)

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *gormStore) ProductsBelowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("stock < ?", threshold).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list low-stock products: %w", err)
	}
	return products, nil
}

func (s *gormStore) SaveProduct(ctx context.Context, p *models.Product) error {
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("save product %d: %w", p.ID, err)
	}
	return nil
}

func (s *gormStore) CreateOrder(ctx context.Context, o *models.Order) error {
	// gorm wraps the order insert and the order_products rows in one
	// transaction, so a crash cannot leave an order without products.
	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (s *gormStore) Orders(ctx context.Context, crit filter.OrderCriteria, orderBy []filter.SortKey) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Model(&models.Order{}).
		Preload("Customer").
		Preload("Products")
	if crit.TotalAmountGte != nil {
		q = q.Where("orders.total_amount >= ?", *crit.TotalAmountGte)
	}
	if crit.TotalAmountLte != nil {
		q = q.Where("orders.total_amount <= ?", *crit.TotalAmountLte)
	}
	if crit.OrderDateGte != nil {
		q = q.Where("orders.order_date >= ?", *crit.OrderDateGte)
	}
	if crit.OrderDateLte != nil {
		q = q.Where("orders.order_date <= ?", *crit.OrderDateLte)
	}
	if crit.CustomerName != "" {
		q = q.Joins("JOIN customers ON customers.id = orders.customer_id").
			Where("LOWER(customers.name) LIKE ?", likePattern(crit.CustomerName))
	}
	if crit.ProductName != "" || crit.ProductID != nil {
		q = q.Joins("JOIN order_products ON order_products.order_id = orders.id").
			Joins("JOIN products ON products.id = order_products.product_id").
			Distinct("orders.*")
		if crit.ProductName != "" {
			q = q.Where("LOWER(products.name) LIKE ?", likePattern(crit.ProductName))
		}
		if crit.ProductID != nil {
			q = q.Where("products.id = ?", *crit.ProductID)
		}
	}
	q = applyOrder(q, "orders", orderColumns, orderBy)

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Column names per orderBy field, per entity.
var (
	customerColumns = map[string]string{
		"name":      "name",
		"email":     "email",
		"createdAt": "created_at",
	}
	productColumns = map[string]string{
		"name":  "name",
		"price": "price",
		"stock": "stock",
	}
	orderColumns = map[string]string{
		"totalAmount": "total_amount",
		"orderDate":   "order_date",
		"id":          "id",
	}
)

func applyOrder(q *gorm.DB, table string, columns map[string]string, keys []filter.SortKey) *gorm.DB {
	if len(keys) == 0 {
		// Insertion order, same as the memory store.
		return q.Order(table + ".id")
	}
	for _, k := range keys {
		col, ok := columns[k.Field]
		if !ok {
			continue // ParseOrderBy already rejected unknown fields
		}
		q = q.Order(clause.OrderByColumn{
			Column: clause.Column{Table: table, Name: col},
			Desc:   k.Desc,
		})
	}
	return q
}

func likePattern(s string) string {
	return "%" + escapeLike(strings.ToLower(s)) + "%"
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return r.Replace(s)
}
