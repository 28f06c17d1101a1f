// Package gql exposes the CRM over GraphQL: filterable, sortable,
// paginated collection queries and the validate-then-persist mutations.
// Resolvers are read-only for queries; all domain-rule violations travel
// in the payloads' errors lists, never as transport errors.
package gql

import (
	"github.com/graphql-go/graphql"

	"graphql-crm/internal/filter"
	"graphql-crm/internal/models"
	"graphql-crm/internal/service"
	"graphql-crm/internal/store"
)

// NewSchema builds the executable schema on top of the given service and
// store. The store is read through directly by the query resolvers; every
// write goes through the service.
func NewSchema(svc *service.Service, st store.Store) (graphql.Schema, error) {
	customerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Customer",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"phone":     &graphql.Field{Type: graphql.String},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"price": &graphql.Field{Type: graphql.NewNonNull(decimalType)},
			"stock": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	orderType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"customer":    &graphql.Field{Type: graphql.NewNonNull(customerType)},
			"products":    &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType)))},
			"totalAmount": &graphql.Field{Type: graphql.NewNonNull(decimalType)},
			"orderDate":   &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	customerFilterInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CustomerFilterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"nameIcontains":  &graphql.InputObjectFieldConfig{Type: graphql.String},
			"emailIcontains": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"createdAtGte":   &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
			"createdAtLte":   &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
			"phonePattern":   &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	productFilterInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ProductFilterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"nameIcontains": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"priceGte":      &graphql.InputObjectFieldConfig{Type: decimalType},
			"priceLte":      &graphql.InputObjectFieldConfig{Type: decimalType},
			"stockGte":      &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"stockLte":      &graphql.InputObjectFieldConfig{Type: graphql.Int},
		},
	})

	orderFilterInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "OrderFilterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"totalAmountGte": &graphql.InputObjectFieldConfig{Type: decimalType},
			"totalAmountLte": &graphql.InputObjectFieldConfig{Type: decimalType},
			"orderDateGte":   &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
			"orderDateLte":   &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
			"customerName":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"productName":    &graphql.InputObjectFieldConfig{Type: graphql.String},
			"productId":      &graphql.InputObjectFieldConfig{Type: graphql.ID},
		},
	})

	customerInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CustomerInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"email": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"phone": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	productInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ProductInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"price": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"stock": &graphql.InputObjectFieldConfig{Type: graphql.Int},
		},
	})

	orderInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "OrderInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"customerId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"productIds": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID)))},
		},
	})

	errorsField := graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))

	createCustomerPayload := graphql.NewObject(graphql.ObjectConfig{
		Name: "CreateCustomerPayload",
		Fields: graphql.Fields{
			"customer": &graphql.Field{Type: customerType},
			"message":  &graphql.Field{Type: graphql.String},
			"errors":   &graphql.Field{Type: errorsField},
		},
	})

	bulkCreateCustomersPayload := graphql.NewObject(graphql.ObjectConfig{
		Name: "BulkCreateCustomersPayload",
		Fields: graphql.Fields{
			"customers": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(customerType)))},
			"errors":    &graphql.Field{Type: errorsField},
		},
	})

	createProductPayload := graphql.NewObject(graphql.ObjectConfig{
		Name: "CreateProductPayload",
		Fields: graphql.Fields{
			"product": &graphql.Field{Type: productType},
			"errors":  &graphql.Field{Type: errorsField},
		},
	})

	createOrderPayload := graphql.NewObject(graphql.ObjectConfig{
		Name: "CreateOrderPayload",
		Fields: graphql.Fields{
			"order":  &graphql.Field{Type: orderType},
			"errors": &graphql.Field{Type: errorsField},
		},
	})

	updateLowStockPayload := graphql.NewObject(graphql.ObjectConfig{
		Name: "UpdateLowStockProductsPayload",
		Fields: graphql.Fields{
			"products": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType)))},
			"message":  &graphql.Field{Type: graphql.String},
			"errors":   &graphql.Field{Type: errorsField},
		},
	})

	collectionArgs := func(filterType *graphql.InputObject) graphql.FieldConfigArgument {
		return graphql.FieldConfigArgument{
			"filter":  &graphql.ArgumentConfig{Type: filterType},
			"orderBy": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
			"limit":   &graphql.ArgumentConfig{Type: graphql.Int},
			"offset":  &graphql.ArgumentConfig{Type: graphql.Int},
		}
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"hello": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return "Hello, GraphQL!", nil
				},
			},
			"customers": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(customerType))),
				Args: collectionArgs(customerFilterInput),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					keys, err := sortKeys(filter.CustomerOrderFields, p.Args)
					if err != nil {
						return nil, err
					}
					customers, err := st.Customers(p.Context, customerCriteria(p.Args), keys)
					if err != nil {
						return nil, err
					}
					return paginate(customers, p.Args), nil
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType))),
				Args: collectionArgs(productFilterInput),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					keys, err := sortKeys(filter.ProductOrderFields, p.Args)
					if err != nil {
						return nil, err
					}
					products, err := st.Products(p.Context, productCriteria(p.Args), keys)
					if err != nil {
						return nil, err
					}
					return paginate(products, p.Args), nil
				},
			},
			"orders": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(orderType))),
				Args: collectionArgs(orderFilterInput),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					crit, err := orderCriteria(p.Args)
					if err != nil {
						return nil, err
					}
					keys, err := sortKeys(filter.OrderOrderFields, p.Args)
					if err != nil {
						return nil, err
					}
					orders, err := st.Orders(p.Context, crit, keys)
					if err != nil {
						return nil, err
					}
					return paginate(orders, p.Args), nil
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createCustomer": &graphql.Field{
				Type: graphql.NewNonNull(createCustomerPayload),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(customerInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					input, _ := p.Args["input"].(map[string]interface{})
					res := svc.CreateCustomer(p.Context, customerInputFrom(input))
					return map[string]interface{}{
						"customer": res.Customer,
						"message":  res.Message,
						"errors":   stringsOrEmpty(res.Errors),
					}, nil
				},
			},
			"bulkCreateCustomers": &graphql.Field{
				Type: graphql.NewNonNull(bulkCreateCustomersPayload),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(customerInputType)))},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					raw, _ := p.Args["input"].([]interface{})
					ins := make([]service.CustomerInput, 0, len(raw))
					for _, v := range raw {
						if m, ok := v.(map[string]interface{}); ok {
							ins = append(ins, customerInputFrom(m))
						}
					}
					res := svc.BulkCreateCustomers(p.Context, ins)
					customers := res.Customers
					if customers == nil {
						customers = []models.Customer{}
					}
					return map[string]interface{}{
						"customers": customers,
						"errors":    stringsOrEmpty(res.Errors),
					}, nil
				},
			},
			"createProduct": &graphql.Field{
				Type: graphql.NewNonNull(createProductPayload),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(productInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					input, _ := p.Args["input"].(map[string]interface{})
					res := svc.CreateProduct(p.Context, productInputFrom(input))
					return map[string]interface{}{
						"product": res.Product,
						"errors":  stringsOrEmpty(res.Errors),
					}, nil
				},
			},
			"createOrder": &graphql.Field{
				Type: graphql.NewNonNull(createOrderPayload),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(orderInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					input, _ := p.Args["input"].(map[string]interface{})
					in, err := orderInputFrom(input)
					if err != nil {
						return map[string]interface{}{
							"order":  nil,
							"errors": []string{err.Error()},
						}, nil
					}
					res := svc.CreateOrder(p.Context, in)
					return map[string]interface{}{
						"order":  res.Order,
						"errors": stringsOrEmpty(res.Errors),
					}, nil
				},
			},
			"updateLowStockProducts": &graphql.Field{
				Type: graphql.NewNonNull(updateLowStockPayload),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					res := svc.UpdateLowStockProducts(p.Context)
					products := res.Products
					if products == nil {
						products = []models.Product{}
					}
					return map[string]interface{}{
						"products": products,
						"message":  res.Message,
						"errors":   stringsOrEmpty(res.Errors),
					}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}
