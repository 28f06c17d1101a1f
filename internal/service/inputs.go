package service

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Phone numbers: optional leading +, then digits and hyphens only.
var phoneRe = regexp.MustCompile(`^\+?\d[\d\-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("crmphone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	return v
}

// CustomerInput is the typed request for CreateCustomer and each entry of
// BulkCreateCustomers.
type CustomerInput struct {
	Name  string  `validate:"required"`
	Email string  `validate:"required,email"`
	Phone *string `validate:"omitempty,crmphone"`
}

func (in CustomerInput) validateMessages() []string {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"Invalid input"}
	}
	var msgs []string
	for _, fe := range verrs {
		switch fe.Field() {
		case "Name":
			msgs = append(msgs, "Name is required")
		case "Email":
			if fe.Tag() == "required" {
				msgs = append(msgs, "Email is required")
			} else {
				msgs = append(msgs, "Invalid email format")
			}
		case "Phone":
			msgs = append(msgs, "Invalid phone format")
		}
	}
	return msgs
}

// ProductInput is the typed request for CreateProduct. Price arrives as an
// approximate float from the transport layer and is converted to an exact
// decimal through its string form before validation.
type ProductInput struct {
	Name  string `validate:"required"`
	Price float64
	Stock *int
}

func (in ProductInput) validateMessages() []string {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"Invalid input"}
	}
	var msgs []string
	for _, fe := range verrs {
		if fe.Field() == "Name" {
			msgs = append(msgs, "Name is required")
		}
	}
	return msgs
}

// OrderInput is the typed request for CreateOrder.
type OrderInput struct {
	CustomerID uint
	ProductIDs []uint
}
