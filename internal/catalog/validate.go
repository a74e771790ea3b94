package catalog

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"ecofood/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var fieldMessages = map[string]string{
	"name":        "name must be between 2 and 40 characters",
	"description": "description must be at most 200 characters",
	"quantity":    "quantity must be greater than 0 and at most 10000",
	"price":       "price must be between 0 and 1000000",
}

// ProductInput is the caller-editable part of a product. Status and owner
// are never taken from input.
type ProductInput struct {
	Name           string      `json:"name" validate:"min=2,max=40"`
	Description    string      `json:"description" validate:"max=200"`
	Quantity       int         `json:"quantity" validate:"gt=0,lte=10000"`
	Price          float64     `json:"price" validate:"gte=0,lte=1000000"`
	ProductionDate models.Date `json:"productionDate"`
	ExpirationDate models.Date `json:"expirationDate"`
}

// Normalize trims free text and lowercases the name, which prefix search
// depends on.
func (in *ProductInput) Normalize() {
	in.Name = strings.ToLower(strings.TrimSpace(in.Name))
	in.Description = strings.TrimSpace(in.Description)
}

func (in ProductInput) Validate() error {
	verr := &ValidationError{}

	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			msg, ok := fieldMessages[fe.Field()]
			if !ok {
				msg = fe.Field() + " is invalid"
			}
			verr.add(fe.Field(), msg)
		}
	}

	if in.ProductionDate.IsZero() {
		verr.add("productionDate", "productionDate is required")
	}
	if in.ExpirationDate.IsZero() {
		verr.add("expirationDate", "expirationDate is required")
	}
	if !in.ProductionDate.IsZero() && !in.ExpirationDate.IsZero() &&
		in.ProductionDate.After(in.ExpirationDate.Time) {
		verr.add("productionDate", "productionDate cannot be after expirationDate")
	}

	return verr.orNil()
}
