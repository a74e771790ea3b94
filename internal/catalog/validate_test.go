package catalog

import (
	"errors"
	"strings"
	"testing"

	"ecofood/internal/models"
)

func validInput() ProductInput {
	return ProductInput{
		Name:           "Pan Amasado",
		Description:    "fresh bread",
		Quantity:       10,
		Price:          1500,
		ProductionDate: models.NewDate(2024, 1, 1),
		ExpirationDate: models.NewDate(2024, 1, 20),
	}
}

func TestProductInputValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(in *ProductInput)
		wantField string
	}{
		{name: "valid"},
		{name: "free item", mutate: func(in *ProductInput) { in.Price = 0 }},
		{name: "same day dates", mutate: func(in *ProductInput) { in.ExpirationDate = in.ProductionDate }},
		{name: "max description", mutate: func(in *ProductInput) { in.Description = strings.Repeat("a", 200) }},
		{name: "name too short", mutate: func(in *ProductInput) { in.Name = "a" }, wantField: "name"},
		{name: "name too long", mutate: func(in *ProductInput) { in.Name = strings.Repeat("a", 41) }, wantField: "name"},
		{name: "description too long", mutate: func(in *ProductInput) { in.Description = strings.Repeat("a", 201) }, wantField: "description"},
		{name: "zero quantity", mutate: func(in *ProductInput) { in.Quantity = 0 }, wantField: "quantity"},
		{name: "quantity above bound", mutate: func(in *ProductInput) { in.Quantity = 10001 }, wantField: "quantity"},
		{name: "negative price", mutate: func(in *ProductInput) { in.Price = -1 }, wantField: "price"},
		{name: "price above bound", mutate: func(in *ProductInput) { in.Price = 1000000.01 }, wantField: "price"},
		{name: "missing production date", mutate: func(in *ProductInput) { in.ProductionDate = models.Date{} }, wantField: "productionDate"},
		{name: "missing expiration date", mutate: func(in *ProductInput) { in.ExpirationDate = models.Date{} }, wantField: "expirationDate"},
		{
			name: "production after expiration",
			mutate: func(in *ProductInput) {
				in.ProductionDate = models.NewDate(2024, 2, 1)
			},
			wantField: "productionDate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			if tt.mutate != nil {
				tt.mutate(&in)
			}
			in.Normalize()
			err := in.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want *ValidationError, got %v", err)
			}
			found := false
			for _, f := range verr.Fields {
				if f.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Fatalf("want violation on %q, got %+v", tt.wantField, verr.Fields)
			}
		})
	}
}

func TestProductInputNormalize(t *testing.T) {
	in := ProductInput{Name: "  Leche Entera ", Description: " 1L  "}
	in.Normalize()
	if in.Name != "leche entera" {
		t.Fatalf("want lowercased trimmed name, got %q", in.Name)
	}
	if in.Description != "1L" {
		t.Fatalf("want trimmed description, got %q", in.Description)
	}
}

func TestProductInputNameLengthCountsCharacters(t *testing.T) {
	in := validInput()
	in.Name = strings.Repeat("ñ", 40)
	if err := in.Validate(); err != nil {
		t.Fatalf("40 characters must be accepted, got %v", err)
	}
}
