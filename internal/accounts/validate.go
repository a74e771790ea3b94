package accounts

import (
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

// RegisterInput signs up a client or a company. Company sign-ups need a
// company name and a tax id; client sign-ups need a name.
type RegisterInput struct {
	Email       string      `json:"email" validate:"required,email,max=254"`
	Password    string      `json:"password" validate:"required,min=6,max=72"`
	Role        models.Role `json:"role" validate:"required,oneof=client company"`
	Name        string      `json:"name" validate:"required_if=Role client,max=80"`
	CompanyName string      `json:"companyName" validate:"required_if=Role company,max=80"`
	LegalName   string      `json:"legalName" validate:"max=120"`
	TaxID       string      `json:"taxId" validate:"required_if=Role company,max=20"`
	Address     string      `json:"address" validate:"max=160"`
	Commune     string      `json:"commune" validate:"max=80"`
	Phone       string      `json:"phone" validate:"max=20"`
}

func (in *RegisterInput) normalize() {
	in.Email = normalizeEmail(in.Email)
	in.Role = models.Role(strings.ToLower(strings.TrimSpace(string(in.Role))))
	in.Name = strings.TrimSpace(in.Name)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.LegalName = strings.TrimSpace(in.LegalName)
	in.TaxID = strings.TrimSpace(in.TaxID)
	in.Address = strings.TrimSpace(in.Address)
	in.Commune = strings.TrimSpace(in.Commune)
	in.Phone = strings.TrimSpace(in.Phone)
}

// AdminInput creates an admin account.
type AdminInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"required,max=80"`
}

type ProfileInput struct {
	Name        string `json:"name" validate:"max=80"`
	CompanyName string `json:"companyName" validate:"max=80"`
	LegalName   string `json:"legalName" validate:"max=120"`
	TaxID       string `json:"taxId" validate:"max=20"`
	Address     string `json:"address" validate:"max=160"`
	Commune     string `json:"commune" validate:"max=80"`
	Phone       string `json:"phone" validate:"max=20"`
}

func (in ProfileInput) profile() models.Profile {
	return models.Profile{
		Name:        strings.TrimSpace(in.Name),
		CompanyName: strings.TrimSpace(in.CompanyName),
		LegalName:   strings.TrimSpace(in.LegalName),
		TaxID:       strings.TrimSpace(in.TaxID),
		Address:     strings.TrimSpace(in.Address),
		Commune:     strings.TrimSpace(in.Commune),
		Phone:       strings.TrimSpace(in.Phone),
	}
}

type passwordInput struct {
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
