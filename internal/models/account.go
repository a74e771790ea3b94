package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleClient  Role = "client"
	RoleCompany Role = "company"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// Account is a signed-up client, company or admin. Company-only and
// client-only profile fields are left empty for the other roles.
type Account struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email         string             `bson:"email" json:"email"`
	PasswordHash  string             `bson:"passwordHash" json:"-"`
	Role          Role               `bson:"role" json:"role"`
	EmailVerified bool               `bson:"emailVerified" json:"emailVerified"`
	Principal     bool               `bson:"principal,omitempty" json:"principal,omitempty"`

	Name        string `bson:"name,omitempty" json:"name,omitempty"`
	CompanyName string `bson:"companyName,omitempty" json:"companyName,omitempty"`
	LegalName   string `bson:"legalName,omitempty" json:"legalName,omitempty"`
	TaxID       string `bson:"taxId,omitempty" json:"taxId,omitempty"`
	Address     string `bson:"address,omitempty" json:"address,omitempty"`
	Commune     string `bson:"commune,omitempty" json:"commune,omitempty"`
	Phone       string `bson:"phone,omitempty" json:"phone,omitempty"`

	VerifyTokenHash string     `bson:"verifyTokenHash,omitempty" json:"-"`
	VerifyExpiresAt *time.Time `bson:"verifyExpiresAt,omitempty" json:"-"`
	ResetTokenHash  string     `bson:"resetTokenHash,omitempty" json:"-"`
	ResetExpiresAt  *time.Time `bson:"resetExpiresAt,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Profile holds the editable, non-credential fields of an Account.
type Profile struct {
	Name        string `bson:"name" json:"name"`
	CompanyName string `bson:"companyName" json:"companyName"`
	LegalName   string `bson:"legalName" json:"legalName"`
	TaxID       string `bson:"taxId" json:"taxId"`
	Address     string `bson:"address" json:"address"`
	Commune     string `bson:"commune" json:"commune"`
	Phone       string `bson:"phone" json:"phone"`
}
