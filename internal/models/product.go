package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductStatus string

const (
	StatusAvailable    ProductStatus = "available"
	StatusExpiringSoon ProductStatus = "expiringSoon"
	StatusExpired      ProductStatus = "expired"
)

// Product is a company's listed item. Status is a snapshot taken at the last
// write and is not refreshed as time passes.
type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID        primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Name           string             `bson:"name" json:"name"`
	Description    string             `bson:"description" json:"description"`
	Quantity       int                `bson:"quantity" json:"quantity"`
	Price          float64            `bson:"price" json:"price"`
	ProductionDate Date               `bson:"productionDate" json:"productionDate"`
	ExpirationDate Date               `bson:"expirationDate" json:"expirationDate"`
	Status         ProductStatus      `bson:"status" json:"status"`
	IsFree         bool               `bson:"-" json:"isFree"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
