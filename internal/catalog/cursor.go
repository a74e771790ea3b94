package catalog

import (
	"encoding/base64"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecofood/internal/models"
)

// Position is the last record of a page under a given sort. Ties on the
// sort value are broken by id, so every position is unique.
type Position struct {
	Field SortField          `bson:"f"`
	Name  string             `bson:"n"`
	Price float64            `bson:"p"`
	ID    primitive.ObjectID `bson:"i"`
}

func PositionOf(p models.Product, field SortField) Position {
	return Position{Field: field, Name: p.Name, Price: p.Price, ID: p.ID}
}

// Value is the sort key the position was taken at.
func (p Position) Value() interface{} {
	if p.Field == SortByPrice {
		return p.Price
	}
	return p.Name
}

// EncodeCursor renders a position as an opaque URL-safe token.
func EncodeCursor(pos Position) (string, error) {
	raw, err := bson.Marshal(pos)
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func DecodeCursor(token string) (Position, error) {
	invalid := &ValidationError{}
	invalid.add("cursor", "cursor is invalid")

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Position{}, invalid
	}
	var pos Position
	if err := bson.Unmarshal(raw, &pos); err != nil {
		return Position{}, invalid
	}
	if pos.ID.IsZero() || (pos.Field != SortByName && pos.Field != SortByPrice) {
		return Position{}, invalid
	}
	return pos, nil
}
