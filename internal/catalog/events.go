package catalog

import (
	"context"
	"time"

	"ecofood/internal/models"
)

const (
	EventCreated = "product_created"
	EventUpdated = "product_updated"
	EventDeleted = "product_deleted"
)

// Event is published after a product write has been stored. Publishing is
// best effort and never undoes the write.
type Event struct {
	EventType string               `json:"event_type"`
	ProductID string               `json:"product_id"`
	OwnerID   string               `json:"owner_id"`
	Name      string               `json:"name,omitempty"`
	Status    models.ProductStatus `json:"status,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

func newEvent(eventType string, p models.Product, at time.Time) Event {
	return Event{
		EventType: eventType,
		ProductID: p.ID.Hex(),
		OwnerID:   p.OwnerID.Hex(),
		Name:      p.Name,
		Status:    p.Status,
		Timestamp: at.UTC(),
	}
}
