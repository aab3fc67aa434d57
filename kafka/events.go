package kafka

import "time"

// ActivityEvent is published after every successful activity ledger write
type ActivityEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	UserID    uint      `json:"user_id"`
	ProductID uint      `json:"product_id"`
	Quantity  int       `json:"quantity,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeProductViewed       = "product.viewed"
	EventTypeCartItemAdded       = "cart.item_added"
	EventTypeCartItemUpdated     = "cart.item_updated"
	EventTypeCartItemRemoved     = "cart.item_removed"
	EventTypeWishlistItemAdded   = "wishlist.item_added"
	EventTypeWishlistItemRemoved = "wishlist.item_removed"
)

// EventTypes lists every activity event type
func EventTypes() []string {
	return []string{
		EventTypeProductViewed,
		EventTypeCartItemAdded,
		EventTypeCartItemUpdated,
		EventTypeCartItemRemoved,
		EventTypeWishlistItemAdded,
		EventTypeWishlistItemRemoved,
	}
}

// Kafka topics
const (
	TopicCatalogActivity = "catalog-activity"
)
