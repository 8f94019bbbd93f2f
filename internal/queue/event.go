// Package queue defines message payloads exchanged over the message broker.
package queue

// Item event types.
const (
	ItemCreated = "item.created"
	ItemUpdated = "item.updated"
	ItemDeleted = "item.deleted"
)

// ItemEvent is published after an item mutation has been committed. It
// carries the item's state after the change; for deletions only ItemID is
// set.
type ItemEvent struct {
	Type        string `json:"type"`
	ItemID      int64  `json:"item_id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}
