package model

// Item is the sole persisted entity and corresponds to a row in the
// `items` table. ID is assigned by the store on insert and never changes;
// Name and Description are never null.
type Item struct {
	ID          int64  // items.id
	Name        string // items.name (indexed)
	Description string // items.description
}
