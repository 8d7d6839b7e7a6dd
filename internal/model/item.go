package model

// Item is a todo entry as held by the backend collection.
// ID is assigned by the server; it stays empty for entries the client
// appended before the backend told us their identifier.
type Item struct {
	ID          string `json:"_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Persisted reports whether the backend has acknowledged the item.
func (i Item) Persisted() bool { return i.ID != "" }
