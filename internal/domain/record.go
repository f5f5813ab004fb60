package domain

import "time"

// Record is a schema-less document stored in a named collection. The body
// holds the resource-specific fields; id and timestamps are store-assigned.
type Record struct {
	ID         string
	Collection string
	Body       map[string]any
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Flatten merges the body with the store-assigned fields into the shape the
// API serves. The body map is copied, never mutated.
func (r *Record) Flatten() map[string]any {
	out := make(map[string]any, len(r.Body)+3)
	for k, v := range r.Body {
		out[k] = v
	}
	out["id"] = r.ID
	out["createdAt"] = r.CreatedAt
	out["updatedAt"] = r.UpdatedAt
	return out
}
