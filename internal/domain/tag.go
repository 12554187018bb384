package domain

import "time"

// Tag represents a global tag for categorizing worlds.
// Tags are shared across all users; there is no ownership model.
// Name is the source of truth for identity (trimmed, unique); Slug is a
// derived URL-friendly form kept for clients.
type Tag struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`        // Derived form: lowercase, hyphenated
	WorldCount int       `json:"world_count"` // Denormalized count of worlds with this tag
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (t *Tag) Touch() {
	t.UpdatedAt = time.Now()
}

// WorldTag represents the many-to-many relationship between worlds and tags.
type WorldTag struct {
	WorldID   string    `json:"world_id"`
	TagID     string    `json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}
