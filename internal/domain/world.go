package domain

// World represents a bookmarked VRChat world owned by a single user.
//
// Name, Description and ImageURL are merged values: user input wins when
// present, then freshly fetched metadata, then whatever was stored before.
// Memo and Published are always user-supplied.
type World struct {
	Entity
	UserID        string `json:"user_id"`
	Name          string `json:"name"`
	URL           string `json:"url"`
	Description   string `json:"description,omitempty"`
	Memo          string `json:"memo,omitempty"`
	ImageURL      string `json:"image_url,omitempty"`
	ImageBlurhash string `json:"image_blurhash,omitempty"` // Compact placeholder for the image
	Published     bool   `json:"published"`
	Tags          []*Tag `json:"tags"`
}

// TagNames returns the names of the world's tags, in stored order.
func (w *World) TagNames() []string {
	names := make([]string, len(w.Tags))
	for i, t := range w.Tags {
		names[i] = t.Name
	}
	return names
}

// WorldMetadata holds fields fetched from the VRChat world API.
// It is a value object, never persisted directly.
type WorldMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// IsEmpty reports whether the fetch yielded nothing useful.
func (m WorldMetadata) IsEmpty() bool {
	return m.Name == "" && m.Description == "" && m.ImageURL == ""
}
