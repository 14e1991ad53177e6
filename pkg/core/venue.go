package core

// Venue is a seating layout's identity: a name plus an optional
// background image the canvas letterboxes against.
type Venue struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}
