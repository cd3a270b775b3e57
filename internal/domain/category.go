package domain

// Category is a taxonomy term attached to posts.
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Count       int    `json:"count"`
	Parent      int    `json:"parent"`
	Taxonomy    string `json:"taxonomy,omitempty"`
}
