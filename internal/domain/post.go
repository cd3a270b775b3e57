package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Rendered wraps provider fields delivered as {"rendered": "<html>"}.
type Rendered struct {
	Rendered string `json:"rendered"`
}

// Post is a single content item as served by the content provider.
type Post struct {
	ID            int       `json:"id"`
	Slug          string    `json:"slug"`
	Link          string    `json:"link"`
	Date          Timestamp `json:"date"`
	Modified      Timestamp `json:"modified"`
	Title         Rendered  `json:"title"`
	Content       Rendered  `json:"content"`
	Excerpt       Rendered  `json:"excerpt"`
	Author        int       `json:"author"`
	FeaturedMedia int       `json:"featured_media"`
	Categories    []int     `json:"categories"`
	Tags          []int     `json:"tags"`
	Embedded      *Embedded `json:"_embedded,omitempty"`
}

// Embedded holds resources inlined by the provider when _embed was requested.
type Embedded struct {
	Author        []Author     `json:"author,omitempty"`
	FeaturedMedia []Media      `json:"wp:featuredmedia,omitempty"`
	Terms         [][]Category `json:"wp:term,omitempty"`
}

// InCategory reports whether the post is tagged with the given category id.
func (p Post) InCategory(id int) bool {
	for _, c := range p.Categories {
		if c == id {
			return true
		}
	}
	return false
}

// PostPage is one page of posts plus provider pagination metadata.
// Failed is set when the page could not be loaded; TotalPages is then 0.
type PostPage struct {
	Posts      []Post
	TotalPages int
	Failed     bool
}

// EmptyPage is returned for any failed fetch.
func EmptyPage() PostPage {
	return PostPage{Posts: []Post{}, TotalPages: 0, Failed: true}
}

var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp decodes provider dates. Values that do not parse become the zero time.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON accepts the provider's zone-less format and RFC3339.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Time = time.Time{}
		return nil
	}

	t.Time, _ = ParseTimestamp(raw)
	return nil
}

// MarshalJSON writes the provider layout back out.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(timestampLayouts[0]))
}

// ParseTimestamp tries every known provider layout. Zone-less values keep their wall clock.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
