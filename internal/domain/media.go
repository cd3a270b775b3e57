package domain

// MediaSize is one rendition of an uploaded image.
type MediaSize struct {
	SourceURL string `json:"source_url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// MediaDetails carries the original dimensions and the generated renditions.
// Sizes may not contain every key.
type MediaDetails struct {
	Width  int                  `json:"width"`
	Height int                  `json:"height"`
	Sizes  map[string]MediaSize `json:"sizes"`
}

// Media is an attachment record, usually the featured image of a post.
type Media struct {
	ID        int          `json:"id"`
	SourceURL string       `json:"source_url"`
	AltText   string       `json:"alt_text"`
	Details   MediaDetails `json:"media_details"`
}

// Usable reports whether the record points at an image. The provider embeds an
// error object in place of media the caller may not read.
func (m *Media) Usable() bool {
	return m != nil && m.SourceURL != ""
}

// SizeURL returns the URL of a named rendition, if present.
func (m *Media) SizeURL(size string) (string, bool) {
	if m == nil || m.Details.Sizes == nil {
		return "", false
	}
	s, ok := m.Details.Sizes[size]
	if !ok || s.SourceURL == "" {
		return "", false
	}
	return s.SourceURL, true
}
