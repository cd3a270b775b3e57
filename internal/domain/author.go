package domain

// Author is the public profile of a post author.
type Author struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	URL         string            `json:"url"`
	Description string            `json:"description"`
	Link        string            `json:"link"`
	AvatarURLs  map[string]string `json:"avatar_urls,omitempty"`
}

// Avatar returns the avatar for the requested pixel size, else any available one.
func (a *Author) Avatar(size string) string {
	if a == nil || len(a.AvatarURLs) == 0 {
		return ""
	}
	if u, ok := a.AvatarURLs[size]; ok {
		return u
	}
	for _, key := range []string{"96", "48", "24"} {
		if u, ok := a.AvatarURLs[key]; ok {
			return u
		}
	}
	return ""
}
