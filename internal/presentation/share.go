package presentation

import "net/url"

// ShareLink is a social sharing target for a post.
type ShareLink struct {
	Network string
	URL     string
}

// ShareLinks builds Facebook, Twitter and LinkedIn share URLs for pageURL.
func ShareLinks(pageURL, title string) []ShareLink {
	u := url.QueryEscape(pageURL)
	t := url.QueryEscape(title)
	return []ShareLink{
		{Network: "Facebook", URL: "https://www.facebook.com/sharer/sharer.php?u=" + u},
		{Network: "Twitter", URL: "https://twitter.com/intent/tweet?url=" + u + "&text=" + t},
		{Network: "LinkedIn", URL: "https://www.linkedin.com/shareArticle?mini=true&url=" + u + "&title=" + t},
	}
}
