package presentation

import "ClimbCoach/internal/domain"

// PlaceholderImage is served whenever no real image can be resolved.
const PlaceholderImage = "/placeholder-blog.jpg"

// FeaturedImageURL picks the embedded featured media at size, falling back to the
// unsized source and finally to PlaceholderImage.
func FeaturedImageURL(post domain.Post, size string) string {
	return MediaImageURL(embeddedMedia(post), size)
}

// MediaImageURL applies the same fallback chain to a separately fetched record.
func MediaImageURL(media *domain.Media, size string) string {
	if !media.Usable() {
		return PlaceholderImage
	}
	if u, ok := media.SizeURL(size); ok {
		return u
	}
	return media.SourceURL
}

// HasFeaturedImage reports whether the post embeds usable featured media.
func HasFeaturedImage(post domain.Post) bool {
	return embeddedMedia(post).Usable()
}

func embeddedMedia(post domain.Post) *domain.Media {
	if post.Embedded == nil {
		return nil
	}
	for i := range post.Embedded.FeaturedMedia {
		if post.Embedded.FeaturedMedia[i].Usable() {
			return &post.Embedded.FeaturedMedia[i]
		}
	}
	return nil
}
