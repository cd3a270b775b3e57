package wordpress

import (
	"context"
	"strconv"

	"ClimbCoach/internal/domain"
)

// Media fetches one attachment record; nil when absent or unreadable.
func (c *Client) Media(ctx context.Context, id int) *domain.Media {
	if id <= 0 {
		return nil
	}

	var media domain.Media
	if _, err := c.fetchJSON(ctx, "media", "media/"+strconv.Itoa(id), nil, &media); err != nil {
		c.warn("fetch media failed", "id", id, "error", err)
		return nil
	}
	if !media.Usable() {
		return nil
	}
	return &media
}

// Author fetches one public user profile; nil when absent or unreadable.
func (c *Client) Author(ctx context.Context, id int) *domain.Author {
	if id <= 0 {
		return nil
	}

	var author domain.Author
	if _, err := c.fetchJSON(ctx, "users", "users/"+strconv.Itoa(id), nil, &author); err != nil {
		c.warn("fetch author failed", "id", id, "error", err)
		return nil
	}
	if author.ID == 0 {
		return nil
	}
	return &author
}
