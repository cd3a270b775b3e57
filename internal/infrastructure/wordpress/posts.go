package wordpress

import (
	"context"
	"net/url"
	"strconv"

	"ClimbCoach/internal/domain"
	"ClimbCoach/internal/ports"
)

// ListPosts returns one page of posts carrying every category in q.CategoryIDs, in
// provider order. Failures yield domain.EmptyPage().
func (c *Client) ListPosts(ctx context.Context, q ports.PostQuery) domain.PostPage {
	ids := uniquePositive(q.CategoryIDs)
	if len(ids) == 0 {
		c.logError("list posts called without a category filter")
		return domain.EmptyPage()
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := clampPerPage(q.PerPage)

	query := url.Values{}
	if len(ids) == 1 {
		query.Set("categories", strconv.Itoa(ids[0]))
	} else {
		query.Set("categories[terms]", joinIDs(ids))
		query.Set("categories[operator]", "AND")
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))
	query.Set("_embed", embedFields)

	var posts []domain.Post
	header, err := c.fetchJSON(ctx, "posts", "posts", query, &posts)
	if err != nil {
		c.warn("list posts failed", "categories", joinIDs(ids), "page", page, "error", err)
		return domain.EmptyPage()
	}

	if posts == nil {
		posts = []domain.Post{}
	}
	if len(posts) > perPage {
		posts = posts[:perPage]
	}

	c.debug("posts fetched", "categories", joinIDs(ids), "page", page, "count", len(posts))
	return domain.PostPage{
		Posts:      posts,
		TotalPages: parseTotalPages(header),
	}
}

// PostBySlug returns the post with slug when it belongs to categoryID, else nil.
func (c *Client) PostBySlug(ctx context.Context, slug string, categoryID int) *domain.Post {
	if slug == "" || categoryID <= 0 {
		return nil
	}

	query := url.Values{}
	query.Set("slug", slug)
	query.Set("_embed", embedFields)

	var posts []domain.Post
	if _, err := c.fetchJSON(ctx, "posts", "posts", query, &posts); err != nil {
		c.warn("fetch post failed", "slug", slug, "error", err)
		return nil
	}

	for i := range posts {
		if posts[i].Slug != slug {
			continue
		}
		if !posts[i].InCategory(categoryID) {
			c.warn("post outside configured category", "slug", slug, "category", categoryID)
			return nil
		}
		post := posts[i]
		return &post
	}

	c.debug("post not found", "slug", slug)
	return nil
}
