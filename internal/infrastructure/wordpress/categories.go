package wordpress

import (
	"context"
	"net/url"
	"strconv"

	"ClimbCoach/internal/domain"
	"ClimbCoach/internal/metrics"
	"ClimbCoach/internal/ports"
)

// ResolveCategoryID looks up the provider id behind slug. A missing slug is a
// deployment misconfiguration and is logged as such; either way the caller gets false.
func (c *Client) ResolveCategoryID(ctx context.Context, slug string) (int, bool) {
	if slug == "" {
		c.logError("category slug is empty")
		return 0, false
	}

	var categories []domain.Category
	query := url.Values{}
	query.Set("slug", slug)

	if _, err := c.fetchJSON(ctx, "categories", "categories", query, &categories); err != nil {
		c.warn("resolve category failed", "slug", slug, "error", err)
		return 0, false
	}

	for _, cat := range categories {
		if cat.Slug == slug && cat.ID > 0 {
			metrics.RecordCategoryResolution(true)
			return cat.ID, true
		}
	}

	metrics.RecordCategoryResolution(false)
	c.logError("category not found on content provider", "slug", slug, "matches", len(categories))
	return 0, false
}

// ListCategories fetches category records by slug or id, or every category when the
// query is empty. Unlike ResolveCategoryID a missing slug here is not a misconfiguration.
func (c *Client) ListCategories(ctx context.Context, q ports.CategoryQuery) []domain.Category {
	if q.Slug != "" {
		query := url.Values{}
		query.Set("slug", q.Slug)
		return c.fetchCategories(ctx, query)
	}
	if len(q.Include) == 0 {
		query := url.Values{}
		query.Set("per_page", strconv.Itoa(clampPerPage(orDefault(q.PerPage, maxPerPage))))
		return c.fetchCategories(ctx, query)
	}

	ids := uniquePositive(q.Include)
	result := make([]domain.Category, 0, len(ids))
	for start := 0; start < len(ids); start += maxPerPage {
		end := min(start+maxPerPage, len(ids))
		chunk := ids[start:end]

		query := url.Values{}
		query.Set("include", joinIDs(chunk))
		query.Set("per_page", strconv.Itoa(len(chunk)))
		result = append(result, c.fetchCategories(ctx, query)...)
	}
	return result
}

func (c *Client) fetchCategories(ctx context.Context, query url.Values) []domain.Category {
	var categories []domain.Category
	if _, err := c.fetchJSON(ctx, "categories", "categories", query, &categories); err != nil {
		c.warn("list categories failed", "query", query.Encode(), "error", err)
		return []domain.Category{}
	}
	if categories == nil {
		return []domain.Category{}
	}
	return categories
}

func uniquePositive(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
