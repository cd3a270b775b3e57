package presentation

import (
	"strconv"
	"strings"
)

const maxPagesShown = 5

// PageItem is one slot of a pagination bar: a page link or a gap.
type PageItem struct {
	Number  int
	URL     string
	Current bool
	Gap     bool
}

// Pager is a rendered pagination bar.
type Pager struct {
	Items   []PageItem
	PrevURL string
	NextURL string
}

// PageNumbers lays out page slots around current. Always shows the first and last page,
// a three-page window in between, and gaps where pages are skipped. Nothing is
// shown for a single page.
func PageNumbers(current, total int) []PageItem {
	if total <= 1 {
		return nil
	}
	current = max(1, min(current, total))

	var items []PageItem
	if total <= maxPagesShown {
		for i := 1; i <= total; i++ {
			items = append(items, PageItem{Number: i, Current: i == current})
		}
		return items
	}

	start := max(2, current-1)
	end := min(total-1, current+1)
	if current <= 3 {
		end = 4
	}
	if current >= total-2 {
		start = total - 3
	}

	items = append(items, PageItem{Number: 1, Current: current == 1})
	if start > 2 {
		items = append(items, PageItem{Gap: true})
	}
	for i := start; i <= end; i++ {
		items = append(items, PageItem{Number: i, Current: i == current})
	}
	if end < total-1 {
		items = append(items, PageItem{Gap: true})
	}
	items = append(items, PageItem{Number: total, Current: current == total})
	return items
}

// PageURL links to page under base; page 1 is base itself.
func PageURL(base string, page int) string {
	if page <= 1 {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "page=" + strconv.Itoa(page)
}

// BuildPager combines PageNumbers and PageURL with previous/next links.
func BuildPager(base string, current, total int) Pager {
	items := PageNumbers(current, total)
	if len(items) == 0 {
		return Pager{}
	}
	for i := range items {
		if !items[i].Gap {
			items[i].URL = PageURL(base, items[i].Number)
		}
	}
	p := Pager{Items: items}
	if current > 1 {
		p.PrevURL = PageURL(base, current-1)
	}
	if current < total {
		p.NextURL = PageURL(base, current+1)
	}
	return p
}
