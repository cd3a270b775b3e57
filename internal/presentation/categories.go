package presentation

import (
	"sort"
	"strings"

	"ClimbCoach/internal/domain"
)

// Exclusion identifies the internal routing category hidden from readers.
type Exclusion struct {
	ID   int
	Slug string
}

func (e Exclusion) matches(c domain.Category) bool {
	return (e.ID > 0 && c.ID == e.ID) || (e.Slug != "" && c.Slug == e.Slug)
}

// VisibleCategories resolves ids against known in order, dropping unknown ids,
// duplicates, and the hidden category.
func VisibleCategories(ids []int, known []domain.Category, hidden Exclusion) []domain.Category {
	index := make(map[int]domain.Category, len(known))
	for _, c := range known {
		index[c.ID] = c
	}

	out := make([]domain.Category, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if hidden.ID > 0 && id == hidden.ID {
			continue
		}
		c, ok := index[id]
		if !ok || hidden.matches(c) {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, c)
	}
	return out
}

// EmbeddedCategories returns the category terms inlined with the post.
func EmbeddedCategories(post domain.Post) []domain.Category {
	if post.Embedded == nil {
		return nil
	}
	for _, group := range post.Embedded.Terms {
		if len(group) == 0 {
			continue
		}
		if group[0].Taxonomy == "" || group[0].Taxonomy == "category" {
			return group
		}
	}
	return nil
}

// EmbeddedAuthor returns the author inlined with the post, if any.
func EmbeddedAuthor(post domain.Post) *domain.Author {
	if post.Embedded == nil {
		return nil
	}
	for i := range post.Embedded.Author {
		if post.Embedded.Author[i].ID > 0 && post.Embedded.Author[i].Name != "" {
			return &post.Embedded.Author[i]
		}
	}
	return nil
}

// WithoutHidden filters a category list for display.
func WithoutHidden(categories []domain.Category, hidden Exclusion) []domain.Category {
	out := make([]domain.Category, 0, len(categories))
	for _, c := range categories {
		if !hidden.matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// SortCategoriesByName orders categories alphabetically, case-insensitively.
func SortCategoriesByName(categories []domain.Category) []domain.Category {
	sorted := append([]domain.Category(nil), categories...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})
	return sorted
}
