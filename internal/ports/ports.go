package ports

import (
	"context"
	"time"

	"ClimbCoach/internal/domain"
)

// PostQuery selects one page of posts. Every id in CategoryIDs must match.
type PostQuery struct {
	CategoryIDs []int
	Page        int
	PerPage     int
}

// CategoryQuery selects category records. Slug takes precedence over Include; when
// both are empty every category is listed.
type CategoryQuery struct {
	Slug    string
	Include []int
	PerPage int
}

// ContentProvider reads blog content. Implementations never return errors: failures are
// logged and surface as empty values so rendering can degrade instead of crash.
type ContentProvider interface {
	ResolveCategoryID(ctx context.Context, slug string) (int, bool)
	ListPosts(ctx context.Context, q PostQuery) domain.PostPage
	PostBySlug(ctx context.Context, slug string, categoryID int) *domain.Post
	ListCategories(ctx context.Context, q CategoryQuery) []domain.Category
	Media(ctx context.Context, id int) *domain.Media
	Author(ctx context.Context, id int) *domain.Author
}

// FormSubmitter delivers a form payload to the external submission endpoint.
type FormSubmitter interface {
	Submit(ctx context.Context, fields FormFields) error
}

// FormFields is an ordered set of submitted form fields.
type FormFields struct {
	FormName string
	Values   []FormValue
}

// FormValue is a single named field.
type FormValue struct {
	Name  string
	Value string
}

// Get returns the first value for name.
func (f FormFields) Get(name string) string {
	if name == "form_name" {
		return f.FormName
	}
	for _, v := range f.Values {
		if v.Name == name {
			return v.Value
		}
	}
	return ""
}

// LeadRepository persists submission attempts for follow-up.
type LeadRepository interface {
	SaveLead(ctx context.Context, lead domain.Lead) error
}

// LeadNotifier announces new leads to staff.
type LeadNotifier interface {
	NotifyLead(ctx context.Context, lead domain.Lead) error
}

// Scheduler drives recurring background jobs.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
