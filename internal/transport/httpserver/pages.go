package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"ClimbCoach/internal/domain"
	"ClimbCoach/internal/presentation"
	"ClimbCoach/internal/usecase"
)

type titled struct {
	Title string
}

type homeView struct {
	Title string
	Cards []usecase.Card
}

type blogView struct {
	Title      string
	Listing    usecase.Listing
	Category   *domain.Category
	ActiveSlug string
	Filters    []domain.Category
	Pager      presentation.Pager
}

type postView struct {
	Title string
	Post  usecase.PostView
	Share []presentation.ShareLink
}

func (h *handlers) home(c echo.Context) error {
	cards := h.blog.Carousel(c.Request().Context())
	return c.Render(http.StatusOK, "home", homeView{Title: "Home", Cards: cards})
}

func (h *handlers) static(name, title string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, name, titled{Title: title})
	}
}

func (h *handlers) blogIndex(c echo.Context) error {
	ctx := c.Request().Context()
	listing := h.blog.Listing(ctx, pageParam(c))
	view := blogView{
		Title:   "Blog",
		Listing: listing,
		Filters: h.blog.FilterCategories(ctx),
		Pager:   presentation.BuildPager("/blog", listing.Page, listing.TotalPages),
	}
	return c.Render(http.StatusOK, "blog", view)
}

func (h *handlers) blogCategory(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")
	listing := h.blog.CategoryListing(ctx, slug, pageParam(c))

	view := blogView{
		Title:      "Blog",
		Listing:    listing,
		Category:   listing.Category,
		ActiveSlug: slug,
		Filters:    h.blog.FilterCategories(ctx),
		Pager:      presentation.BuildPager("/blog/category/"+slug, listing.Page, listing.TotalPages),
	}
	if listing.Category != nil {
		view.Title = listing.Category.Name
	}
	return c.Render(http.StatusOK, "blog", view)
}

func (h *handlers) blogPost(c echo.Context) error {
	post, ok := h.blog.Post(c.Request().Context(), c.Param("slug"))
	if !ok {
		return c.Render(http.StatusNotFound, "notfound", notFoundView{
			Title:   "Post not found",
			Message: "We couldn't find that post.",
		})
	}

	pageURL := c.Scheme() + "://" + c.Request().Host + c.Request().URL.Path
	return c.Render(http.StatusOK, "post", postView{
		Title: post.Title,
		Post:  post,
		Share: presentation.ShareLinks(pageURL, post.Title),
	})
}

func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
