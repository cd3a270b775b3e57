// Package httpserver renders the site pages and form endpoints over echo.
package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ClimbCoach/internal/domain"
	"ClimbCoach/internal/logging"
	"ClimbCoach/internal/signup"
	"ClimbCoach/internal/usecase"
)

// BlogService is the content side of the site.
type BlogService interface {
	Listing(ctx context.Context, page int) usecase.Listing
	CategoryListing(ctx context.Context, slug string, page int) usecase.Listing
	Carousel(ctx context.Context) []usecase.Card
	Post(ctx context.Context, slug string) (usecase.PostView, bool)
	FilterCategories(ctx context.Context) []domain.Category
}

// FormService handles visitor submissions.
type FormService interface {
	Contact(ctx context.Context, in usecase.ContactInput) error
	Newsletter(ctx context.Context, s signup.State, firstName, lastName, phone string) (signup.State, error)
	Signup() *signup.Machine
}

// Deps wires the services behind the routes.
type Deps struct {
	Blog   BlogService
	Forms  FormService
	Logger *slog.Logger
}

type handlers struct {
	blog   BlogService
	forms  FormService
	logger *slog.Logger
}

// New builds the echo router with every route registered.
func New(deps Deps) (*echo.Echo, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	log := deps.Logger
	if log == nil {
		log = logging.Discard()
	}

	h := &handlers{blog: deps.Blog, forms: deps.Forms, logger: log}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = h.errorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/healthz" || c.Request().URL.Path == "/metrics"
		},
		LogStatus:  true,
		LogURI:     true,
		LogError:   true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
			}
			if v.Error != nil {
				log.Error("request failed", append(attrs, "error", v.Error.Error())...)
				return nil
			}
			log.Info("request completed", attrs...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))

	e.GET("/", h.home)
	e.GET("/about", h.static("about", "About"))
	e.GET("/method", h.static("method", "The Method"))
	e.GET("/pricing", h.static("pricing", "Pricing"))

	blog := e.Group("/blog", noStore)
	blog.GET("", h.blogIndex)
	blog.GET("/category/:slug", h.blogCategory)
	blog.GET("/:slug", h.blogPost)

	e.GET("/contact", h.contactForm)
	e.POST("/contact", h.contactSubmit)
	e.GET("/newsletter", h.newsletterForm)
	e.POST("/newsletter", h.newsletterSubmit)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e, nil
}

// noStore keeps browsers and proxies from caching content pages.
func noStore(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set("Cache-Control", "no-store, no-cache, must-revalidate")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")
		return next(c)
	}
}

type notFoundView struct {
	Title   string
	Message string
}

func (h *handlers) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	message := "Something went wrong."
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if code == http.StatusNotFound {
			message = "The page you are looking for does not exist."
		} else if m, ok := he.Message.(string); ok {
			message = m
		}
	}
	if code >= http.StatusInternalServerError {
		h.logger.Error("handler error", "path", c.Request().URL.Path, "error", err)
	}

	view := notFoundView{Title: http.StatusText(code), Message: message}
	if renderErr := c.Render(code, "notfound", view); renderErr != nil {
		_ = c.String(code, message)
	}
}
