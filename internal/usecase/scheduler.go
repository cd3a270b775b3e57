package usecase

import (
	"context"
	"log/slog"
	"time"

	"ClimbCoach/internal/logging"
	"ClimbCoach/internal/ports"
)

// probeTimeout bounds one background category check.
const probeTimeout = 15 * time.Second

// CategoryProbe periodically re-resolves the internal category so a missing slug is
// reported (log and gauge) even while no visitor is browsing the blog.
type CategoryProbe struct {
	driver ports.Scheduler
	blog   *Blog
	logger *slog.Logger
}

// NewCategoryProbe wires the scheduler driver with the blog service.
func NewCategoryProbe(driver ports.Scheduler, blog *Blog, log *slog.Logger) *CategoryProbe {
	if log == nil {
		log = logging.Discard()
	}
	return &CategoryProbe{driver: driver, blog: blog, logger: log}
}

// Start registers the probe with the scheduler.
func (p *CategoryProbe) Start(ctx context.Context) error {
	if p.driver == nil || p.blog == nil {
		return nil
	}

	job := func(time.Time) {
		checkCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		if !p.blog.CheckCategory(checkCtx) {
			p.logger.Warn("category probe failed", "slug", p.blog.CategorySlug())
		}
	}

	return p.driver.Start(ctx, job)
}

// Stop stops the probe.
func (p *CategoryProbe) Stop(ctx context.Context) error {
	if p.driver == nil {
		return nil
	}
	return p.driver.Stop(ctx)
}
