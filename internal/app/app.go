package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"ClimbCoach/internal/config"
	"ClimbCoach/internal/infrastructure/forms"
	"ClimbCoach/internal/infrastructure/scheduler"
	"ClimbCoach/internal/infrastructure/storage"
	"ClimbCoach/internal/infrastructure/telegram"
	"ClimbCoach/internal/infrastructure/wordpress"
	"ClimbCoach/internal/logging"
	"ClimbCoach/internal/transport/httpserver"
	"ClimbCoach/internal/usecase"
	"ClimbCoach/internal/validation"
)

const schemaTimeout = 5 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	blog   *usecase.Blog
	forms  *usecase.Forms
	leads  *storage.PostgresRepository
	db     *sql.DB
	server *echo.Echo
	probe  *usecase.CategoryProbe
}

// New builds the application. Optional integrations (lead log, Telegram) are
// enabled only when configured; a database that cannot be reached disables the lead log.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	content := wordpress.NewClient(cfg.WordPress, nil, baseLogger.With("component", "wordpress"))
	blog := usecase.NewBlog(content, cfg.WordPress, baseLogger.With("component", "blog"))

	a := &Application{cfg: cfg, logger: baseLogger, blog: blog}
	a.probe = usecase.NewCategoryProbe(
		scheduler.NewTickerScheduler(cfg.WordPress.ProbeInterval),
		blog,
		baseLogger.With("component", "probe"),
	)

	deps := usecase.FormsDeps{
		Submitter: forms.NewSubmitter(cfg.Forms, nil, baseLogger.With("component", "forms")),
		Validator: validation.New(),
		Logger:    baseLogger.With("component", "forms"),
	}

	if cfg.Database.DSN != "" {
		if repo, db, err := openLeads(ctx, cfg.Database.DSN); err != nil {
			baseLogger.Error("lead log disabled", "error", err)
		} else {
			a.db = db
			a.leads = repo
			deps.Leads = repo
		}
	}

	if notifier := telegram.NewNotifier(cfg.Notifications.Telegram, nil); notifier.Enabled() {
		deps.Notifier = notifier
	}

	a.forms = usecase.NewForms(deps, cfg.Forms)

	server, err := httpserver.New(httpserver.Deps{
		Blog:   blog,
		Forms:  a.forms,
		Logger: baseLogger.With("component", "http"),
	})
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("http server: %w", err)
	}
	server.Server.ReadTimeout = cfg.Server.ReadTimeout
	server.Server.WriteTimeout = cfg.Server.WriteTimeout
	a.server = server

	return a, nil
}

func openLeads(ctx context.Context, dsn string) (*storage.PostgresRepository, *sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, schemaTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return repo, db, nil
}

// Blog exposes the content service for CLI commands.
func (a *Application) Blog() *usecase.Blog {
	return a.blog
}

// Leads returns the lead log, or nil when no database is configured.
func (a *Application) Leads() *storage.PostgresRepository {
	return a.leads
}

// Handler returns the HTTP handler for embedding or tests.
func (a *Application) Handler() http.Handler {
	return a.server
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Error("close resources", "error", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	if err := a.probe.Start(gctx); err != nil {
		return fmt.Errorf("start category probe: %w", err)
	}

	g.Go(func() error {
		a.logger.Info("http server listening", "address", a.cfg.Server.Address)
		if err := a.server.Start(a.cfg.Server.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.probe.Stop(shutdownCtx); err != nil {
			a.logger.Warn("stop category probe", "error", err)
		}
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close releases the database handle, if any.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	db := a.db
	a.db = nil
	return db.Close()
}
