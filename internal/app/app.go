package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/cosmic-portfolio/internal/admin"
	"github.com/Zachkp/cosmic-portfolio/internal/analytics"
	"github.com/Zachkp/cosmic-portfolio/internal/boundary"
	"github.com/Zachkp/cosmic-portfolio/internal/config"
	"github.com/Zachkp/cosmic-portfolio/internal/content"
	apphttp "github.com/Zachkp/cosmic-portfolio/internal/http"
	httpH "github.com/Zachkp/cosmic-portfolio/internal/http/handlers"
	httpMW "github.com/Zachkp/cosmic-portfolio/internal/http/middleware"
	"github.com/Zachkp/cosmic-portfolio/internal/mailer"
	"github.com/Zachkp/cosmic-portfolio/internal/ogimage"
	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
	"github.com/Zachkp/cosmic-portfolio/internal/store"
	"github.com/Zachkp/cosmic-portfolio/internal/view"
)

const (
	shutdownTimeout  = 10 * time.Second
	cleanupInterval  = 24 * time.Hour
	startupLoadLimit = 15 * time.Second
)

type App struct {
	Cfg      config.Config
	Log      *logger.Logger
	Store    *store.Store
	Cache    *content.Cache
	Sessions *analytics.Sessions
	Visitors *httpMW.VisitorTracker
	Registry *boundary.Registry
	Server   *apphttp.Server

	uninstallReporter func()
}

// OpenStore opens the database and brings its schema up to date.
func OpenStore(ctx context.Context, cfg config.Config, log *logger.Logger) (*store.Store, error) {
	st, err := store.Open(ctx, cfg.DatabasePath, log)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return st, nil
}

// SeedIfEmpty seeds the content tables when no site metadata exists yet.
func SeedIfEmpty(ctx context.Context, st *store.Store, seedPath string, log *logger.Logger) error {
	_, err := st.Metadata(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("check content: %w", err)
	}
	log.Info("Content tables empty, seeding", "seed_path", seedPath)
	seed, err := store.LoadSeed(seedPath)
	if err != nil {
		return err
	}
	return st.Seed(ctx, seed)
}

func New(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, error) {
	st, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	if err := SeedIfEmpty(ctx, st, cfg.ContentSeedPath, log); err != nil {
		st.Close()
		return nil, fmt.Errorf("seed content: %w", err)
	}

	cache := content.NewCache(st, log)
	loadCtx, cancel := context.WithTimeout(ctx, startupLoadLimit)
	if err := cache.Load(loadCtx); err != nil {
		// The site still starts; pages show the fetch error until a refresh succeeds.
		log.Warn("Initial content load failed", "error", err)
	}
	cancel()

	tracker := analytics.NewTracker(st, analytics.SystemClock{}, log)
	sessions := analytics.NewSessions(tracker, analytics.SessionConfig{
		ScrollQuiescence: cfg.Analytics.ScrollQuiescence,
		Heartbeat:        cfg.Analytics.Heartbeat,
		Idle:             cfg.Analytics.SessionIdle,
	}, log)

	registry := boundary.NewRegistry()
	uninstall := registry.Install(errorReporter(tracker, log))

	renderer, err := view.New(registry, log)
	if err != nil {
		uninstall()
		st.Close()
		return nil, fmt.Errorf("init views: %w", err)
	}
	og, err := ogimage.NewRenderer()
	if err != nil {
		uninstall()
		st.Close()
		return nil, fmt.Errorf("init og renderer: %w", err)
	}
	auth, err := admin.New(cfg.Admin)
	if err != nil {
		uninstall()
		st.Close()
		return nil, fmt.Errorf("init admin auth: %w", err)
	}

	smtp := mailer.NewSMTP(cfg.SMTP, log)
	if !smtp.Configured() {
		log.Warn("SMTP credentials not set, contact messages will only be stored")
	}

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	hasher := httpMW.NewIPHasher(cfg.IPHashSalt)
	visitors := httpMW.NewVisitorTracker(st, hasher, log)
	secure := cfg.SecureCookies()

	routerCfg := apphttp.RouterConfig{
		Log:            log,
		Registry:       registry,
		CORSOrigins:    cfg.CORSOrigins,
		StaticDir:      cfg.StaticDir,
		ImagesDir:      cfg.ImagesDir,
		VisitorTracker: visitors,
		Authenticator:  auth,

		PageHandler: httpH.NewPageHandler(cache, renderer, httpH.PageConfig{
			SiteURL:         cfg.SiteURL,
			ResumePath:      cfg.ResumePath,
			RetentionMonths: cfg.RetentionMonths,
			SecureCookies:   secure,
		}, log),
		ContactHandler:    httpH.NewContactHandler(renderer, st, smtp, hasher, log),
		ContentHandler:    httpH.NewContentHandler(cache),
		PreferenceHandler: httpH.NewPreferenceHandler(secure),
		ConsentHandler:    httpH.NewConsentHandler(secure, sessions),
		AnalyticsHandler:  httpH.NewAnalyticsHandler(analytics.NewEnricher(tracker), sessions, log),
		OGHandler:         httpH.NewOGHandler(og, log),
		AdminHandler:      httpH.NewAdminHandler(auth, st, cache, renderer, cfg.RetentionMonths, secure, log),
		HealthHandler:     httpH.NewHealthHandler(st),
	}

	return &App{
		Cfg:               cfg,
		Log:               log,
		Store:             st,
		Cache:             cache,
		Sessions:          sessions,
		Visitors:          visitors,
		Registry:          registry,
		Server:            apphttp.NewServer(cfg.Addr(), routerCfg),
		uninstallReporter: uninstall,
	}, nil
}

// errorReporter logs caught rendering errors and records them as
// "exception" events. The event carries no visitor data.
func errorReporter(tracker *analytics.Tracker, log *logger.Logger) boundary.Reporter {
	log = log.With("service", "ErrorReporter")
	return boundary.ReporterFunc(func(err error, componentTrace string) {
		log.Error("Caught rendering error", "error", err, "trace", componentTrace)
		ev := analytics.Event{
			Name:     "exception",
			Category: "error",
			Label:    truncate(err.Error(), 200),
			Properties: map[string]any{
				"component": firstLine(componentTrace),
			},
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if terr := tracker.Track(ctx, analytics.ConsentGranted, ev); terr != nil {
			log.Warn("Failed to record exception event", "error", terr)
		}
	})
}

// Run serves HTTP and the background loops until ctx is cancelled, then
// shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Log.Info("HTTP server listening", "addr", a.Server.Addr())
		return a.Server.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.Log.Info("Shutting down HTTP server")
		return a.Server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		a.Sessions.Run(gctx)
		return nil
	})
	g.Go(func() error {
		a.retentionLoop(gctx)
		return nil
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *App) retentionLoop(ctx context.Context) {
	a.cleanupVisitors(ctx)
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.cleanupVisitors(ctx)
		}
	}
}

func (a *App) cleanupVisitors(ctx context.Context) {
	cutoff := time.Now().AddDate(0, -a.Cfg.RetentionMonths, 0)
	n, err := a.Store.CleanupVisitors(ctx, cutoff)
	if err != nil {
		if ctx.Err() == nil {
			a.Log.Warn("Visitor retention cleanup failed", "error", err)
		}
		return
	}
	if n > 0 {
		a.Log.Info("Cleaned up old visitor data", "deleted", n, "cutoff", cutoff)
	}
}

// Close ends live page sessions, waits for pending visitor writes and
// closes the database.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Sessions != nil {
		a.Sessions.Close()
	}
	if a.Visitors != nil {
		a.Visitors.Wait()
	}
	if a.uninstallReporter != nil {
		a.uninstallReporter()
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Log.Warn("Error closing database", "error", err)
		}
	}
	a.Log.Sync()
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
