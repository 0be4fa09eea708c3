package http

import (
	"github.com/gin-gonic/gin"

	"github.com/Zachkp/cosmic-portfolio/internal/admin"
	"github.com/Zachkp/cosmic-portfolio/internal/boundary"
	httpH "github.com/Zachkp/cosmic-portfolio/internal/http/handlers"
	httpMW "github.com/Zachkp/cosmic-portfolio/internal/http/middleware"
	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Registry    *boundary.Registry
	CORSOrigins []string
	StaticDir   string
	ImagesDir   string

	VisitorTracker *httpMW.VisitorTracker
	Authenticator  *admin.Authenticator

	PageHandler       *httpH.PageHandler
	ContactHandler    *httpH.ContactHandler
	ContentHandler    *httpH.ContentHandler
	PreferenceHandler *httpH.PreferenceHandler
	ConsentHandler    *httpH.ConsentHandler
	AnalyticsHandler  *httpH.AnalyticsHandler
	OGHandler         *httpH.OGHandler
	AdminHandler      *httpH.AdminHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(httpMW.RequestLogger(cfg.Log))

	var fallback func(*gin.Context)
	if cfg.PageHandler != nil {
		fallback = cfg.PageHandler.ErrorPage
	}
	r.Use(httpMW.Recovery(cfg.Registry, cfg.Log, fallback))
	if cfg.VisitorTracker != nil {
		r.Use(cfg.VisitorTracker.Handler())
	}

	if cfg.StaticDir != "" {
		r.Static("/static", cfg.StaticDir)
	}
	if cfg.ImagesDir != "" {
		r.Static("/images", cfg.ImagesDir)
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
	}

	// Pages
	if cfg.PageHandler != nil {
		r.GET("/", cfg.PageHandler.Home)
		r.GET("/sections/:name", cfg.PageHandler.Section)
		r.GET("/privacy", cfg.PageHandler.Privacy)
		r.GET("/resume", cfg.PageHandler.Resume)
		r.NoRoute(cfg.PageHandler.NotFound)
	}

	// Contact
	if cfg.ContactHandler != nil {
		r.GET("/contact-form", cfg.ContactHandler.Form)
		r.POST("/contact", cfg.ContactHandler.Submit)
	}

	api := r.Group("/api")
	api.Use(httpMW.CORS(cfg.CORSOrigins))
	{
		if cfg.ContentHandler != nil {
			api.GET("/content", cfg.ContentHandler.GetContent)
		}
		if cfg.PreferenceHandler != nil {
			api.GET("/preferences/mode", cfg.PreferenceHandler.GetMode)
			api.POST("/preferences/mode/toggle", cfg.PreferenceHandler.ToggleMode)
			api.PUT("/preferences/mode", cfg.PreferenceHandler.SetMode)
		}
		if cfg.ConsentHandler != nil {
			api.GET("/consent", cfg.ConsentHandler.Get)
			api.POST("/consent", cfg.ConsentHandler.Set)
		}
		if cfg.AnalyticsHandler != nil {
			api.POST("/analytics/events", cfg.AnalyticsHandler.TrackEvent)
			api.POST("/analytics/sessions", cfg.AnalyticsHandler.BeginSession)
			api.POST("/analytics/sessions/:id/scroll", cfg.AnalyticsHandler.Scroll)
			api.POST("/analytics/sessions/:id/end", cfg.AnalyticsHandler.EndSession)
		}
		if cfg.OGHandler != nil {
			api.GET("/og", cfg.OGHandler.Image)
		}
	}

	// Admin
	if cfg.AdminHandler != nil && cfg.Authenticator != nil {
		r.GET("/admin/login", cfg.AdminHandler.LoginPage)
		r.POST("/admin/login", cfg.AdminHandler.Login)
		r.GET("/admin/logout", cfg.AdminHandler.Logout)

		protected := r.Group("/admin")
		protected.Use(httpMW.RequireAdmin(cfg.Authenticator, cfg.Log))
		{
			protected.GET("/success", cfg.AdminHandler.Success)
			protected.GET("/dashboard", cfg.AdminHandler.Dashboard)
			protected.GET("/visitors", cfg.AdminHandler.Visitors)
			protected.GET("/messages", cfg.AdminHandler.Messages)
			protected.GET("/export/stats", cfg.AdminHandler.ExportStats)
			protected.POST("/privacy/cleanup", cfg.AdminHandler.Cleanup)
			protected.GET("/api/stats", cfg.AdminHandler.StatsAPI)
			protected.POST("/api/content/refresh", cfg.AdminHandler.RefreshContent)
		}
	}

	return r
}
