package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/cosmic-portfolio/internal/admin"
	"github.com/Zachkp/cosmic-portfolio/internal/content"
	"github.com/Zachkp/cosmic-portfolio/internal/http/middleware"
	"github.com/Zachkp/cosmic-portfolio/internal/http/response"
	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
	"github.com/Zachkp/cosmic-portfolio/internal/store"
	"github.com/Zachkp/cosmic-portfolio/internal/view"
)

const (
	recentVisitorsLimit = 200
	messagesLimit       = 100
)

// AdminStore is the read side of the dashboard plus retention cleanup.
type AdminStore interface {
	Stats(ctx context.Context, now time.Time) (*store.AdminStats, error)
	RecentVisitors(ctx context.Context, limit int) ([]store.VisitorMetric, error)
	ListContactMessages(ctx context.Context, limit int) ([]store.ContactMessage, error)
	CleanupVisitors(ctx context.Context, cutoff time.Time) (int64, error)
}

type AdminHandler struct {
	auth            *admin.Authenticator
	store           AdminStore
	cache           *content.Cache
	renderer        *view.Renderer
	retentionMonths int
	secure          bool
	log             *logger.Logger
}

func NewAdminHandler(auth *admin.Authenticator, st AdminStore, cache *content.Cache, renderer *view.Renderer, retentionMonths int, secureCookies bool, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		auth:            auth,
		store:           st,
		cache:           cache,
		renderer:        renderer,
		retentionMonths: retentionMonths,
		secure:          secureCookies,
		log:             log.With("handler", "AdminHandler"),
	}
}

type loginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (h *AdminHandler) html(c *gin.Context, status int, name string, data any) {
	renderHTML(c, h.renderer, h.log, status, name, data)
}

func (h *AdminHandler) LoginPage(c *gin.Context) {
	h.html(c, http.StatusOK, "admin_login", view.AdminLoginView{Title: "Admin Login"})
}

// Login checks the submitted credentials and sets the session cookie,
// scoped to /admin.
func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		// Missing fields fall through to the generic credential failure.
		h.log.Debug("Admin login bind failed", "error", err)
	}

	if err := h.auth.CheckCredentials(req.Username, req.Password); err != nil {
		h.log.Warn("Failed admin login", "client_ip", c.ClientIP())
		h.html(c, http.StatusUnauthorized, "admin_login", view.AdminLoginView{
			Title: "Admin Login",
			Error: "Invalid credentials",
		})
		return
	}

	token, expires, err := h.auth.Issue(req.Username)
	if err != nil {
		h.log.Error("Failed to issue admin session", "error", err)
		h.html(c, http.StatusInternalServerError, "admin_error", view.AdminErrorView{Title: "Error", Error: "Could not start session"})
		return
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(admin.CookieName, token, int(time.Until(expires).Seconds()), "/admin", "", h.secure, true)
	h.log.Info("Admin logged in", "client_ip", c.ClientIP())
	c.Redirect(http.StatusFound, "/admin/success")
}

func (h *AdminHandler) Success(c *gin.Context) {
	h.html(c, http.StatusOK, "admin_success", view.AdminSuccessView{
		Title:    "Logged in",
		Username: c.GetString(middleware.AdminSubjectKey),
	})
}

func (h *AdminHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(admin.CookieName, "", -1, "/admin", "", h.secure, true)
	c.Redirect(http.StatusFound, "/admin/login")
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context(), time.Now())
	if err != nil {
		h.log.Error("Failed to load admin stats", "error", err)
		h.html(c, http.StatusInternalServerError, "admin_error", view.AdminErrorView{Title: "Error", Error: "Failed to load statistics"})
		return
	}
	h.html(c, http.StatusOK, "admin_dashboard", view.AdminDashboardView{
		Title:           "Admin Dashboard",
		Stats:           stats,
		ContentError:    h.cache.ErrorMessage(),
		ContentLoadedAt: h.cache.LoadedAt(),
	})
}

func (h *AdminHandler) StatsAPI(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context(), time.Now())
	if err != nil {
		h.log.Error("Failed to load admin stats", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "stats_failed", errors.New("failed to load statistics"))
		return
	}
	response.RespondOK(c, stats)
}

func (h *AdminHandler) Visitors(c *gin.Context) {
	visitors, err := h.store.RecentVisitors(c.Request.Context(), recentVisitorsLimit)
	if err != nil {
		h.log.Error("Failed to load visitors", "error", err)
		h.html(c, http.StatusInternalServerError, "admin_error", view.AdminErrorView{Title: "Error", Error: "Failed to load visitors"})
		return
	}
	h.html(c, http.StatusOK, "admin_visitors", view.AdminVisitorsView{Title: "Recent Visitors", Visitors: visitors})
}

func (h *AdminHandler) Messages(c *gin.Context) {
	msgs, err := h.store.ListContactMessages(c.Request.Context(), messagesLimit)
	if err != nil {
		h.log.Error("Failed to load contact messages", "error", err)
		h.html(c, http.StatusInternalServerError, "admin_error", view.AdminErrorView{Title: "Error", Error: "Failed to load messages"})
		return
	}
	h.html(c, http.StatusOK, "admin_messages", view.AdminMessagesView{Title: "Messages", Messages: msgs})
}

// ExportStats downloads the current stats as a JSON attachment.
func (h *AdminHandler) ExportStats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context(), time.Now())
	if err != nil {
		h.log.Error("Failed to export stats", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "stats_failed", errors.New("failed to load statistics"))
		return
	}
	body, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "encode_failed", err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
	c.Data(http.StatusOK, "application/json", body)
}

type refreshResponse struct {
	LoadedAt time.Time `json:"loaded_at"`
	Error    string    `json:"error,omitempty"`
}

// RefreshContent reloads the content cache. A failed load keeps the
// previous data and reports a 502.
func (h *AdminHandler) RefreshContent(c *gin.Context) {
	if err := h.cache.Refresh(c.Request.Context()); err != nil {
		h.log.Warn("Content refresh failed", "error", err)
		c.JSON(http.StatusBadGateway, refreshResponse{LoadedAt: h.cache.LoadedAt(), Error: h.cache.ErrorMessage()})
		return
	}
	response.RespondOK(c, refreshResponse{LoadedAt: h.cache.LoadedAt()})
}

type cleanupResponse struct {
	Deleted int64     `json:"deleted"`
	Cutoff  time.Time `json:"cutoff"`
}

// Cleanup drops visitor rows older than the retention window.
func (h *AdminHandler) Cleanup(c *gin.Context) {
	cutoff := time.Now().AddDate(0, -h.retentionMonths, 0)
	n, err := h.store.CleanupVisitors(c.Request.Context(), cutoff)
	if err != nil {
		h.log.Error("Visitor cleanup failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "cleanup_failed", errors.New("cleanup failed"))
		return
	}
	h.log.Info("Visitor cleanup", "deleted", n, "cutoff", cutoff)
	response.RespondOK(c, cleanupResponse{Deleted: n, Cutoff: cutoff})
}
