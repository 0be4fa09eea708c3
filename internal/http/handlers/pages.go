package handlers

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/cosmic-portfolio/internal/content"
	"github.com/Zachkp/cosmic-portfolio/internal/http/middleware"
	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
	"github.com/Zachkp/cosmic-portfolio/internal/preference"
	"github.com/Zachkp/cosmic-portfolio/internal/view"
)

type PageConfig struct {
	SiteURL         string
	ResumePath      string
	RetentionMonths int
	SecureCookies   bool
}

type PageHandler struct {
	cache    *content.Cache
	renderer *view.Renderer
	cfg      PageConfig
	log      *logger.Logger
}

func NewPageHandler(cache *content.Cache, renderer *view.Renderer, cfg PageConfig, log *logger.Logger) *PageHandler {
	return &PageHandler{cache: cache, renderer: renderer, cfg: cfg, log: log.With("handler", "PageHandler")}
}

func (h *PageHandler) pageData(c *gin.Context) view.PageData {
	prefs := preference.Load(NewCookieStore(c, h.cfg.SecureCookies))
	data := view.PageData{
		Title:      "Portfolio",
		Mode:       prefs.Mode().String(),
		ShowBanner: !middleware.ConsentFrom(c).Decided(),
		Content:    h.cache.Snapshot(),
		SiteURL:    h.cfg.SiteURL,
		Now:        time.Now(),
	}
	if name := data.Content.Metadata.SiteName; name != "" {
		data.Title = name
	}
	if msg := h.cache.ErrorMessage(); msg != "" {
		data.ContentError = msg
	}
	return data
}

// Home renders the full page. Broken sections are replaced by their
// fallback; only a layout failure turns into the error page.
func (h *PageHandler) Home(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.renderer.Page(&buf, h.pageData(c)); err != nil {
		h.log.Error("Failed to render home page", "error", err)
		c.Status(http.StatusInternalServerError)
		h.ErrorPage(c)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Section renders one section, for the fallback's retry button.
func (h *PageHandler) Section(c *gin.Context) {
	name := c.Param("name")
	if !h.renderer.HasSection(name) {
		c.String(http.StatusNotFound, "unknown section")
		return
	}
	out := h.renderer.Section(name, h.pageData(c))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
}

func (h *PageHandler) Privacy(c *gin.Context) {
	h.html(c, http.StatusOK, "privacy", view.PrivacyView{Title: "Privacy Policy", RetentionMonths: h.cfg.RetentionMonths})
}

// Resume serves the resume as a download.
func (h *PageHandler) Resume(c *gin.Context) {
	if _, err := os.Stat(h.cfg.ResumePath); err != nil {
		h.log.Warn("Resume file missing", "path", h.cfg.ResumePath, "error", err)
		c.String(http.StatusNotFound, "resume not available")
		return
	}
	c.FileAttachment(h.cfg.ResumePath, filepath.Base(h.cfg.ResumePath))
}

// ErrorPage writes the generic error page using the status already set on
// the response.
func (h *PageHandler) ErrorPage(c *gin.Context) {
	status := c.Writer.Status()
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	h.html(c, status, "error_page", view.ErrorPageView{
		Title:   "Something went wrong",
		Message: "The page could not be displayed. Please try again later.",
	})
}

func (h *PageHandler) NotFound(c *gin.Context) {
	h.html(c, http.StatusNotFound, "error_page", view.ErrorPageView{
		Title:   "Not found",
		Message: "There is nothing at this address.",
	})
}

func (h *PageHandler) html(c *gin.Context, status int, name string, data any) {
	renderHTML(c, h.renderer, h.log, status, name, data)
}

// renderHTML buffers the template so a failed render never leaves half a
// page on the wire.
func renderHTML(c *gin.Context, r *view.Renderer, log *logger.Logger, status int, name string, data any) {
	var buf bytes.Buffer
	if err := r.Execute(&buf, name, data); err != nil {
		log.Error("Template render failed", "template", name, "error", err)
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
