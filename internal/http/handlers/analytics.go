package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/cosmic-portfolio/internal/analytics"
	"github.com/Zachkp/cosmic-portfolio/internal/content"
	"github.com/Zachkp/cosmic-portfolio/internal/http/middleware"
	"github.com/Zachkp/cosmic-portfolio/internal/http/response"
	"github.com/Zachkp/cosmic-portfolio/internal/platform/apierr"
	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
)

// AnalyticsHandler receives browser beacons. Every endpoint answers 204 and
// does nothing when the visitor has not granted consent.
type AnalyticsHandler struct {
	enricher *analytics.Enricher
	sessions *analytics.Sessions
	log      *logger.Logger
}

func NewAnalyticsHandler(enricher *analytics.Enricher, sessions *analytics.Sessions, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{enricher: enricher, sessions: sessions, log: log.With("handler", "AnalyticsHandler")}
}

type trackEventRequest struct {
	analytics.Event
	Client analytics.ClientInfo `json:"client"`
}

type beginSessionRequest struct {
	Path string `json:"path"`
}

type scrollRequest struct {
	ScrollY        float64 `json:"scroll_y"`
	ViewportHeight float64 `json:"viewport_height"`
	DocumentHeight float64 `json:"document_height"`
}

type scrollResponse struct {
	Milestones []int   `json:"milestones"`
	MaxDepth   float64 `json:"max_depth"`
}

type endSessionResponse struct {
	Seconds float64 `json:"seconds"`
}

func (h *AnalyticsHandler) TrackEvent(c *gin.Context) {
	consent := middleware.ConsentFrom(c)
	if !consent.Allows() {
		c.Status(http.StatusNoContent)
		return
	}
	var req trackEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	req.Client.UserAgent = c.GetHeader("User-Agent")
	if err := h.enricher.Track(c.Request.Context(), consent, req.Event, req.Client); err != nil {
		var fe content.FieldErrors
		if errors.As(err, &fe) {
			response.RespondFieldErrors(c, fe)
			return
		}
		h.log.Error("Failed to track event", "event", req.Name, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("failed to record event"))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AnalyticsHandler) BeginSession(c *gin.Context) {
	consent := middleware.ConsentFrom(c)
	if !consent.Allows() {
		c.Status(http.StatusNoContent)
		return
	}
	var req beginSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ps, err := h.sessions.Begin(consent, req.Path)
	if err != nil {
		response.RespondAPIError(c, sessionError(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": ps.ID})
}

func (h *AnalyticsHandler) Scroll(c *gin.Context) {
	consent := middleware.ConsentFrom(c)
	if !consent.Allows() {
		// Consent was withdrawn mid-view; drop whatever was running.
		h.sessions.Discard(c.Param("id"))
		c.Status(http.StatusNoContent)
		return
	}
	var req scrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	id := c.Param("id")
	crossed, err := h.sessions.Scroll(id, req.ScrollY, req.ViewportHeight, req.DocumentHeight)
	if err != nil {
		response.RespondAPIError(c, sessionError(err))
		return
	}
	if crossed == nil {
		crossed = []int{}
	}
	resp := scrollResponse{Milestones: crossed}
	if ps, ok := h.sessions.Get(id); ok {
		resp.MaxDepth = ps.Scroll.MaxDepth()
	}
	response.RespondOK(c, resp)
}

// EndSession is called from the page unload beacon.
func (h *AnalyticsHandler) EndSession(c *gin.Context) {
	id := c.Param("id")
	if !middleware.ConsentFrom(c).Allows() {
		h.sessions.Discard(id)
		c.Status(http.StatusNoContent)
		return
	}
	total, err := h.sessions.End(id)
	if err != nil {
		response.RespondAPIError(c, sessionError(err))
		return
	}
	response.RespondOK(c, endSessionResponse{Seconds: total.Seconds()})
}

func sessionError(err error) error {
	switch {
	case errors.Is(err, analytics.ErrSessionNotFound):
		return apierr.New(http.StatusNotFound, "session_not_found", err)
	case errors.Is(err, analytics.ErrConsentRequired):
		return apierr.New(http.StatusForbidden, "consent_required", err)
	}
	return err
}
