package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/cosmic-portfolio/internal/analytics"
	"github.com/Zachkp/cosmic-portfolio/internal/http/middleware"
	"github.com/Zachkp/cosmic-portfolio/internal/http/response"
)

// The consent choice is kept for ten years, effectively forever.
const consentCookieAge = 10 * 365 * 24 * time.Hour

// SessionDiscarder drops a live page session without recording more events.
type SessionDiscarder interface {
	Discard(id string)
}

type ConsentHandler struct {
	secure   bool
	sessions SessionDiscarder
}

// NewConsentHandler builds the consent endpoints. sessions may be nil.
func NewConsentHandler(secureCookies bool, sessions SessionDiscarder) *ConsentHandler {
	return &ConsentHandler{secure: secureCookies, sessions: sessions}
}

type consentRequest struct {
	Granted       *bool  `json:"granted" form:"granted" binding:"required"`
	PageSessionID string `json:"page_session_id" form:"page_session_id"`
}

type consentResponse struct {
	Consent string `json:"consent"`
	Decided bool   `json:"decided"`
}

func (h *ConsentHandler) Get(c *gin.Context) {
	consent := middleware.ConsentFrom(c)
	response.RespondOK(c, consentResponse{Consent: consent.String(), Decided: consent.Decided()})
}

// Set stores the visitor's choice. HTMX callers get an empty body so the
// banner swaps itself away.
func (h *ConsentHandler) Set(c *gin.Context) {
	var req consentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	consent := analytics.ConsentDenied
	if *req.Granted {
		consent = analytics.ConsentGranted
	} else if req.PageSessionID != "" && h.sessions != nil {
		// Withdrawal stops the running page session's heartbeats now.
		h.sessions.Discard(req.PageSessionID)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(analytics.ConsentCookie, consent.String(), int(consentCookieAge.Seconds()), "/", "", h.secure, false)

	if c.GetHeader("HX-Request") == "true" {
		c.Status(http.StatusOK)
		return
	}
	response.RespondOK(c, consentResponse{Consent: consent.String(), Decided: true})
}
