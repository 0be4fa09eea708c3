package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/cosmic-portfolio/internal/http/response"
	"github.com/Zachkp/cosmic-portfolio/internal/preference"
)

const preferenceCookieAge = 365 * 24 * time.Hour

// CookieStore is a preference.Store backed by the request's cookies.
// Values set during the request are visible to later Gets.
type CookieStore struct {
	c      *gin.Context
	secure bool
	set    map[string]string
}

func NewCookieStore(c *gin.Context, secure bool) *CookieStore {
	return &CookieStore{c: c, secure: secure, set: map[string]string{}}
}

func (s *CookieStore) Get(key string) (string, bool) {
	if v, ok := s.set[key]; ok {
		return v, true
	}
	v, err := s.c.Cookie(key)
	if err != nil {
		return "", false
	}
	return v, true
}

func (s *CookieStore) Set(key, value string) {
	s.set[key] = value
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, value, int(preferenceCookieAge.Seconds()), "/", "", s.secure, false)
}

type PreferenceHandler struct {
	secure bool
}

func NewPreferenceHandler(secureCookies bool) *PreferenceHandler {
	return &PreferenceHandler{secure: secureCookies}
}

type modeResponse struct {
	Mode preference.Mode `json:"mode"`
}

type setModeRequest struct {
	Mode string `json:"mode" form:"mode" binding:"required"`
}

func (h *PreferenceHandler) load(c *gin.Context) *preference.Preferences {
	return preference.Load(NewCookieStore(c, h.secure))
}

func (h *PreferenceHandler) GetMode(c *gin.Context) {
	response.RespondOK(c, modeResponse{Mode: h.load(c).Mode()})
}

func (h *PreferenceHandler) ToggleMode(c *gin.Context) {
	prefs := h.load(c)
	response.RespondOK(c, modeResponse{Mode: prefs.Toggle()})
}

// SetMode accepts "cosmic", "professional" or "basic". The legacy stored
// value is accepted too and lands on professional.
func (h *PreferenceHandler) SetMode(c *gin.Context) {
	var req setModeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	mode, migrated := preference.Parse(req.Mode)
	if !migrated && mode.String() != strings.ToLower(strings.TrimSpace(req.Mode)) {
		response.RespondFieldErrors(c, map[string]string{"mode": "must be one of: cosmic professional basic"})
		return
	}
	prefs := h.load(c)
	prefs.Set(mode)
	response.RespondOK(c, modeResponse{Mode: prefs.Mode()})
}
