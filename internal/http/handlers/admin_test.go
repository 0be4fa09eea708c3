package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/cosmic-portfolio/internal/admin"
	"github.com/Zachkp/cosmic-portfolio/internal/config"
	"github.com/Zachkp/cosmic-portfolio/internal/http/middleware"
	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
	"github.com/Zachkp/cosmic-portfolio/internal/store"
)

func adminRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	st := seededStore(t)
	auth, err := admin.New(config.AdminConfig{
		Username:      "owner",
		Password:      "correct horse",
		SessionSecret: []byte("test-secret"),
		SessionTTL:    time.Hour,
	})
	require.NoError(t, err)

	h := NewAdminHandler(auth, st, loadedCache(t, st), newRenderer(t), 12, false, logger.Nop())
	r := gin.New()
	r.GET("/admin/login", h.LoginPage)
	r.POST("/admin/login", h.Login)
	r.GET("/admin/logout", h.Logout)
	protected := r.Group("/admin")
	protected.Use(middleware.RequireAdmin(auth, logger.Nop()))
	protected.GET("/success", h.Success)
	protected.GET("/dashboard", h.Dashboard)
	protected.GET("/visitors", h.Visitors)
	protected.GET("/messages", h.Messages)
	protected.GET("/export/stats", h.ExportStats)
	protected.POST("/privacy/cleanup", h.Cleanup)
	protected.GET("/api/stats", h.StatsAPI)
	protected.POST("/api/content/refresh", h.RefreshContent)
	return r, st
}

func login(t *testing.T, r http.Handler, user, pass string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {user}, "password": {pass}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return serve(r, req)
}

func withSession(req *http.Request, cookie *http.Cookie) *http.Request {
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	return req
}

func TestAdminLoginRejectsBadCredentials(t *testing.T) {
	r, _ := adminRouter(t)

	rec := login(t, r, "owner", "wrong")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
	assert.Nil(t, findCookie(rec, admin.CookieName))
}

func TestAdminLoginWithoutFieldsIsRejected(t *testing.T) {
	r, _ := adminRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(r, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
	assert.Nil(t, findCookie(rec, admin.CookieName))
}

func TestAdminLoginFlow(t *testing.T) {
	r, _ := adminRouter(t)

	rec := login(t, r, "owner", "correct horse")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/success", rec.Header().Get("Location"))
	session := findCookie(rec, admin.CookieName)
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, "/admin", session.Path)
	assert.Equal(t, http.SameSiteStrictMode, session.SameSite)

	rec = serve(r, withSession(httptest.NewRequest(http.MethodGet, "/admin/success", nil), session))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/admin/dashboard")

	rec = serve(r, withSession(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil), session))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/admin/logout", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	cleared := findCookie(rec, admin.CookieName)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestAdminRoutesRequireSession(t *testing.T) {
	r, _ := adminRouter(t)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	forged := &http.Cookie{Name: admin.CookieName, Value: "not-a-token"}
	rec = serve(r, withSession(httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil), forged))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminStatsAndExport(t *testing.T) {
	r, st := adminRouter(t)
	ctx := context.Background()
	require.NoError(t, st.RecordVisit(ctx, store.VisitorMetric{HashedIP: "abc", Path: "/", Timestamp: time.Now()}))
	require.NoError(t, st.RecordVisit(ctx, store.VisitorMetric{HashedIP: "abc", Path: "/", Timestamp: time.Now()}))
	session := findCookie(login(t, r, "owner", "correct horse"), admin.CookieName)
	require.NotNil(t, session)

	rec := serve(r, withSession(httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil), session))
	require.Equal(t, http.StatusOK, rec.Code)
	var stats store.AdminStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.EqualValues(t, 2, stats.TotalVisitors)
	assert.EqualValues(t, 1, stats.UniqueVisitors)

	rec = serve(r, withSession(httptest.NewRequest(http.MethodGet, "/admin/export/stats", nil), session))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=admin-stats.json", rec.Header().Get("Content-Disposition"))
	assert.True(t, json.Valid(rec.Body.Bytes()))

	rec = serve(r, withSession(httptest.NewRequest(http.MethodGet, "/admin/visitors", nil), session))
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = serve(r, withSession(httptest.NewRequest(http.MethodGet, "/admin/messages", nil), session))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminCleanupAndRefresh(t *testing.T) {
	r, st := adminRouter(t)
	ctx := context.Background()
	old := time.Now().AddDate(-2, 0, 0)
	require.NoError(t, st.RecordVisit(ctx, store.VisitorMetric{HashedIP: "old", Path: "/", Timestamp: old}))
	require.NoError(t, st.RecordVisit(ctx, store.VisitorMetric{HashedIP: "new", Path: "/", Timestamp: time.Now()}))
	session := findCookie(login(t, r, "owner", "correct horse"), admin.CookieName)
	require.NotNil(t, session)

	rec := serve(r, withSession(httptest.NewRequest(http.MethodPost, "/admin/privacy/cleanup", nil), session))
	require.Equal(t, http.StatusOK, rec.Code)
	var cleaned cleanupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cleaned))
	assert.EqualValues(t, 1, cleaned.Deleted)

	visitors, err := st.RecentVisitors(ctx, 10)
	require.NoError(t, err)
	require.Len(t, visitors, 1)
	assert.Equal(t, "new", visitors[0].HashedIP)

	rec = serve(r, withSession(httptest.NewRequest(http.MethodPost, "/admin/api/content/refresh", nil), session))
	assert.Equal(t, http.StatusOK, rec.Code)
}
