package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/cosmic-portfolio/internal/analytics"
	"github.com/Zachkp/cosmic-portfolio/internal/boundary"
	"github.com/Zachkp/cosmic-portfolio/internal/content"
	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
	"github.com/Zachkp/cosmic-portfolio/internal/store"
	"github.com/Zachkp/cosmic-portfolio/internal/view"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, filepath.Join(t.TempDir(), "portfolio.db"), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(ctx))

	seed, err := store.LoadSeed("")
	require.NoError(t, err)
	require.NoError(t, st.Seed(ctx, seed))
	return st
}

func loadedCache(t *testing.T, st *store.Store) *content.Cache {
	t.Helper()
	c := content.NewCache(st, logger.Nop())
	require.NoError(t, c.Load(context.Background()))
	return c
}

func newRenderer(t *testing.T) *view.Renderer {
	t.Helper()
	r, err := view.New(boundary.NewRegistry(), logger.Nop())
	require.NoError(t, err)
	return r
}

func withConsent(req *http.Request, consent analytics.Consent) *http.Request {
	req.AddCookie(&http.Cookie{Name: analytics.ConsentCookie, Value: consent.String()})
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// findCookie returns the last Set-Cookie for name, which is what the
// browser ends up keeping.
func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}
