package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/cosmic-portfolio/internal/analytics"
	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
	"github.com/Zachkp/cosmic-portfolio/internal/store"
)

func analyticsRouter(t *testing.T) (*gin.Engine, *store.Store, *analytics.Sessions) {
	t.Helper()
	st := seededStore(t)
	tracker := analytics.NewTracker(st, analytics.SystemClock{}, logger.Nop())
	// Long timers keep the test free of background emissions.
	sessions := analytics.NewSessions(tracker, analytics.SessionConfig{
		ScrollQuiescence: time.Hour,
		Heartbeat:        time.Hour,
		Idle:             time.Hour,
	}, logger.Nop())
	t.Cleanup(sessions.Close)

	h := NewAnalyticsHandler(analytics.NewEnricher(tracker), sessions, logger.Nop())
	r := gin.New()
	r.POST("/api/analytics/events", h.TrackEvent)
	r.POST("/api/analytics/sessions", h.BeginSession)
	r.POST("/api/analytics/sessions/:id/scroll", h.Scroll)
	r.POST("/api/analytics/sessions/:id/end", h.EndSession)
	return r, st, sessions
}

func TestAnalyticsWithoutConsentRecordsNothing(t *testing.T) {
	r, st, sessions := analyticsRouter(t)

	for _, consent := range []analytics.Consent{analytics.ConsentUnset, analytics.ConsentDenied} {
		rec := serve(r, withConsent(jsonRequest(http.MethodPost, "/api/analytics/events", `{"name":"click"}`), consent))
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = serve(r, withConsent(jsonRequest(http.MethodPost, "/api/analytics/sessions", `{"path":"/"}`), consent))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	counts, err := st.EventCounts(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, counts)
	assert.Zero(t, sessions.Len())
}

func TestTrackEventEnrichesAndStores(t *testing.T) {
	r, st, _ := analyticsRouter(t)

	req := jsonRequest(http.MethodPost, "/api/analytics/events",
		`{"name":"resume_download","category":"interaction","path":"/","client":{"viewport_width":1280,"viewport_height":720}}`)
	req.Header.Set("User-Agent", "test-agent")
	rec := serve(r, withConsent(req, analytics.ConsentGranted))
	require.Equal(t, http.StatusNoContent, rec.Code)

	counts, err := st.EventCounts(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, "resume_download", counts[0].Name)
}

func TestTrackEventRejectsInvalidEvent(t *testing.T) {
	r, _, _ := analyticsRouter(t)

	rec := serve(r, withConsent(jsonRequest(http.MethodPost, "/api/analytics/events", `{"name":""}`), analytics.ConsentGranted))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name"`)
}

func TestPageSessionLifecycle(t *testing.T) {
	r, st, sessions := analyticsRouter(t)

	rec := serve(r, withConsent(jsonRequest(http.MethodPost, "/api/analytics/sessions", `{"path":"/"}`), analytics.ConsentGranted))
	require.Equal(t, http.StatusCreated, rec.Code)
	var begun struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &begun))
	require.NotEmpty(t, begun.ID)
	assert.Equal(t, 1, sessions.Len())

	scroll := func(y float64) scrollResponse {
		rec := serve(r, withConsent(jsonRequest(http.MethodPost, "/api/analytics/sessions/"+begun.ID+"/scroll",
			`{"scroll_y":`+jsonNumber(y)+`,"viewport_height":1000,"document_height":3000}`), analytics.ConsentGranted))
		require.Equal(t, http.StatusOK, rec.Code)
		var out scrollResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	first := scroll(1000)
	assert.Equal(t, []int{25, 50}, first.Milestones)
	assert.InDelta(t, 50, first.MaxDepth, 0.001)

	back := scroll(200)
	assert.Empty(t, back.Milestones, "scrolling up crosses nothing")
	assert.InDelta(t, 50, back.MaxDepth, 0.001, "max depth never decreases")

	rec = serve(r, withConsent(jsonRequest(http.MethodPost, "/api/analytics/sessions/"+begun.ID+"/end", `{}`), analytics.ConsentGranted))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, sessions.Len())

	events, err := st.RecentEvents(context.Background(), begun.ID, 20)
	require.NoError(t, err)
	var names []string
	for _, ev := range events {
		names = append(names, ev.Name)
	}
	assert.Contains(t, names, analytics.EventScrollDepth)

	rec = serve(r, withConsent(jsonRequest(http.MethodPost, "/api/analytics/sessions/"+begun.ID+"/scroll",
		`{"scroll_y":0,"viewport_height":1000,"document_height":3000}`), analytics.ConsentGranted))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWithdrawnConsentDiscardsSession(t *testing.T) {
	r, _, sessions := analyticsRouter(t)

	rec := serve(r, withConsent(jsonRequest(http.MethodPost, "/api/analytics/sessions", `{"path":"/"}`), analytics.ConsentGranted))
	require.Equal(t, http.StatusCreated, rec.Code)
	var begun struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &begun))

	rec = serve(r, withConsent(jsonRequest(http.MethodPost, "/api/analytics/sessions/"+begun.ID+"/scroll",
		`{"scroll_y":500,"viewport_height":1000,"document_height":3000}`), analytics.ConsentDenied))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, sessions.Len())
}

func jsonNumber(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}
