package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/cosmic-portfolio/internal/analytics"
)

func consentRouter() *gin.Engine {
	h := NewConsentHandler(false, nil)
	r := gin.New()
	r.GET("/api/consent", h.Get)
	r.POST("/api/consent", h.Set)
	return r
}

func TestConsentDefaultsToUnset(t *testing.T) {
	rec := serve(consentRouter(), httptest.NewRequest(http.MethodGet, "/api/consent", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body consentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unset", body.Consent)
	assert.False(t, body.Decided)
}

func TestConsentSetWritesLongLivedCookie(t *testing.T) {
	cases := map[string]string{
		`{"granted": true}`:  "granted",
		`{"granted": false}`: "denied",
	}
	for payload, want := range cases {
		payload, want := payload, want
		t.Run(want, func(t *testing.T) {
			rec := serve(consentRouter(), jsonRequest(http.MethodPost, "/api/consent", payload))

			require.Equal(t, http.StatusOK, rec.Code)
			cookie := findCookie(rec, analytics.ConsentCookie)
			require.NotNil(t, cookie)
			assert.Equal(t, want, cookie.Value)
			assert.Equal(t, int(consentCookieAge.Seconds()), cookie.MaxAge)
			assert.Equal(t, "/", cookie.Path)
		})
	}
}

func TestConsentSetFromBannerReturnsEmptyBody(t *testing.T) {
	req := jsonRequest(http.MethodPost, "/api/consent", `{"granted": true}`)
	req.Header.Set("HX-Request", "true")

	rec := serve(consentRouter(), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.NotNil(t, findCookie(rec, analytics.ConsentCookie))
}

func TestConsentSetRequiresAnswer(t *testing.T) {
	rec := serve(consentRouter(), jsonRequest(http.MethodPost, "/api/consent", `{}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, findCookie(rec, analytics.ConsentCookie))
}

type discardLog struct{ ids []string }

func (d *discardLog) Discard(id string) { d.ids = append(d.ids, id) }

func TestConsentWithdrawalDiscardsPageSession(t *testing.T) {
	discarded := &discardLog{}
	h := NewConsentHandler(false, discarded)
	r := gin.New()
	r.POST("/api/consent", h.Set)

	rec := serve(r, jsonRequest(http.MethodPost, "/api/consent", `{"granted": true, "page_session_id": "keep"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, discarded.ids)

	rec = serve(r, jsonRequest(http.MethodPost, "/api/consent", `{"granted": false, "page_session_id": "abc"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"abc"}, discarded.ids)
	assert.Equal(t, "denied", findCookie(rec, analytics.ConsentCookie).Value)
}
