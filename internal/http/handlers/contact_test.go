package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/cosmic-portfolio/internal/http/middleware"
	"github.com/Zachkp/cosmic-portfolio/internal/mailer"
	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
	"github.com/Zachkp/cosmic-portfolio/internal/store"
)

type recordingMailer struct {
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func contactRouter(t *testing.T, mail mailer.Mailer) (*gin.Engine, *store.Store) {
	t.Helper()
	st := seededStore(t)
	h := NewContactHandler(newRenderer(t), st, mail, middleware.NewIPHasher("salt"), logger.Nop())
	r := gin.New()
	r.GET("/contact-form", h.Form)
	r.POST("/contact", h.Submit)
	return r, st
}

func formRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	return req
}

func validContact() url.Values {
	return url.Values{
		"name":    {"  Ada Lovelace "},
		"email":   {"ada@example.com"},
		"subject": {"Hello"},
		"message": {"I enjoyed reading about your projects."},
	}
}

func storedMessages(t *testing.T, st *store.Store) []store.ContactMessage {
	t.Helper()
	msgs, err := st.ListContactMessages(context.Background(), 10)
	require.NoError(t, err)
	return msgs
}

func TestContactFormFragment(t *testing.T) {
	r, _ := contactRouter(t, &recordingMailer{})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/contact-form", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="contact-form"`)
	assert.Contains(t, rec.Body.String(), `name="website"`)
}

func TestContactSubmitDeliversAndStores(t *testing.T) {
	mail := &recordingMailer{}
	r, st := contactRouter(t, mail)

	rec := serve(r, formRequest(validContact()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Thank you for your message")
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "Ada Lovelace", mail.sent[0].Name, "fields are trimmed")

	msgs := storedMessages(t, st)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].Delivered)
	assert.Len(t, msgs[0].HashedIP, 16)
}

func TestContactSubmitMailFailureKeepsMessage(t *testing.T) {
	r, st := contactRouter(t, &recordingMailer{err: mailer.ErrNotConfigured})

	rec := serve(r, formRequest(validContact()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "there was an error sending your message")
	msgs := storedMessages(t, st)
	require.Len(t, msgs, 1)
	assert.False(t, msgs[0].Delivered)
}

func TestContactSubmitFieldErrors(t *testing.T) {
	cases := map[string]func(url.Values){
		"name":    func(v url.Values) { v.Set("name", "   ") },
		"email":   func(v url.Values) { v.Set("email", "not-an-email") },
		"subject": func(v url.Values) { v.Del("subject") },
		"message": func(v url.Values) { v.Set("message", "too short") },
	}
	for field, mutate := range cases {
		field, mutate := field, mutate
		t.Run(field, func(t *testing.T) {
			mail := &recordingMailer{}
			r, st := contactRouter(t, mail)
			values := validContact()
			mutate(values)

			rec := serve(r, formRequest(values))

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, rec.Body.String(), `class="field-error"`)
			assert.Contains(t, rec.Body.String(), `id="contact-form"`)
			assert.Empty(t, mail.sent)
			assert.Empty(t, storedMessages(t, st))
		})
	}
}

func TestContactSubmitHoneypot(t *testing.T) {
	mail := &recordingMailer{}
	r, st := contactRouter(t, mail)
	values := validContact()
	values.Set("website", "http://spam.example")

	rec := serve(r, formRequest(values))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Thank you for your message")
	assert.Empty(t, mail.sent)
	assert.Empty(t, storedMessages(t, st))
}
