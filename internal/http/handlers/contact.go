package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/cosmic-portfolio/internal/content"
	"github.com/Zachkp/cosmic-portfolio/internal/http/middleware"
	"github.com/Zachkp/cosmic-portfolio/internal/mailer"
	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
	"github.com/Zachkp/cosmic-portfolio/internal/store"
	"github.com/Zachkp/cosmic-portfolio/internal/view"
)

const (
	contactSuccessMessage = "Thank you for your message! I'll get back to you soon."
	contactErrorMessage   = "Sorry, there was an error sending your message. Please try again later."
)

type MessageStore interface {
	SaveContactMessage(ctx context.Context, m store.ContactMessage) (store.ContactMessage, error)
	MarkDelivered(ctx context.Context, id string) error
}

type ContactHandler struct {
	renderer *view.Renderer
	messages MessageStore
	mail     mailer.Mailer
	hasher   middleware.IPHasher
	log      *logger.Logger
}

func NewContactHandler(renderer *view.Renderer, messages MessageStore, mail mailer.Mailer, hasher middleware.IPHasher, log *logger.Logger) *ContactHandler {
	return &ContactHandler{
		renderer: renderer,
		messages: messages,
		mail:     mail,
		hasher:   hasher,
		log:      log.With("handler", "ContactHandler"),
	}
}

// Form returns the contact form fragment.
func (h *ContactHandler) Form(c *gin.Context) {
	renderHTML(c, h.renderer, h.log, http.StatusOK, "contact_form", view.ContactFormView{Title: "Contact Me"})
}

// Submit validates the form. Field errors re-render the form with a 422.
// A filled honeypot gets the success notice without anything being kept.
// Valid messages are stored first, then mailed; a mail failure shows the
// error notice but the stored message stays for the dashboard.
func (h *ContactHandler) Submit(c *gin.Context) {
	var form content.ContactForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.Debug("Contact form bind failed", "error", err)
	}
	form.Normalize()

	if form.IsSpam() {
		h.log.Info("Dropped contact form spam", "client_ip", c.ClientIP())
		renderHTML(c, h.renderer, h.log, http.StatusOK, "contact_success", contactSuccessMessage)
		return
	}

	if err := form.Validate(); err != nil {
		var fe content.FieldErrors
		if !errors.As(err, &fe) {
			h.log.Error("Contact form validation error", "error", err)
			renderHTML(c, h.renderer, h.log, http.StatusOK, "contact_error", contactErrorMessage)
			return
		}
		renderHTML(c, h.renderer, h.log, http.StatusUnprocessableEntity, "contact_form",
			view.ContactFormView{Title: "Contact Me", Form: form, Errors: fe})
		return
	}

	ctx := c.Request.Context()
	saved, err := h.messages.SaveContactMessage(ctx, store.ContactMessage{
		Name:     form.Name,
		Email:    form.Email,
		Subject:  form.Subject,
		Message:  form.Message,
		HashedIP: h.hasher.Hash(c.ClientIP()),
	})
	if err != nil {
		h.log.Error("Failed to store contact message", "error", err)
		saved.ID = ""
	}

	if err := h.mail.Send(ctx, mailer.Message{
		Name:    form.Name,
		Email:   form.Email,
		Subject: form.Subject,
		Body:    form.Message,
	}); err != nil {
		h.log.Warn("Contact message not delivered", "message_id", saved.ID, "error", err)
		renderHTML(c, h.renderer, h.log, http.StatusOK, "contact_error", contactErrorMessage)
		return
	}

	if saved.ID != "" {
		if err := h.messages.MarkDelivered(ctx, saved.ID); err != nil {
			h.log.Warn("Failed to mark message delivered", "message_id", saved.ID, "error", err)
		}
	}
	renderHTML(c, h.renderer, h.log, http.StatusOK, "contact_success", contactSuccessMessage)
}
