package view

import (
	"time"

	"github.com/Zachkp/cosmic-portfolio/internal/content"
	"github.com/Zachkp/cosmic-portfolio/internal/store"
)

type ContactFormView struct {
	Title  string
	Form   content.ContactForm
	Errors map[string]string
}

type ErrorPageView struct {
	Title   string
	Message string
}

type PrivacyView struct {
	Title           string
	RetentionMonths int
}

type AdminLoginView struct {
	Title string
	Error string
}

type AdminSuccessView struct {
	Title    string
	Username string
}

type AdminDashboardView struct {
	Title           string
	Stats           *store.AdminStats
	ContentError    string
	ContentLoadedAt time.Time
}

type AdminVisitorsView struct {
	Title    string
	Visitors []store.VisitorMetric
}

type AdminMessagesView struct {
	Title    string
	Messages []store.ContactMessage
}

type AdminErrorView struct {
	Title string
	Error string
}
