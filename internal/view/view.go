// Package view renders the site's HTML from embedded templates. The home
// page is split into sections, each rendered behind its own error
// boundary so one broken section leaves the rest of the page intact.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/Zachkp/cosmic-portfolio/internal/boundary"
	"github.com/Zachkp/cosmic-portfolio/internal/content"
	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Sections in page order.
var Sections = []string{"about", "experience", "achievements", "projects", "skills", "blog", "footer"}

// PageData is everything the home page needs for one request.
type PageData struct {
	Title        string
	Mode         string
	ShowBanner   bool
	Content      content.Collections
	ContentError string
	SiteURL      string
	Now          time.Time
}

// SectionFunc produces one section's markup.
type SectionFunc func(PageData) (template.HTML, error)

type Renderer struct {
	tmpl     *template.Template
	registry *boundary.Registry
	log      *logger.Logger
	sections map[string]SectionFunc
}

func New(registry *boundary.Registry, log *logger.Logger) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r := &Renderer{
		tmpl:     tmpl,
		registry: registry,
		log:      log.With("service", "ViewRenderer"),
	}
	r.sections = map[string]SectionFunc{
		"about":        r.about,
		"experience":   r.experience,
		"achievements": r.achievements,
		"projects":     r.projects,
		"skills":       r.skills,
		"blog":         r.blog,
		"footer":       r.footer,
	}
	return r, nil
}

// Override replaces a section's producer.
func (r *Renderer) Override(name string, fn SectionFunc) {
	r.sections[name] = fn
}

func (r *Renderer) HasSection(name string) bool {
	_, ok := r.sections[name]
	return ok
}

// Execute writes a named template.
func (r *Renderer) Execute(w io.Writer, name string, data any) error {
	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

type pageView struct {
	PageData
	Sections []template.HTML
}

// Page renders the home page. Section failures become fallbacks; only a
// failure of the layout itself is returned.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	if data.Now.IsZero() {
		data.Now = time.Now()
	}
	view := pageView{PageData: data}
	for _, name := range Sections {
		view.Sections = append(view.Sections, r.Section(name, data))
	}
	return r.Execute(w, "page", view)
}

// Section renders one section behind a fresh boundary.
func (r *Renderer) Section(name string, data PageData) template.HTML {
	if data.Now.IsZero() {
		data.Now = time.Now()
	}
	fn, ok := r.sections[name]
	if !ok {
		fn = func(PageData) (template.HTML, error) { return "", fmt.Errorf("unknown section %q", name) }
	}
	b := boundary.New(name, r.registry, r.fallback)
	return b.Render(func() (template.HTML, error) { return fn(data) })
}

func (r *Renderer) fallback(name string, err error) template.HTML {
	r.log.Warn("Section failed", "section", name, "error", err)
	out, ferr := r.fragment("section_fallback", struct{ Name string }{name})
	if ferr != nil {
		return boundary.DefaultFallback(name, err)
	}
	return out
}

func (r *Renderer) fragment(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

var funcs = template.FuncMap{
	"monthYear": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2006")
	},
	"endDate": func(t *time.Time, current bool) string {
		if current || t == nil {
			return "Present"
		}
		return t.Format("Jan 2006")
	},
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("January 2, 2006")
	},
	"join":  strings.Join,
	"year":  func(t time.Time) int { return t.Year() },
	"lower": strings.ToLower,
}
