// Package boundary isolates rendering failures to the section that caused
// them and reports them to an installed error reporter.
package boundary

import (
	"fmt"
	"html/template"
	"runtime/debug"
	"sync"
)

// Reporter receives caught errors along with the component trace.
type Reporter interface {
	Report(err error, componentTrace string)
}

type ReporterFunc func(err error, componentTrace string)

func (f ReporterFunc) Report(err error, componentTrace string) { f(err, componentTrace) }

// Registry is the slot error tracking installs its reporter into. Reports
// made while nothing is installed are dropped.
type Registry struct {
	mu       sync.RWMutex
	reporter Reporter
	gen      uint64
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Install sets r as the reporter. The returned func removes it again,
// unless something else was installed in the meantime.
func (reg *Registry) Install(r Reporter) (uninstall func()) {
	reg.mu.Lock()
	reg.gen++
	gen := reg.gen
	reg.reporter = r
	reg.mu.Unlock()

	return func() {
		reg.mu.Lock()
		defer reg.mu.Unlock()
		if reg.gen == gen {
			reg.reporter = nil
		}
	}
}

// Report forwards to the installed reporter and reports whether one was
// present.
func (reg *Registry) Report(err error, componentTrace string) bool {
	if reg == nil {
		return false
	}
	reg.mu.RLock()
	r := reg.reporter
	reg.mu.RUnlock()
	if r == nil {
		return false
	}
	r.Report(err, componentTrace)
	return true
}

// PanicError wraps a recovered panic value.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Boundary wraps one section. After the first failure it renders Fallback
// until Reset.
type Boundary struct {
	name     string
	registry *Registry
	fallback func(name string, err error) template.HTML

	mu  sync.Mutex
	err error
}

func New(name string, registry *Registry, fallback func(name string, err error) template.HTML) *Boundary {
	if fallback == nil {
		fallback = DefaultFallback
	}
	return &Boundary{name: name, registry: registry, fallback: fallback}
}

func (b *Boundary) Name() string { return b.name }

// Render runs fn, or returns the fallback if this boundary already failed.
// A panic or error from fn is recorded, reported, and replaced with the
// fallback.
func (b *Boundary) Render(fn func() (template.HTML, error)) template.HTML {
	b.mu.Lock()
	failed := b.err
	b.mu.Unlock()
	if failed != nil {
		return b.fallback(b.name, failed)
	}

	out, stack, err := b.run(fn)
	if err == nil {
		return out
	}

	b.mu.Lock()
	b.err = err
	b.mu.Unlock()

	b.registry.Report(err, componentTrace(b.name, stack))
	return b.fallback(b.name, err)
}

func (b *Boundary) run(fn func() (template.HTML, error)) (out template.HTML, stack []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			stack = debug.Stack()
			err = &PanicError{Value: r, Stack: stack}
			out = ""
		}
	}()
	out, err = fn()
	return out, nil, err
}

func (b *Boundary) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

func (b *Boundary) Failed() bool { return b.Err() != nil }

// Reset clears the failure so the next Render tries again. It is for
// boundaries kept across renders; page sections get a new boundary per
// request, so their "try again" link simply renders again.
func (b *Boundary) Reset() {
	b.mu.Lock()
	b.err = nil
	b.mu.Unlock()
}

func componentTrace(name string, stack []byte) string {
	trace := "in " + name
	if len(stack) > 0 {
		trace += "\n" + string(stack)
	}
	return trace
}

// DefaultFallback is a minimal notice with a retry link.
func DefaultFallback(name string, _ error) template.HTML {
	return template.HTML(fmt.Sprintf(
		`<section class="section-error" data-section="%s"><p>Something went wrong loading this section.</p><a href="?retry=%s" class="btn-retry">Try again</a></section>`,
		template.HTMLEscapeString(name), template.URLQueryEscaper(name),
	))
}
