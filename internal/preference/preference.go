// Package preference tracks the visitor's display mode.
package preference

import (
	"strings"
	"sync"
)

// StorageKey is where the mode is persisted.
const StorageKey = "portfolioMode"

// LegacyProfessional is an older stored value that now means Professional.
const LegacyProfessional = "normal-bg"

type Mode int

const (
	Cosmic Mode = iota
	Professional
	Basic
)

var modeNames = [...]string{"cosmic", "professional", "basic"}

func (m Mode) String() string {
	if m < Cosmic || m > Basic {
		return modeNames[Cosmic]
	}
	return modeNames[m]
}

// Next is the toggle order: cosmic, professional, basic, then back.
func (m Mode) Next() Mode {
	switch m {
	case Cosmic:
		return Professional
	case Professional:
		return Basic
	default:
		return Cosmic
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	*m, _ = Parse(string(b))
	return nil
}

// Parse maps a stored value to a Mode. The legacy value becomes
// Professional with migrated set; anything unrecognised is Cosmic.
func Parse(raw string) (mode Mode, migrated bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == LegacyProfessional {
		return Professional, true
	}
	for i, name := range modeNames {
		if v == name {
			return Mode(i), false
		}
	}
	return Cosmic, false
}

// Store is a string key-value store such as a cookie jar or browser storage.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Preferences owns the current mode and writes it to its Store on every
// state entry.
type Preferences struct {
	mu    sync.Mutex
	store Store
	mode  Mode
}

// Load restores the mode from store, migrating the legacy value, and
// persists the entered state.
func Load(store Store) *Preferences {
	p := &Preferences{store: store, mode: Cosmic}
	raw, ok := store.Get(StorageKey)
	if ok {
		p.mode, _ = Parse(raw)
	}
	// A stored canonical value already matches; anything else is rewritten.
	if !ok || raw != p.mode.String() {
		p.persist()
	}
	return p
}

func (p *Preferences) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

func (p *Preferences) Toggle() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = p.mode.Next()
	p.persistLocked()
	return p.mode
}

func (p *Preferences) Set(m Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m < Cosmic || m > Basic {
		m = Cosmic
	}
	p.mode = m
	p.persistLocked()
}

func (p *Preferences) persist() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.persistLocked()
}

func (p *Preferences) persistLocked() {
	p.store.Set(StorageKey, p.mode.String())
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	writes int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.writes++
}

// Writes counts Set calls.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
