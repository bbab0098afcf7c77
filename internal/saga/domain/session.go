package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrAlreadyBound indicates the session already has a soulbound.
	ErrAlreadyBound = errors.New("soulbound is already set")
	// ErrEmptyName indicates a missing character name.
	ErrEmptyName = errors.New("character name is required")
)

// Session is the single persisted record for one saga deployment.
type Session struct {
	// Journal holds every accepted, sanitized player utterance in
	// insertion order. Append-only.
	Journal []string `json:"journal"`
	// Scars is reserved for future use and must survive round-trips.
	Scars []string `json:"scars"`
	// Soulbound is the chosen character name, or empty when unset.
	// Once set it never changes.
	Soulbound string `json:"soulbound,omitempty"`
	// Paused gates all commands except begin and resume.
	Paused bool `json:"paused"`
	// RebindCount counts begin commands. Monotonically non-decreasing.
	RebindCount int `json:"rebind_count"`
	// LastRebindAt is the time of the most recent begin command.
	LastRebindAt *time.Time `json:"last_rebind_at,omitempty"`
}

// NewSession returns the default record used when no state is persisted.
func NewSession() Session {
	return Session{
		Journal: []string{},
		Scars:   []string{},
	}
}

// Bound reports whether a soulbound has been chosen.
func (s *Session) Bound() bool {
	return s.Soulbound != ""
}

// Bind sets the soulbound once. Rebinding is rejected, never applied.
func (s *Session) Bind(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if s.Soulbound != "" {
		return ErrAlreadyBound
	}
	s.Soulbound = name
	return nil
}

// AppendJournal records one utterance. Empty input is skipped; the return
// value reports whether an entry was added.
func (s *Session) AppendJournal(entry string) bool {
	if entry == "" {
		return false
	}
	s.Journal = append(s.Journal, entry)
	return true
}

// Begin records a rebind: the count grows, the timestamp updates, and any
// pause is lifted.
func (s *Session) Begin(now time.Time) {
	s.RebindCount++
	at := now.UTC()
	s.LastRebindAt = &at
	s.Paused = false
}

// Pause stills the session.
func (s *Session) Pause() {
	s.Paused = true
}

// Resume lifts a pause.
func (s *Session) Resume() {
	s.Paused = false
}
