package storage

import (
	"context"
	"errors"

	"github.com/frostworks/drogvyn/internal/saga/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// SessionStore persists the single saga session record.
//
// Load returns ErrNotFound when no record has been saved yet; callers are
// expected to fall back to domain.NewSession. Save replaces the whole
// record, scars included, so unused fields survive round-trips.
type SessionStore interface {
	Load(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, session domain.Session) error
}
