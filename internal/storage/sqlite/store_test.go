package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/frostworks/drogvyn/internal/saga/domain"
	"github.com/frostworks/drogvyn/internal/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "saga.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestLoadMissingSession(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Load(context.Background()); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	at := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)
	session := domain.Session{
		Journal:      []string{"first words", "second words"},
		Scars:        []string{"old wound"},
		Soulbound:    "Drocathmor",
		Paused:       true,
		RebindCount:  3,
		LastRebindAt: &at,
	}

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save session: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if len(loaded.Journal) != 2 || loaded.Journal[0] != "first words" || loaded.Journal[1] != "second words" {
		t.Fatalf("unexpected journal %v", loaded.Journal)
	}
	if len(loaded.Scars) != 1 || loaded.Scars[0] != "old wound" {
		t.Fatalf("scars did not survive round-trip: %v", loaded.Scars)
	}
	if loaded.Soulbound != "Drocathmor" {
		t.Fatalf("unexpected soulbound %q", loaded.Soulbound)
	}
	if !loaded.Paused {
		t.Fatal("expected paused flag to survive")
	}
	if loaded.RebindCount != 3 {
		t.Fatalf("unexpected rebind count %d", loaded.RebindCount)
	}
	if loaded.LastRebindAt == nil || !loaded.LastRebindAt.Equal(at) {
		t.Fatalf("unexpected rebind timestamp %v", loaded.LastRebindAt)
	}
}

func TestSaveReplacesRecord(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := domain.NewSession()
	first.AppendJournal("one")
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("save first: %v", err)
	}

	second := first
	second.AppendJournal("two")
	if err := second.Bind("Thayren"); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Journal) != 2 {
		t.Fatalf("expected 2 journal entries, got %d", len(loaded.Journal))
	}
	if loaded.Soulbound != "Thayren" {
		t.Fatalf("unexpected soulbound %q", loaded.Soulbound)
	}
	if loaded.LastRebindAt != nil {
		t.Fatalf("expected no rebind timestamp, got %v", loaded.LastRebindAt)
	}
}

func TestReopenKeepsState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saga.db")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	session := domain.NewSession()
	session.AppendJournal("persisted")
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer func() {
		if err := reopened.Close(); err != nil {
			t.Fatalf("close reopened: %v", err)
		}
	}()

	loaded, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	if len(loaded.Journal) != 1 || loaded.Journal[0] != "persisted" {
		t.Fatalf("unexpected journal after reopen %v", loaded.Journal)
	}
}
