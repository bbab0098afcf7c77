package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/frostworks/drogvyn/internal/saga/domain"
	"github.com/frostworks/drogvyn/internal/scrub"
	"github.com/frostworks/drogvyn/internal/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Processor runs one saga turn end to end: scrub input, load the session,
// append the journal entry, route, persist, scrub output.
//
// Turns are serialized: the mutex makes load+mutate+save a critical
// section so concurrent turns cannot interleave their read-modify-write
// cycles.
type Processor struct {
	mu     sync.Mutex
	store  storage.SessionStore
	router *Router
	tracer trace.Tracer
}

// NewProcessor creates a turn processor.
func NewProcessor(store storage.SessionStore, router *Router) *Processor {
	return &Processor{
		store:  store,
		router: router,
		tracer: otel.Tracer("github.com/frostworks/drogvyn/internal/saga/service"),
	}
}

// Submit handles one player utterance and returns the scrubbed response.
//
// The journal append happens before the pause gate, so gated-out turns
// are still recorded. The session is read once and written at most once;
// a store failure fails the whole turn with no partial mutation visible.
func (p *Processor) Submit(ctx context.Context, playerInput string) (string, error) {
	if p == nil || p.store == nil || p.router == nil {
		return "", fmt.Errorf("turn processor is not configured")
	}

	ctx, span := p.tracer.Start(ctx, "saga.turn")
	defer span.End()

	text := scrub.Scrub(strings.TrimSpace(playerInput))

	p.mu.Lock()
	defer p.mu.Unlock()

	session, err := p.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("load session: %w", err)
		}
		session = domain.NewSession()
	}

	appended := session.AppendJournal(text)

	result := p.router.Route(ctx, &session, text)
	span.SetAttributes(attribute.String("saga.route", result.Route))

	if appended || result.Mutated {
		if err := p.store.Save(ctx, session); err != nil {
			return "", fmt.Errorf("save session: %w", err)
		}
	}

	return scrub.Scrub(result.Response), nil
}
