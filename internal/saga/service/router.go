package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/frostworks/drogvyn/internal/content"
	"github.com/frostworks/drogvyn/internal/saga/domain"
)

// Fixed covenant voice lines. User-facing failures are narrated, never
// surfaced as technical errors.
const (
	msgPauseGate = "The frost holds. (paused) Whisper: resume... or begin..."
	msgBegin     = "The frost re-reads the Covenant. Memory realigns. The hunt begins."
	msgPause     = "The frost holds. Breath is stilled until you whisper: resume..."
	msgResume    = "Breath returns. The frost moves again."
	msgNoJournal = "(The frost has kept no words yet.)"
	msgUnbound   = "The frost waits. No soul has been bound yet."
	msgNoName    = "The frost hears no name."
)

// Result is the outcome of routing one turn.
type Result struct {
	// Response is the unsanitized response text; the turn processor
	// scrubs it before it leaves the system.
	Response string
	// Mutated reports whether the handler changed the session record.
	Mutated bool
	// Route names the dispatch branch that fired.
	Route string
}

type input struct {
	raw string
	low string
}

// route pairs a predicate with its handler. Routes are evaluated in
// order; the first match is terminal for the turn.
type route struct {
	name   string
	match  func(sess *domain.Session, in input) bool
	handle func(ctx context.Context, sess *domain.Session, in input) Result
}

// Router dispatches sanitized input against the session state machine.
type Router struct {
	source  content.Source
	catalog content.Catalog
	roster  domain.Roster
	clock   func() time.Time
	routes  []route
}

// NewRouter creates a router over the given content source, catalog, and
// roster, with the wall clock.
func NewRouter(source content.Source, catalog content.Catalog, roster domain.Roster) *Router {
	r := &Router{
		source:  source,
		catalog: catalog,
		roster:  roster,
		clock:   time.Now,
	}
	r.routes = r.buildRoutes()
	return r
}

// Route evaluates the dispatch table for one sanitized input line. The
// pause gate fires first; name selection outranks lifecycle commands,
// which outrank content lookups; echo is the terminal fallback.
func (r *Router) Route(ctx context.Context, sess *domain.Session, text string) Result {
	in := input{raw: text, low: strings.ToLower(text)}
	for _, candidate := range r.routes {
		if candidate.match(sess, in) {
			result := candidate.handle(ctx, sess, in)
			result.Route = candidate.name
			return result
		}
	}
	// The echo route matches everything; this is unreachable.
	return Result{Response: fmt.Sprintf("The frost remembers: %s", text), Route: "echo"}
}

func (r *Router) buildRoutes() []route {
	return []route{
		{
			name: "pause_gate",
			match: func(sess *domain.Session, in input) bool {
				if !sess.Paused {
					return false
				}
				return !strings.HasPrefix(in.low, "resume") && !strings.HasPrefix(in.low, "begin")
			},
			handle: func(ctx context.Context, sess *domain.Session, in input) Result {
				return Result{Response: msgPauseGate}
			},
		},
		{
			name: "soulbound",
			match: func(sess *domain.Session, in input) bool {
				_, ok := domain.ParseNameToken(in.raw, r.roster)
				return ok
			},
			handle: r.handleSoulbound,
		},
		{
			name: "begin",
			match: func(sess *domain.Session, in input) bool {
				return in.low == "begin" || in.low == "begin..."
			},
			handle: func(ctx context.Context, sess *domain.Session, in input) Result {
				sess.Begin(r.clock())
				return Result{Response: msgBegin, Mutated: true}
			},
		},
		{
			name: "pause",
			match: func(sess *domain.Session, in input) bool {
				return in.low == "pause" || in.low == "pause..."
			},
			handle: func(ctx context.Context, sess *domain.Session, in input) Result {
				sess.Pause()
				return Result{Response: msgPause, Mutated: true}
			},
		},
		{
			name: "resume",
			match: func(sess *domain.Session, in input) bool {
				return in.low == "resume" || in.low == "resume..."
			},
			handle: func(ctx context.Context, sess *domain.Session, in input) Result {
				sess.Resume()
				return Result{Response: msgResume, Mutated: true}
			},
		},
		{
			name: "canon",
			match: func(sess *domain.Session, in input) bool {
				return r.catalog.HasCanon(in.low)
			},
			handle: func(ctx context.Context, sess *domain.Session, in input) Result {
				return Result{Response: r.fetch(ctx, content.Canon(in.low), in.low)}
			},
		},
		{
			name: "npc",
			match: func(sess *domain.Session, in input) bool {
				return strings.HasPrefix(in.low, "npc ")
			},
			handle: r.handleNPC,
		},
		{
			name: "journal",
			match: func(sess *domain.Session, in input) bool {
				return strings.HasPrefix(in.low, "journal")
			},
			handle: func(ctx context.Context, sess *domain.Session, in input) Result {
				if len(sess.Journal) == 0 {
					return Result{Response: msgNoJournal}
				}
				return Result{Response: strings.Join(sess.Journal, "\n")}
			},
		},
		{
			name: "help",
			match: func(sess *domain.Session, in input) bool {
				return strings.HasPrefix(in.low, "commands")
			},
			handle: func(ctx context.Context, sess *domain.Session, in input) Result {
				return Result{Response: r.helpText()}
			},
		},
		{
			name: "abilities",
			match: func(sess *domain.Session, in input) bool {
				return strings.HasPrefix(in.low, "abilities ")
			},
			handle: func(ctx context.Context, sess *domain.Session, in input) Result {
				return r.handleSheet(ctx, sess, in, "abilities")
			},
		},
		{
			name: "character",
			match: func(sess *domain.Session, in input) bool {
				return strings.HasPrefix(in.low, "character ")
			},
			handle: func(ctx context.Context, sess *domain.Session, in input) Result {
				return r.handleSheet(ctx, sess, in, "character")
			},
		},
		{
			name: "echo",
			match: func(sess *domain.Session, in input) bool {
				return true
			},
			handle: func(ctx context.Context, sess *domain.Session, in input) Result {
				return Result{Response: fmt.Sprintf("The frost remembers: %s", in.raw)}
			},
		},
	}
}

// handleSoulbound resolves the one-time exclusive name selection. The
// bound name never changes; repeat and conflicting selections are
// narrated rejections, not mutations.
func (r *Router) handleSoulbound(ctx context.Context, sess *domain.Session, in input) Result {
	name, _ := domain.ParseNameToken(in.raw, r.roster)
	switch {
	case !sess.Bound():
		if err := sess.Bind(name); err != nil {
			return Result{Response: msgNoName}
		}
		response := fmt.Sprintf("The frostline seals: %s rises as the soulbound.\nAll other names fade beneath the ice.", name)
		return Result{Response: response, Mutated: true}
	case strings.EqualFold(sess.Soulbound, name):
		return Result{Response: fmt.Sprintf("The frost remembers: %s already walks alone.", name)}
	default:
		return Result{Response: fmt.Sprintf("The frost rejects this name. The soulbound is already %s.", sess.Soulbound)}
	}
}

func (r *Router) handleNPC(ctx context.Context, sess *domain.Session, in input) Result {
	name := strings.TrimSpace(in.low[len("npc "):])
	if name == "" {
		// Turn input is trimmed before routing, so this only fires for
		// callers routing raw text directly.
		return Result{Response: msgNoName}
	}
	if !r.catalog.HasNPC(name) {
		return Result{Response: fmt.Sprintf("The frost remembers no NPC named %s.", name)}
	}
	return Result{Response: r.fetch(ctx, content.NPC(name), "NPC "+name)}
}

// handleSheet serves the gated per-character lookups. Both sheets require
// a soulbound, and only the bound name may be asked after.
func (r *Router) handleSheet(ctx context.Context, sess *domain.Session, in input, kind string) Result {
	if !sess.Bound() {
		return Result{Response: msgUnbound}
	}

	arg := strings.TrimSpace(in.raw[len(kind)+1:])
	if arg == "" {
		// Only reachable for callers routing untrimmed text directly.
		return Result{Response: msgNoName}
	}

	name, ok := domain.ParseNameToken(arg, r.roster)
	if kind == "abilities" {
		if !ok || !strings.EqualFold(sess.Soulbound, name) {
			return Result{Response: fmt.Sprintf("The frost denies you. Only %s may be remembered.", sess.Soulbound)}
		}
		return Result{Response: r.fetch(ctx, content.Abilities(sess.Soulbound), "abilities")}
	}
	if !ok || !strings.EqualFold(sess.Soulbound, name) {
		return Result{Response: fmt.Sprintf("The frost denies you. Only %s may walk here.", sess.Soulbound)}
	}
	return Result{Response: r.fetch(ctx, content.Character(sess.Soulbound), "character sheet")}
}

// fetch loads a document, mapping absence and read failures to themed
// placeholders.
func (r *Router) fetch(ctx context.Context, key content.Key, label string) string {
	text, err := r.source.Resolve(ctx, key)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return fmt.Sprintf("(The frost remembers no %s here.)", label)
		}
		log.Printf("saga: resolve content %q: %v", string(key), err)
		return fmt.Sprintf("(The frost cannot read the %s.)", label)
	}
	return text
}

func (r *Router) helpText() string {
	names := make([]string, 0, len(r.roster))
	for _, name := range r.roster {
		names = append(names, name+".")
	}
	return "Whisper:\n" +
		"• " + strings.Join(names, " / ") + "\n" +
		"• begin... / pause... / resume...\n" +
		"• journal...\n" +
		"• abilities {Name}\n" +
		"• character {Name}\n" +
		"• covenant / world / flora / commands\n" +
		"• npc eirlys"
}
