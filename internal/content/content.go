// Package content resolves logical lore keys to text.
//
// Keys span three namespaces: canon documents, NPC sheets, and
// per-soulbound ability/character sheets. The filesystem source mirrors
// the covenant's document layout; everything it returns has been scrubbed
// of reference artifacts.
package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/frostworks/drogvyn/internal/scrub"
)

// ErrNotFound indicates the source has no document for a key.
var ErrNotFound = errors.New("content not found")

// Key names one resolvable document.
type Key string

// Canon returns the key for a canon document such as "covenant" or "world".
func Canon(name string) Key {
	return Key("canon/" + name)
}

// NPC returns the key for an NPC sheet.
func NPC(name string) Key {
	return Key("npc/" + name)
}

// Abilities returns the key for a roster character's abilities sheet.
func Abilities(name string) Key {
	return Key("abilities/" + name)
}

// Character returns the key for a roster character's character sheet.
func Character(name string) Key {
	return Key("character/" + name)
}

// Source resolves a key to document text.
type Source interface {
	Resolve(ctx context.Context, key Key) (string, error)
}

// Catalog maps logical names to document filenames. The canon and NPC
// sets are closed; extending either is configuration, not code.
type Catalog struct {
	Canon map[string]string
	NPCs  map[string]string
}

// DefaultCatalog lists the covenant's fixed documents.
func DefaultCatalog() Catalog {
	return Catalog{
		Canon: map[string]string{
			"covenant": "Covenant of Drogvyn.txt",
			"world":    "Drogvyn World Setting.txt",
			"flora":    "Flora & Fauna & Mineral.txt",
			"commands": "Project Command Sheet.txt",
		},
		NPCs: map[string]string{
			"eirlys": "Eirlys_Character_Sheet.txt",
		},
	}
}

// HasCanon reports whether name is a known canon document.
func (c Catalog) HasCanon(name string) bool {
	_, ok := c.Canon[name]
	return ok
}

// HasNPC reports whether name is a known NPC.
func (c Catalog) HasNPC(name string) bool {
	_, ok := c.NPCs[name]
	return ok
}

// FSSource reads documents from a filesystem rooted at the content
// directory. Soulbound sheets follow the "<Name> Abilities.txt" and
// "<Name> Character Sheet.txt" naming convention.
type FSSource struct {
	fsys    fs.FS
	catalog Catalog
}

// NewFSSource creates a source over fsys using the provided catalog.
func NewFSSource(fsys fs.FS, catalog Catalog) *FSSource {
	return &FSSource{fsys: fsys, catalog: catalog}
}

// Resolve loads and scrubs the document for a key. A missing file is
// reported as ErrNotFound; read failures are returned as errors.
func (s *FSSource) Resolve(ctx context.Context, key Key) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s == nil || s.fsys == nil {
		return "", fmt.Errorf("content source is not configured")
	}

	filename, err := s.filename(key)
	if err != nil {
		return "", err
	}

	raw, err := fs.ReadFile(s.fsys, filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read content %q: %w", filename, err)
	}
	return scrub.Scrub(string(raw)), nil
}

func (s *FSSource) filename(key Key) (string, error) {
	namespace, name, ok := splitKey(string(key))
	if !ok {
		return "", fmt.Errorf("malformed content key %q", key)
	}

	switch namespace {
	case "canon":
		filename, ok := s.catalog.Canon[name]
		if !ok {
			return "", ErrNotFound
		}
		return filename, nil
	case "npc":
		filename, ok := s.catalog.NPCs[name]
		if !ok {
			return "", ErrNotFound
		}
		return filename, nil
	case "abilities":
		return name + " Abilities.txt", nil
	case "character":
		return name + " Character Sheet.txt", nil
	default:
		return "", fmt.Errorf("unknown content namespace %q", namespace)
	}
}

func splitKey(key string) (namespace, name string, ok bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == '/' {
			if i == 0 || i == len(key)-1 {
				return "", "", false
			}
			return key[:i], key[i+1:], true
		}
	}
	return "", "", false
}

var _ Source = (*FSSource)(nil)
