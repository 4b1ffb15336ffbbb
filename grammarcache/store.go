// Package grammarcache persists a loaded *grammar.Definition to disk so a
// host that re-parses the same grammar file across runs (or across the
// per-file Engine snapshots spawned by Engine.ParseMany) can skip
// re-running the loader. Entries are keyed by a content hash of the
// grammar's own source text rather than its file path, so renaming or
// relocating a grammar file never misses the cache and editing its text
// always does.
package grammarcache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/dekarrin/rezi"

	"github.com/duskline/glrfront/glrerr"
	"github.com/duskline/glrfront/grammar"
)

// Store reads and writes cached Definitions under a directory, one file per
// content hash.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir. dir is created on first Put if it
// does not already exist.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Key returns the cache key for grammar source text: the hex SHA-256 digest
// of text, the same "content hash" SPEC_FULL.md's grammar-cache section
// names.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".rezi")
}

// Get loads the Definition cached for text's content hash, if present. A
// miss (no error, ok=false) is the expected, common case on first load of a
// grammar or after editing it.
func (s *Store) Get(text string) (def *grammar.Definition, ok bool, err error) {
	data, rerr := os.ReadFile(s.path(Key(text)))
	if rerr != nil {
		if os.IsNotExist(rerr) {
			return nil, false, nil
		}
		return nil, false, glrerr.New("reading grammar cache entry", glrerr.ErrGrammar, rerr)
	}

	var entry cachedDefinition
	n, derr := rezi.DecBinary(data, &entry)
	if derr != nil {
		return nil, false, glrerr.New("decoding grammar cache entry", glrerr.ErrGrammar, derr)
	}
	if n != len(data) {
		return nil, false, glrerr.New("grammar cache entry decoded short", glrerr.ErrGrammar)
	}

	return entry.toDefinition(), true, nil
}

// Put encodes def with rezi and writes it under text's content hash,
// creating the store directory if needed. A caller that loaded def from
// text should Put it immediately after a successful Load so the next run
// hits Get instead of re-parsing.
func (s *Store) Put(text string, def *grammar.Definition) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return glrerr.New("creating grammar cache dir", glrerr.ErrGrammar, err)
	}

	entry := fromDefinition(def)
	data := rezi.EncBinary(entry)

	return os.WriteFile(s.path(Key(text)), data, 0o644)
}

// LoadOrParse returns the Definition cached for text if present, otherwise
// parses text with load (typically grammar.NewLoader().Load), caching a
// successful parse for next time. Diagnostics are only ever returned from a
// fresh parse; a cache hit implies the grammar already passed loading once
// with whatever diagnostics it produced then, which this call does not
// replay.
func (s *Store) LoadOrParse(key, text string, load func(key, text string) (*grammar.Definition, []grammar.Diagnostic, error)) (*grammar.Definition, []grammar.Diagnostic, error) {
	if def, ok, err := s.Get(text); err == nil && ok {
		return def, nil, nil
	}

	def, diags, err := load(key, text)
	if err != nil {
		return nil, diags, err
	}
	_ = s.Put(text, def)
	return def, diags, nil
}
