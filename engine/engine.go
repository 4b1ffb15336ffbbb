// Package engine wires the byteview/uprop/patscan/lex/grammar/glr/scope
// layers into the conceptual Engine operations spec.md §6 names:
// load_grammar, parse, parse_many, parse_and_merge, and the refactoring
// entry points, none of which ever panics or propagates a raw error for an
// ordinary scan/lex/parse failure (spec.md §7) — those come back as a
// ParsingResult with Success=false and a populated Errors list instead.
package engine

import (
	"context"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/duskline/glrfront/glr"
	"github.com/duskline/glrfront/glrerr"
	"github.com/duskline/glrfront/grammar"
	"github.com/duskline/glrfront/lex"
	"github.com/duskline/glrfront/loc"
	"github.com/duskline/glrfront/refactor"
	"github.com/duskline/glrfront/scope"
)

// ParseOptions tunes one Parse/ParseMany/ParseAndMerge call: the GLR
// exploration bounds and an optional wall-clock deadline (spec.md §4.5,
// §5). The zero value uses glr.DefaultBounds() and no deadline.
type ParseOptions struct {
	Bounds   glr.Bounds
	Deadline time.Duration
}

// ParsingResult is the conceptual ParsingResult of spec.md §6: success,
// the token stream, the best parse tree, every surviving ambiguous tree,
// the conflict-resolution log, any errors, elapsed time, the lexer path
// count, the final lexer context, and the symbol model the parse
// populated.
type ParsingResult struct {
	Success        bool
	TraceID        string
	Tokens         []lex.StepToken
	Tree           *glr.Node
	AmbiguousTrees []*glr.Node
	Conflicts      []glr.ConflictResolution
	Errors         []error
	Elapsed        time.Duration
	PathCount      int
	FinalContext   string
	Symbols        *scope.Table
}

// Engine drives one loaded grammar.Definition: it holds no persisted state
// across calls other than the grammar itself and the tree/symbol model
// from its most recent successful Parse, matching spec.md §6's
// "Persisted state: none ... other than the grammar cache and the loaded
// grammar on the engine instance."
type Engine struct {
	def     *grammar.Definition
	log     Logger
	userFns map[string]func(lex.StepToken)

	lastTree    *glr.Node
	lastSymbols *scope.Table
}

// New returns an Engine driving def.
func New(def *grammar.Definition) *Engine {
	return &Engine{def: def, userFns: make(map[string]func(lex.StepToken))}
}

// WithLogger attaches a diagnostic sink for lexer-path-fork and GLR-fork
// tracing; the zero Logger discards everything.
func (e *Engine) WithLogger(l Logger) *Engine {
	e.log = l
	return e
}

// RegisterAction binds a host callback to a grammar rule's `=> { id }` user
// action — the action-VM extension point spec.md §9 asks for instead of
// the source's closures-by-name. id matches the code inside the braces of
// a TokenRule or ProductionRule action that isn't one of the built-in
// kinds (skip, rename, push/pop context, emit_symbol).
func (e *Engine) RegisterAction(id string, fn func(lex.StepToken)) {
	e.userFns[id] = fn
}

// LoadGrammar resolves pathOrText to grammar text — reading it as a file
// if it names one that exists, otherwise treating it as grammar text
// directly — and loads it into a Definition, per spec.md §6's
// load_grammar. File resolution is the one blocking operation spec.md §5
// allows the grammar loader; ctx is honored only insofar as a caller can
// race it against the read, since os.ReadFile itself is not
// cancelable — callers on a hard deadline should pre-read the text.
func LoadGrammar(ctx context.Context, pathOrText string) (*grammar.Definition, []grammar.Diagnostic, error) {
	text := pathOrText
	key := pathOrText
	if info, err := os.Stat(pathOrText); err == nil && !info.IsDir() {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}
		data, rerr := os.ReadFile(pathOrText)
		if rerr != nil {
			return nil, nil, glrerr.New("reading grammar file", glrerr.ErrGrammar, rerr)
		}
		text = string(data)
	}
	l := grammar.NewLoader()
	def, diags, err := l.Load(key, text)
	if err != nil {
		return nil, diags, err
	}
	return def, diags, nil
}

// DetectBOM sniffs b for one of the Byte-Order Marks spec.md §6 lists,
// returning the encoding name it implies and the BOM's byte length (0 when
// absent, in which case the encoding is presumed UTF-8). Transcoding a
// non-UTF-8 input is explicitly out of scope (spec.md §1); this is only
// the zero-allocation sniff a caller's transcoder would key off of.
func DetectBOM(b []byte) (encoding string, bomLen int) {
	switch {
	case hasPrefix(b, 0xEF, 0xBB, 0xBF):
		return "UTF-8", 3
	case hasPrefix(b, 0xFF, 0xFE, 0x00, 0x00):
		return "UTF-32LE", 4
	case hasPrefix(b, 0x00, 0x00, 0xFE, 0xFF):
		return "UTF-32BE", 4
	case hasPrefix(b, 0xFF, 0xFE):
		return "UTF-16LE", 2
	case hasPrefix(b, 0xFE, 0xFF):
		return "UTF-16BE", 2
	default:
		return "UTF-8", 0
	}
}

func hasPrefix(b []byte, want ...byte) bool {
	if len(b) < len(want) {
		return false
	}
	for i, w := range want {
		if b[i] != w {
			return false
		}
	}
	return true
}

// Parse lexes and parses src under fileName, returning a ParsingResult
// that never errors for an ordinary scan/lex/parse/bounds failure — those
// surface as Success=false with Errors populated, per spec.md §7. A
// grammar whose token patterns fail to compile is reported the same way,
// in Errors; the returned error is always nil.
func (e *Engine) Parse(ctx context.Context, src []byte, fileName string, opts ParseOptions) (*ParsingResult, error) {
	start := time.Now()
	res := &ParsingResult{TraceID: uuid.NewString()}
	e.log.Tracef("parse %s: starting trace=%s bytes=%d", fileName, res.TraceID, len(src))

	if opts.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Deadline)
		defer cancel()
	}

	_, bomLen := DetectBOM(src)
	src = src[bomLen:]

	lx, err := lex.New(e.def)
	if err != nil {
		res.Errors = append(res.Errors, err)
		res.Elapsed = time.Since(start)
		return res, nil
	}

	collector := newSymbolCollector(e.userFns)
	paths, err := lx.Run(fileName, src, collector)
	if err != nil {
		res.Errors = append(res.Errors, err)
		res.Elapsed = time.Since(start)
		return res, nil
	}
	if verr := lex.Validate(paths, len(src)); verr != nil {
		res.Errors = append(res.Errors, verr)
		res.Elapsed = time.Since(start)
		return res, nil
	}

	res.PathCount = len(paths)
	var tokens []lex.StepToken
	finalContext := ""
	for _, p := range paths {
		if p.Valid {
			tokens = p.Tokens
			finalContext = p.CurrentContext()
			break
		}
	}
	res.Tokens = tokens
	res.FinalContext = finalContext

	bounds := opts.Bounds
	defaults := glr.DefaultBounds()
	if bounds.MaxSteps == 0 {
		bounds.MaxSteps = defaults.MaxSteps
	}
	if bounds.MaxPaths == 0 {
		bounds.MaxPaths = defaults.MaxPaths
	}
	if bounds.NoProgressLimit == 0 {
		bounds.NoProgressLimit = defaults.NoProgressLimit
	}
	parser := glr.New(e.def).WithBounds(bounds)
	trees, conflicts, perr := parser.ParseAll(ctx, tokens)
	res.Conflicts = conflicts
	if perr != nil {
		res.Errors = append(res.Errors, perr)
		res.Elapsed = time.Since(start)
		return res, nil
	}

	walkProductionActions(trees[0], e.def, collector.table)

	res.Success = true
	res.Tree = trees[0]
	res.AmbiguousTrees = trees
	res.Symbols = collector.table

	e.lastTree = res.Tree
	e.lastSymbols = res.Symbols
	res.Elapsed = time.Since(start)
	e.log.Tracef("parse %s: trace=%s paths=%d trees=%d elapsed=%s", fileName, res.TraceID, res.PathCount, len(trees), res.Elapsed)
	return res, nil
}

// ParseMany parses every file concurrently (one goroutine per file, run
// through golang.org/x/sync/errgroup with no concurrency limit) and merges the per-file
// ParsingResults into one on the calling goroutine: each file gets its own
// Engine snapshot sharing this Engine's read-only grammar but with a
// private token/path set and symbol overlay, so concurrent parses never
// share mutable state. An empty files map returns Success=false per
// spec.md §8's boundary behavior.
func (e *Engine) ParseMany(ctx context.Context, files map[string][]byte, opts ParseOptions) (*ParsingResult, error) {
	if len(files) == 0 {
		return &ParsingResult{
			Success: false,
			Errors:  []error{glrerr.New("parse_many called with no files", glrerr.ErrSyntax)},
		}, nil
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]*ParsingResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			sub := New(e.def)
			sub.userFns = e.userFns
			r, err := sub.Parse(gctx, files[name], name, opts)
			results[i] = r
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &ParsingResult{Success: true}
	for _, r := range results {
		merged.Tokens = append(merged.Tokens, r.Tokens...)
		merged.Conflicts = append(merged.Conflicts, r.Conflicts...)
		merged.Errors = append(merged.Errors, r.Errors...)
		merged.PathCount += r.PathCount
		merged.Elapsed += r.Elapsed
		merged.FinalContext = r.FinalContext
		if !r.Success {
			merged.Success = false
			continue
		}
		merged.AmbiguousTrees = append(merged.AmbiguousTrees, r.AmbiguousTrees...)
		if merged.Tree == nil {
			merged.Tree = r.Tree
		}
	}
	return merged, nil
}

// ParseAndMerge re-parses src and returns its tree, preserving existing
// unchanged when the new parse fails — spec.md §6's parse_and_merge.
func (e *Engine) ParseAndMerge(ctx context.Context, existing *glr.Node, src []byte, fileName string, opts ParseOptions) (*glr.Node, error) {
	res, err := e.Parse(ctx, src, fileName, opts)
	if err != nil {
		return existing, err
	}
	if !res.Success {
		return existing, nil
	}
	return res.Tree, nil
}

// model builds a refactor.Model over the tree and symbol table from the
// most recent successful Parse; a nil tree (no parse yet) makes every
// refactoring operation report "operation not available", per spec.md
// §4.7's contract.
func (e *Engine) model() *refactor.Model {
	return refactor.NewModel(e.lastTree, e.lastSymbols)
}

// FindUsages implements spec.md §4.7's find-usages over the last parse.
func (e *Engine) FindUsages(target loc.CodeLocation, scopeFilter string) (*refactor.Result, error) {
	return e.model().FindUsages(target, scopeFilter)
}

// Rename implements spec.md §4.7's rename over the last parse.
func (e *Engine) Rename(target loc.CodeLocation, newName string) (*refactor.Result, error) {
	return e.model().Rename(target, newName)
}

// ExtractVariable implements spec.md §4.7's extract-variable over the last
// parse.
func (e *Engine) ExtractVariable(target loc.CodeLocation, varName string) (*refactor.Result, error) {
	return e.model().ExtractVariable(target, varName)
}

// InlineVariable implements spec.md §4.7's inline-variable over the last
// parse.
func (e *Engine) InlineVariable(target loc.CodeLocation) (*refactor.Result, error) {
	return e.model().InlineVariable(target)
}

// ApplicableRefactorings implements spec.md §6's
// get_applicable_refactorings over the last parse.
func (e *Engine) ApplicableRefactorings(target loc.CodeLocation) []string {
	return e.model().ApplicableRefactorings(target)
}
