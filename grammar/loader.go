package grammar

import (
	"regexp"
	"strconv"
	"strings"
)

// Loader parses grammar text into Definitions and resolves Inherits
// directives against a registry of base grammars, caching by name/path so
// repeated loads of the same grammar don't re-parse (spec.md §4.4 "Loader
// caches by path").
type Loader struct {
	bases map[string]*Definition
	cache map[string]*Definition
}

// NewLoader returns a Loader pre-seeded with the built-in base grammars
// antlr4_base and bison_base.
func NewLoader() *Loader {
	l := &Loader{
		bases: map[string]*Definition{},
		cache: map[string]*Definition{},
	}
	l.RegisterBase(builtinANTLR4Base())
	l.RegisterBase(builtinBisonBase())
	return l
}

// RegisterBase adds (or replaces) a named base grammar resolvable by a
// later Inherits directive.
func (l *Loader) RegisterBase(d *Definition) {
	l.bases[d.Name] = d
}

// Load parses text under the given cache key (typically a file path, or the
// text itself when loading from an in-memory string) and returns the
// merged Definition plus any diagnostics collected along the way. A
// previous Load under the same key returns the cached result.
func (l *Loader) Load(key string, text string) (*Definition, []Diagnostic, error) {
	if cached, ok := l.cache[key]; ok {
		return cached, nil, nil
	}

	def, diags := parseGrammarText(text)

	for _, baseName := range def.Imports {
		base, ok := l.bases[baseName]
		if !ok {
			diags = append(diags, Diagnostic{Message: "unresolved inheritance: " + baseName})
			continue
		}
		mergeInto(def, base, &diags)
	}

	l.cache[key] = def
	return def, diags, nil
}

var (
	reDirective   = regexp.MustCompile(`^(\w+):\s*(.*)$`)
	reTokenRule   = regexp.MustCompile(`^<([A-Za-z_][A-Za-z0-9_]*)>\s*::=\s*(.*)$`)
	reProdRule    = regexp.MustCompile(`^<([A-Za-z_][A-Za-z0-9_]*)\s*(?:\(([^)]*)\))?>\s*::=\s*(.*)$`)
	reActionTail  = regexp.MustCompile(`^(.*?)=>\s*\{(.*)\}\s*$`)
	reProjection  = regexp.MustCompile(`^@context\(([^)]*)\)\s*@projection\(([^)]*)\)\s*(\S+)\s*=>\s*\{(.*)\}\s*$`)
)

// parseGrammarText implements the line-oriented grammar syntax of
// spec.md §4.4. It never returns an error for malformed lines; it records
// a Diagnostic and keeps going, returning the partial grammar as specified.
func parseGrammarText(text string) (*Definition, []Diagnostic) {
	def := NewDefinition("")
	var diags []Diagnostic

	lines := strings.Split(text, "\n")
	var pendingRuleLines []string
	var pendingLineNo int

	flushPending := func() {
		if len(pendingRuleLines) == 0 {
			return
		}
		joined := strings.Join(pendingRuleLines, " ")
		if err := parseRuleLine(def, joined); err != "" {
			diags = append(diags, Diagnostic{Line: pendingLineNo, Message: err})
		}
		pendingRuleLines = nil
	}

	for i := 0; i < len(lines); i++ {
		raw := lines[i]
		line := strings.TrimSpace(raw)
		lineNo := i + 1

		if line == "" {
			flushPending()
			continue
		}
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "@context(") {
			flushPending()
			if m := reProjection.FindStringSubmatch(line); m != nil {
				def.Projections = append(def.Projections, ContextProjection{
					Context:    strings.TrimSpace(m[1]),
					Projection: strings.TrimSpace(m[2]),
					Rule:       strings.TrimSpace(m[3]),
					Code:       strings.TrimSpace(m[4]),
				})
			} else {
				diags = append(diags, Diagnostic{Line: lineNo, Message: "malformed context projection: " + line})
			}
			continue
		}

		if strings.HasPrefix(line, "Precedence:") {
			flushPending()
			rest := strings.TrimSpace(strings.TrimPrefix(line, "Precedence:"))
			block := rest
			for !balanced(block) && i+1 < len(lines) {
				i++
				block += " " + strings.TrimSpace(lines[i])
			}
			parsePrecedenceBlock(def, block, &diags, lineNo)
			continue
		}

		if m := reDirective.FindStringSubmatch(line); m != nil && !strings.HasPrefix(line, "<") {
			flushPending()
			applyDirective(def, m[1], strings.TrimSpace(m[2]))
			continue
		}

		if strings.HasPrefix(line, "<") {
			flushPending()
			pendingRuleLines = []string{line}
			pendingLineNo = lineNo
			// continuation: keep consuming lines until the next one starts
			// a new rule/directive, per "a multi-line continuation follows
			// a line whose next line does not begin with '<'".
			for i+1 < len(lines) {
				next := strings.TrimSpace(lines[i+1])
				if next == "" || strings.HasPrefix(next, "<") || strings.HasPrefix(next, "@context(") ||
					strings.HasPrefix(next, "Precedence:") || reDirective.MatchString(next) {
					break
				}
				i++
				pendingRuleLines = append(pendingRuleLines, next)
			}
			flushPending()
			continue
		}

		diags = append(diags, Diagnostic{Line: lineNo, Message: "unrecognized line: " + line})
	}
	flushPending()

	return def, diags
}

func balanced(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth <= 0
}

func applyDirective(def *Definition, key, value string) {
	switch key {
	case "Grammar":
		def.Name = value
	case "TokenSplitter":
		def.TokenSplitter = value
	case "Inherits":
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				def.Imports = append(def.Imports, part)
			}
		}
	case "Inheritable":
		def.Inheritable = strings.EqualFold(value, "true")
	case "FormatType":
		def.FormatType = value
	}
}

// parseRuleLine classifies and adds a single logical (possibly
// continuation-joined) rule line. It returns a non-empty diagnostic message
// on failure instead of an error, per the loader's non-fatal policy.
func parseRuleLine(def *Definition, line string) string {
	action := Action{}
	body := line
	if m := reActionTail.FindStringSubmatch(line); m != nil {
		body = strings.TrimSpace(m[1])
		action = parseActionCode(m[2])
	}

	if m := reTokenRule.FindStringSubmatch(body); m != nil && isTokenPattern(m[2]) {
		name := m[1]
		pattern, form := classifyPattern(strings.TrimSpace(m[2]))
		def.AddTokenRule(TokenRule{
			Name:    name,
			Pattern: pattern,
			Form:    form,
			Skip:    action.Kind == ActionSkip,
			Action:  action,
		})
		return ""
	}

	if m := reProdRule.FindStringSubmatch(body); m != nil {
		name := m[1]
		context, priority := parseContextSpec(m[2])
		rhsText := m[3]
		for _, alt := range strings.Split(rhsText, "|") {
			symbols, err := parseRHS(alt)
			if err != "" {
				return err
			}
			def.AddProductionRule(ProductionRule{
				Name:       name,
				RHS:        symbols,
				Context:    context,
				Precedence: priority,
				Action:     action,
			})
		}
		return ""
	}

	return "malformed rule line: " + line
}

// isTokenPattern implements the classification rule of spec.md §4.4: a rule
// whose RHS begins with /, ', or " or contains no <...> and no | is a token
// rule; otherwise it's a production rule.
func isTokenPattern(rhs string) bool {
	rhs = strings.TrimSpace(rhs)
	if rhs == "" {
		return false
	}
	if rhs[0] == '/' || rhs[0] == '\'' || rhs[0] == '"' {
		return true
	}
	return !strings.Contains(rhs, "<") && !strings.Contains(rhs, "|")
}

func classifyPattern(p string) (string, PatternForm) {
	if len(p) >= 2 && p[0] == '/' && p[len(p)-1] == '/' {
		return p[1 : len(p)-1], PatternRegex
	}
	if len(p) >= 2 && (p[0] == '"' || p[0] == '\'') && p[len(p)-1] == p[0] {
		return p[1 : len(p)-1], PatternLiteral
	}
	return p, PatternWord
}

func parseContextSpec(spec string) (context string, priority int) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", 0
	}
	parts := strings.Split(spec, ",")
	context = strings.TrimSpace(parts[0])
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if strings.HasPrefix(p, "priority:") {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(p, "priority:")))
			if err == nil {
				priority = n
			}
		}
	}
	return context, priority
}

func parseRHS(alt string) ([]Symbol, string) {
	alt = strings.TrimSpace(alt)
	if alt == "" {
		return nil, ""
	}
	fields := splitRHSFields(alt)
	symbols := make([]Symbol, 0, len(fields))
	for _, f := range fields {
		sym, err := parseSymbol(f)
		if err != "" {
			return nil, err
		}
		symbols = append(symbols, sym)
	}
	return symbols, ""
}

// splitRHSFields splits an RHS alternative on whitespace, but keeps quoted
// literals (which may themselves contain spaces) intact.
func splitRHSFields(s string) []string {
	var fields []string
	var cur strings.Builder
	inQuote := byte(0)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote != 0:
			cur.WriteByte(c)
			if c == inQuote {
				inQuote = 0
			}
		case c == '"' || c == '\'':
			inQuote = c
			cur.WriteByte(c)
		case c == ' ' || c == '\t':
			if cur.Len() > 0 {
				fields = append(fields, cur.String())
				cur.Reset()
			}
		case c == '<':
			if cur.Len() > 0 {
				fields = append(fields, cur.String())
				cur.Reset()
			}
			j := strings.IndexByte(s[i:], '>')
			if j < 0 {
				cur.WriteString(s[i:])
				i = len(s)
			} else {
				fields = append(fields, s[i:i+j+1])
				i += j
			}
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		fields = append(fields, cur.String())
	}
	return fields
}

func parseSymbol(f string) (Symbol, string) {
	if len(f) >= 2 && f[0] == '<' && f[len(f)-1] == '>' {
		return Symbol{Name: f[1 : len(f)-1], Kind: SymbolNonTerminal}, ""
	}
	if len(f) >= 2 && (f[0] == '"' || f[0] == '\'') && f[len(f)-1] == f[0] {
		return Symbol{Name: f[1 : len(f)-1], Kind: SymbolTerminal}, ""
	}
	if f == "" {
		return Symbol{}, "empty RHS symbol"
	}
	return Symbol{Name: f, Kind: SymbolTerminal}, ""
}

// parseActionCode interprets the small action vocabulary recognized inside
// a rule's `=> { ... }` tail: a literal "skip" substring marks the rule
// skippable, `return("X")` renames the produced token kind, `push("X")` and
// `pop()` push and pop a lexer context, and `emit(...)` emits a symbol.
// Anything else is treated as a user action, identified by the raw code text so the
// host's action-VM registry can resolve it (spec.md §9).
func parseActionCode(code string) Action {
	code = strings.TrimSpace(code)
	if code == "" {
		return Action{}
	}
	if strings.Contains(code, "skip") {
		return Action{Kind: ActionSkip}
	}
	if strings.HasPrefix(code, "return(") {
		inner := strings.TrimSuffix(strings.TrimPrefix(code, "return("), ")")
		inner = strings.Trim(inner, `"'`)
		return Action{Kind: ActionRename, Arg: inner}
	}
	if strings.HasPrefix(code, "push(") {
		inner := strings.TrimSuffix(strings.TrimPrefix(code, "push("), ")")
		inner = strings.Trim(inner, `"'`)
		return Action{Kind: ActionPushContext, Arg: inner}
	}
	if strings.HasPrefix(code, "pop(") {
		return Action{Kind: ActionPopContext}
	}
	if strings.HasPrefix(code, "emit(") {
		inner := strings.TrimSuffix(strings.TrimPrefix(code, "emit("), ")")
		inner = strings.Trim(inner, `"'`)
		return Action{Kind: ActionEmitSymbol, Arg: inner}
	}
	return Action{Kind: ActionUser, UserID: code}
}

// parsePrecedenceBlock parses a `Precedence: { LevelN: { operators: [...],
// associativity: "..." } ... }` block. The parser is deliberately small: it
// scans for LevelN keys, bracketed operator lists, and an associativity
// string, tolerating extra whitespace/formatting rather than requiring
// exact JSON.
func parsePrecedenceBlock(def *Definition, block string, diags *[]Diagnostic, lineNo int) {
	reLevel := regexp.MustCompile(`Level(\d+)\s*:\s*\{([^}]*)\}`)
	reOps := regexp.MustCompile(`operators\s*:\s*\[([^\]]*)\]`)
	reAssoc := regexp.MustCompile(`associativity\s*:\s*"(\w+)"`)

	matches := reLevel.FindAllStringSubmatch(block, -1)
	if matches == nil {
		*diags = append(*diags, Diagnostic{Line: lineNo, Message: "malformed precedence block"})
		return
	}
	for _, m := range matches {
		level, _ := strconv.Atoi(m[1])
		body := m[2]

		assoc := AssocNone
		if am := reAssoc.FindStringSubmatch(body); am != nil {
			switch am[1] {
			case "left":
				assoc = AssocLeft
			case "right":
				assoc = AssocRight
			}
		}

		if om := reOps.FindStringSubmatch(body); om != nil {
			for _, op := range strings.Split(om[1], ",") {
				op = strings.Trim(strings.TrimSpace(op), `"'`)
				if op == "" {
					continue
				}
				def.Precedence[op] = level
				def.Associativity[op] = assoc
			}
		}
	}
}

// mergeInto folds base into def following spec.md §4.4: base token rules
// are added first (so derived rules with the same name override them);
// precedence/associativity entries from base fill in only where def has no
// entry; a conflicting associativity for the same operator is a grammar
// diagnostic, not a silent override.
func mergeInto(def *Definition, base *Definition, diags *[]Diagnostic) {
	merged := NewDefinition(def.Name)
	merged.TokenSplitter = def.TokenSplitter
	merged.FormatType = def.FormatType
	merged.Inheritable = def.Inheritable
	merged.StartSymbol = def.StartSymbol

	for _, r := range base.TokenRules {
		merged.AddTokenRule(r)
	}
	for _, r := range def.TokenRules {
		merged.AddTokenRule(r)
	}
	merged.ProductionRules = append(merged.ProductionRules, base.ProductionRules...)
	merged.ProductionRules = append(merged.ProductionRules, def.ProductionRules...)
	merged.Projections = append(append([]ContextProjection{}, base.Projections...), def.Projections...)
	merged.Contexts = dedupeStrings(append(append([]string{}, base.Contexts...), def.Contexts...))

	for k, v := range base.Precedence {
		merged.Precedence[k] = v
		merged.Associativity[k] = base.Associativity[k]
	}
	for k, v := range def.Precedence {
		if baseAssoc, had := base.Associativity[k]; had && baseAssoc != def.Associativity[k] {
			*diags = append(*diags, Diagnostic{Message: "conflicting associativity for operator " + k})
		}
		merged.Precedence[k] = v
		merged.Associativity[k] = def.Associativity[k]
	}

	merged.tokenIndex = nil
	merged.productionIndex = nil
	merged.reindex()

	*def = *merged
}

func dedupeStrings(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
