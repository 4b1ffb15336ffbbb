package lex

// Path is one parallel lexing attempt: a position in the source, an
// accumulated token sequence, a context tag stack, and a validity flag.
// Phase1/Phase2 forking in patscan resolves ambiguity within a single
// token; Path forking resolves ambiguity between competing TokenRules at
// the same position, per spec.md §4.3 ("a lexer path forks whenever more
// than one active rule matches at the current position").
type Path struct {
	ID       int
	Pos      int
	Tokens   []StepToken
	contexts []string
	Valid    bool
	State    map[string]string
}

func newPath(id int) *Path {
	return &Path{ID: id, Valid: true, State: make(map[string]string)}
}

// clone returns an independent copy of p, used when a Step forks into
// several candidate matches.
func (p *Path) clone(newID int) *Path {
	cp := &Path{
		ID:       newID,
		Pos:      p.Pos,
		Tokens:   append([]StepToken(nil), p.Tokens...),
		contexts: append([]string(nil), p.contexts...),
		Valid:    p.Valid,
		State:    make(map[string]string, len(p.State)),
	}
	for k, v := range p.State {
		cp.State[k] = v
	}
	return cp
}

// CurrentContext returns the tag on top of the context stack, or "" if the
// path is at the default (top-level) context.
func (p *Path) CurrentContext() string {
	if len(p.contexts) == 0 {
		return ""
	}
	return p.contexts[len(p.contexts)-1]
}

func (p *Path) pushContext(tag string) {
	p.contexts = append(p.contexts, tag)
}

func (p *Path) popContext() {
	if len(p.contexts) == 0 {
		return
	}
	p.contexts = p.contexts[:len(p.contexts)-1]
}

// mergeKey identifies paths that have become indistinguishable: same byte
// position, same context, same sequence of emitted token kinds. Spec.md
// §4.3 calls for merging such paths back together so path count cannot
// grow without bound on long inputs.
func (p *Path) mergeKey() string {
	key := make([]byte, 0, 32)
	key = appendInt(key, p.Pos)
	key = append(key, '|')
	key = append(key, p.CurrentContext()...)
	key = append(key, '|')
	for _, t := range p.Tokens {
		key = append(key, t.KindName...)
		key = append(key, ',')
	}
	return string(key)
}

func appendInt(dst []byte, n int) []byte {
	if n == 0 {
		return append(dst, '0')
	}
	neg := n < 0
	if neg {
		n = -n
	}
	start := len(dst)
	for n > 0 {
		dst = append(dst, byte('0'+n%10))
		n /= 10
	}
	if neg {
		dst = append(dst, '-')
	}
	// reverse the digits just appended
	end := len(dst)
	for i, j := start, end-1; i < j; i, j = i+1, j-1 {
		dst[i], dst[j] = dst[j], dst[i]
	}
	return dst
}
