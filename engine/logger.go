package engine

import (
	"fmt"
	"io"
)

// Logger is the minimal, single-level diagnostic sink the engine accepts instead
// of importing a logging framework: the corpus this module is grown from
// logs via fmt to an injected io.Writer in its own CLI and server layers
// rather than reaching for a structured-logging library, and this follows
// that same light-touch approach. The zero value discards everything.
type Logger struct {
	out io.Writer
}

// NewLogger returns a Logger that writes trace lines to w. Passing nil
// yields the same no-op behavior as the zero value.
func NewLogger(w io.Writer) Logger {
	return Logger{out: w}
}

// Tracef writes one diagnostic line (e.g. a lexer path fork/merge or a GLR
// conflict resolution) if a writer is attached; it is a no-op otherwise.
func (l Logger) Tracef(format string, args ...interface{}) {
	if l.out == nil {
		return
	}
	fmt.Fprintf(l.out, format+"\n", args...)
}
