package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/duskline/glrfront/engine"
	"github.com/duskline/glrfront/grammar"
)

// commandReader is the minimal interface a session needs from its input
// source, mirroring the teacher CLI's DirectCommandReader /
// InteractiveCommandReader split: one implementation wraps GNU readline for
// an interactive TTY, the other reads lines directly off any io.Reader.
type commandReader interface {
	ReadCommand() (string, error)
	Close() error
}

type directReader struct {
	r *bufio.Reader
}

func newDirectReader(r io.Reader) *directReader {
	return &directReader{r: bufio.NewReader(r)}
}

func (d *directReader) ReadCommand() (string, error) {
	line, err := d.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (d *directReader) Close() error { return nil }

type interactiveReader struct {
	rl *readline.Instance
}

func newInteractiveReader() (*interactiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: "glrfront> "})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return &interactiveReader{rl: rl}, nil
}

func (i *interactiveReader) ReadCommand() (string, error) {
	line, err := i.rl.Readline()
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), err
}

func (i *interactiveReader) Close() error { return i.rl.Close() }

// session drives one interactive loop over a loaded engine.Engine, reading
// a source file path per iteration and printing a report, the CLI-shell
// shape cmd/tqi uses for its game loop.
type session struct {
	eng     *engine.Engine
	def     *grammar.Definition
	in      commandReader
	out     *bufio.Writer
	running bool
}

func newSession(eng *engine.Engine, def *grammar.Definition, forceDirect bool) (*session, error) {
	s := &session{eng: eng, def: def, out: bufio.NewWriter(os.Stdout)}

	useReadline := !forceDirect && isTerminal()
	if useReadline {
		ir, err := newInteractiveReader()
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
		s.in = ir
	} else {
		s.in = newDirectReader(os.Stdin)
	}
	return s, nil
}

func isTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func (s *session) Close() error {
	return s.in.Close()
}

// RunUntilQuit reads file paths from s.in and parses each one until "quit"
// is entered or input is exhausted.
func (s *session) RunUntilQuit() error {
	s.writeln(s.def.Describe())
	s.writeln("")
	s.writeln("glrfront interactive session")
	s.writeln("enter a source file path to parse, or \"quit\" to exit")
	s.writeln("")

	s.running = true
	defer func() { s.running = false }()

	for s.running {
		path, err := s.in.ReadCommand()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read command: %w", err)
		}
		if path == "" {
			continue
		}
		if strings.EqualFold(path, "quit") {
			break
		}

		if err := s.parseFile(path); err != nil {
			s.writeln("ERROR: " + err.Error())
		}
	}

	s.writeln("goodbye")
	return nil
}

func (s *session) parseFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	res, err := s.eng.Parse(context.Background(), src, path, engine.ParseOptions{})
	if err != nil {
		return err
	}

	s.writeln(fmt.Sprintf("trace=%s tokens=%d paths=%d elapsed=%s", res.TraceID, len(res.Tokens), res.PathCount, res.Elapsed))
	if !res.Success {
		for _, e := range res.Errors {
			s.writeln("  error: " + e.Error())
		}
		return nil
	}

	s.writeln(fmt.Sprintf("parse tree: %s (%d ambiguous alternative(s), %d conflict(s))",
		res.Tree.Symbol, len(res.AmbiguousTrees), len(res.Conflicts)))
	if res.Symbols != nil {
		s.writeln(fmt.Sprintf("symbols declared: %d", len(res.Symbols.AllSymbols())))
	}
	return nil
}

func (s *session) writeln(line string) {
	s.out.WriteString(line)
	s.out.WriteString("\n")
	s.out.Flush()
}
