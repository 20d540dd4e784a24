// Package engine runs satellite assembly scripts.
// It wraps zygomys in a sandboxed environment, exposes the construction
// cursor as builtins, and produces the fleet the script built.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chazu/satforge/pkg/catalog"
	"github.com/chazu/satforge/pkg/cursor"
	"github.com/chazu/satforge/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/golang/glog"
	"github.com/oklog/ulid/v2"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a failed construction command.
type EvalError struct {
	Line    int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Session is the outcome of one script run: the catalog it resolved part
// types from (base catalog plus script-defined types) and the cursor it
// built with.
type Session struct {
	RunID   ulid.ULID
	Catalog *catalog.Catalog
	Cursor  *cursor.Cursor

	// halted is set once the run has timed out; builtins refuse to run.
	halted atomic.Bool
}

// Fleet returns the satellites the script built.
func (s *Session) Fleet() *graph.Fleet {
	return s.Cursor.Fleet()
}

func newSession(base *catalog.Catalog) *Session {
	cat := base.Clone()
	return &Session{
		RunID:   ulid.Make(),
		Catalog: cat,
		Cursor:  cursor.New(cat, graph.NewFleet()),
	}
}

// Engine wraps the zygomys interpreter for assembly scripts.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandbox, catalog clone and cursor.
type Engine struct {
	// Timeout bounds each run; zero means DefaultEvalTimeout.
	Timeout time.Duration

	base *catalog.Catalog

	mu         sync.Mutex
	generation uint64
}

// NewEngine creates an Engine whose scripts start from the part types in
// base. base is never modified; a nil base means an empty catalog.
func NewEngine(base *catalog.Catalog) *Engine {
	if base == nil {
		base = catalog.New()
	}
	return &Engine{base: base}
}

// Evaluate runs an assembly script and returns the session it built.
// The script stops at the first failing command.
//
// Return semantics:
//   - On success: returns session + nil errors + nil error
//   - On parse/command failure: returns nil session + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Session, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	s := newSession(e.base)
	// Sandbox mode prevents scripts from touching the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	stop := sync.OnceFunc(func() { env.Stop() })
	ch := make(chan evalResult, 1)

	go func() {
		defer stop()
		defer func() {
			if r := recover(); r != nil {
				glog.Errorf("[%s] panic: %v", s.RunID, r)
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		evalErrs, err := e.evaluate(s, env, source)
		if len(evalErrs) > 0 || err != nil {
			ch <- evalResult{errors: evalErrs, err: err}
			return
		}
		ch <- evalResult{session: s}
	}()

	return e.await(ch, gen, s, stop)
}

// evaluate runs source against s in env, a fresh sandbox.
func (e *Engine) evaluate(s *Session, env *zygo.Zlisp, source string) ([]EvalError, error) {
	// Empty source is a valid script that builds nothing.
	if strings.TrimSpace(source) == "" {
		return nil, nil
	}

	registerBuiltins(env, s)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		evalErrs := parseZygomysError(err)
		glog.V(1).Infof("[%s] load failed: %v", s.RunID, evalErrs)
		return evalErrs, nil
	}

	_, err = env.Run()
	if err != nil {
		evalErrs := parseZygomysError(err)
		glog.V(1).Infof("[%s] run aborted: %v", s.RunID, evalErrs)
		return evalErrs, nil
	}

	glog.V(1).Infof("[%s] built %d satellites, %d parts",
		s.RunID, s.Fleet().Len(), s.Fleet().PartCount())
	return nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// callPattern matches the prefix zygomys puts on errors returned by a
// builtin, naming it by its registered snake_case name.
var callPattern = regexp.MustCompile(`Error calling '([^']+)':\s*`)

// cleanCallError rewrites the builtin call prefix into the name the script
// used. The prefix is dropped if the message already starts with that name.
func cleanCallError(msg string) string {
	loc := callPattern.FindStringSubmatchIndex(msg)
	if loc == nil {
		return msg
	}
	name := strings.ReplaceAll(msg[loc[2]:loc[3]], "_", "-")
	rest := msg[loc[1]:]
	if strings.HasPrefix(rest, name) {
		return msg[:loc[0]] + rest
	}
	return msg[:loc[0]] + name + ": " + rest
}

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: cleanCallError(strings.TrimSpace(m[2])),
			}}
		}
	}

	// No line info available.
	return []EvalError{{
		Message: cleanCallError(strings.TrimSpace(msg)),
	}}
}
