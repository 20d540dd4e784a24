package engine

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chazu/satforge/pkg/catalog"
	"github.com/go-playground/assert/v2"
	"github.com/oklog/ulid/v2"
)

func TestEvaluateEmptyString(t *testing.T) {
	eng := NewEngine(nil)

	s, evalErrs, err := eng.Evaluate("")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if s == nil {
		t.Fatal("expected non-nil session")
	}
	if s.Fleet().Len() != 0 {
		t.Errorf("expected empty fleet, got %d satellites", s.Fleet().Len())
	}
}

func TestEvaluateWhitespaceOnly(t *testing.T) {
	eng := NewEngine(nil)

	s, evalErrs, err := eng.Evaluate("   \n\t  \n  ")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if s == nil {
		t.Fatal("expected non-nil session")
	}
	if s.Fleet().Len() != 0 {
		t.Errorf("expected empty fleet, got %d satellites", s.Fleet().Len())
	}
}

func TestEvaluateValidExpression(t *testing.T) {
	eng := NewEngine(nil)

	// Plain Lisp builds nothing.
	s, evalErrs, err := eng.Evaluate("(+ 1 2)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if s == nil {
		t.Fatal("expected non-nil session")
	}
	if s.Fleet().PartCount() != 0 {
		t.Errorf("expected no parts, got %d", s.Fleet().PartCount())
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := NewEngine(nil)

	// Unmatched paren is a parse error.
	s, evalErrs, err := eng.Evaluate("(+ 1 2")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil session on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for syntax error")
	}
	if evalErrs[0].Message == "" {
		t.Error("eval error message should not be empty")
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	eng := NewEngine(nil)

	s, evalErrs, err := eng.Evaluate("(+ 1 undefined-symbol)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil session on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for undefined symbol")
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Message: "something went wrong"}
	s := e.Error()
	if !strings.Contains(s, "line 5") {
		t.Errorf("Error() should contain line info, got: %s", s)
	}
	if !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() should contain message, got: %s", s)
	}

	e2 := EvalError{Message: "no location"}
	if strings.Contains(e2.Error(), "line") {
		t.Errorf("Error() with no line should not contain 'line', got: %s", e2.Error())
	}
}

func TestEvaluateNilBaseCatalog(t *testing.T) {
	eng := NewEngine(nil)

	// Without a mainframe type no satellite can be created.
	_, evalErrs, err := eng.Evaluate(`(sat-new "Alpha" 0 0)`)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval error without a mainframe type")
	}
	if !strings.Contains(evalErrs[0].Message, catalog.RootType) {
		t.Errorf("error should name the missing root type: %s", evalErrs[0].Message)
	}
}

func TestEvaluateScriptDefinedRoot(t *testing.T) {
	eng := NewEngine(nil)

	s, evalErrs, err := eng.Evaluate(`
(part-type "mainframe" :glyph "#" (connector 0 0 :down))
(sat-new "Alpha" 0 0)
`)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if s.Fleet().Len() != 1 {
		t.Errorf("expected 1 satellite, got %d", s.Fleet().Len())
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := newTestEngine(t)

	source := `
(sat-new "Alpha" 0 0)
(part-add "panel" 0 0 :up 0 0 0 :down)
`
	seen := make(map[ulid.ULID]bool)
	for i := 0; i < 5; i++ {
		s, evalErrs, err := eng.Evaluate(source)
		if err != nil {
			t.Fatalf("iteration %d: unexpected fatal error: %v", i, err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("iteration %d: unexpected eval errors: %v", i, evalErrs)
		}
		if s.Fleet().PartCount() != 2 {
			t.Errorf("iteration %d: expected 2 parts, got %d", i, s.Fleet().PartCount())
		}
		if seen[s.RunID] {
			t.Errorf("iteration %d: run ID %s reused", i, s.RunID)
		}
		seen[s.RunID] = true
	}
}

func TestEvaluateConcurrent(t *testing.T) {
	eng := newTestEngine(t)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Results may be superseded; all that matters is no race or panic.
			_, _, _ = eng.Evaluate(`(sat-new "Alpha" 0 0)`)
		}()
	}
	wg.Wait()
}

func TestEvaluateTimeout(t *testing.T) {
	// await is driven directly with a channel that never sends, since a
	// script that loops forever would tie up a real sandbox.
	eng := NewEngine(nil)
	eng.Timeout = 50 * time.Millisecond
	eng.generation = 1
	s := newSession(eng.base)
	halts := 0

	start := time.Now()
	_, _, err := eng.await(make(chan evalResult), 1, s, func() { halts++ })
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if !strings.Contains(err.Error(), "50ms") {
		t.Errorf("error should name the limit: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("await took %s with a 50ms timeout", elapsed)
	}
	if halts != 1 {
		t.Errorf("sandbox halted %d times, want 1", halts)
	}
	if !s.halted.Load() {
		t.Error("timed out session should be marked halted")
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	eng := NewEngine(nil)
	eng.generation = 2
	run := newSession(eng.base)

	ch := make(chan evalResult, 1)
	ch <- evalResult{session: run}

	s, _, err := eng.await(ch, 1, run, func() { t.Error("finished run should not be halted") })
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	if s != nil {
		t.Error("stale session should be dropped")
	}
	if run.halted.Load() {
		t.Error("finished run should not be marked halted")
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "error on line format",
			msg:      "Error on line 5: unexpected token\n",
			wantLine: 5,
			wantMsg:  "unexpected token",
		},
		{
			name:     "no line info",
			msg:      "some generic error",
			wantLine: 0,
			wantMsg:  "some generic error",
		},
		{
			name:     "line format lowercase",
			msg:      "error on line 12: missing paren",
			wantLine: 12,
			wantMsg:  "missing paren",
		},
		{
			name:     "builtin call prefix",
			msg:      `Error on line 2: Error calling 'part_add': part-add("antenna", 0, 0, up, 0, 0, 0, down): unknown`,
			wantLine: 2,
			wantMsg:  `part-add("antenna"`,
		},
		{
			name:     "short line format",
			msg:      "line 3: sat-new: argument should be (name, x, y)",
			wantLine: 3,
			wantMsg:  "sat-new",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
			if strings.Contains(e.Message, "Error calling") {
				t.Errorf("message = %q still carries the call prefix", e.Message)
			}
		})
	}
}

func TestCleanCallError(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{`Error calling 'part_add': part-add("x"): boom`, `part-add("x"): boom`},
		{`Error calling 'sat_new': bad things`, `sat-new: bad things`},
		{`Error calling 'connector': connector: x: not a number`, `connector: x: not a number`},
		{`no prefix here`, `no prefix here`},
	}
	for _, tt := range tests {
		assert.Equal(t, cleanCallError(tt.msg), tt.want)
	}
}

// errString is a simple error type for testing.
type errString string

func (e errString) Error() string { return string(e) }
