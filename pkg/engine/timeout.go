package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
)

// DefaultEvalTimeout bounds a script run when Engine.Timeout is zero.
const DefaultEvalTimeout = 5 * time.Second

var (
	ErrTimeout    = errors.New("evaluation timed out")
	ErrSuperseded = errors.New("evaluation superseded by a newer run")
)

// evalResult carries a finished run back to Evaluate.
type evalResult struct {
	session *Session
	errors  []EvalError
	err     error
}

// await waits for the run of s started as generation gen. It gives up after
// the engine's timeout, and drops the result if another Evaluate started
// since.
//
// On timeout s is marked halted, so its builtins fail from then on, and
// halt stops the sandbox.
func (e *Engine) await(ch <-chan evalResult, gen uint64, s *Session, halt func()) (*Session, []EvalError, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultEvalTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if !e.current(gen) {
			glog.V(1).Infof("[%s] result discarded, a newer run started", s.RunID)
			return nil, nil, ErrSuperseded
		}
		return res.session, res.errors, res.err

	case <-timer.C:
		glog.Warningf("[%s] script still running after %s, halting", s.RunID, timeout)
		s.halted.Store(true)
		halt()
		return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
}

func (e *Engine) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.generation
}
