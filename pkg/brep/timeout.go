package brep

import (
	"fmt"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalTimeout is the hard limit for a single solid script evaluation.
const EvalTimeout = 5 * time.Second

// evalOutcome is the internal type used to pass evaluation results through
// channels.
type evalOutcome struct {
	sexp zygo.Sexp
	err  error
}

// evalWithTimeout runs evalSandboxed on its own goroutine and waits for a
// result, returning a timeout error if evaluation exceeds EvalTimeout.
//
// On timeout the goroutine may still be running; its buffered channel send
// completes regardless and the result is discarded.
func evalWithTimeout(source string) (zygo.Sexp, error) {
	ch := make(chan evalOutcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalOutcome{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		sexp, err := evalSandboxed(source)
		ch <- evalOutcome{sexp: sexp, err: err}
	}()

	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.sexp, res.err
	case <-timer.C:
		return nil, fmt.Errorf("solid script evaluation timed out after %s", EvalTimeout)
	}
}
