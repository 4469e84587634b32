package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Use errors.Is(err, ErrArityExceeded) etc. to branch on the kind of
// a *PipeError without inspecting its message.
var (
	ErrArityExceeded    = errors.New("arity exceeded")
	ErrArityMismatch    = errors.New("arity mismatch")
	ErrStepProduce      = errors.New("step produced a callable")
	ErrStepExecution    = errors.New("step execution failed")
	ErrNonInvocableStep = errors.New("non-invocable step")
	ErrArgumentType     = errors.New("argument type mismatch")
	ErrNotCallable      = errors.New("not callable")
)

const header = "Function failed in pipe:"

// PipeError is the structured error returned for every arity or step failure.
// It is immutable; read it through its methods.
type PipeError struct {
	kind     error
	name     string
	arity    int
	received int
	cause    error
}

func newPipeError(kind error, name string, arity, received int, cause error) *PipeError {
	return &PipeError{kind: kind, name: name, arity: arity, received: received, cause: cause}
}

func (e *PipeError) Error() string {
	var counts string
	if e.arity > 0 {
		counts = fmt.Sprintf("Expected(%d)", e.arity)
		if e.received >= 0 {
			counts += fmt.Sprintf(", Received(%d)", e.received)
		}
	}
	return strings.Join([]string{header, e.name, counts}, "\n\t")
}

// Kind returns the sentinel for the kind of failure, e.g. ErrArityExceeded.
func (e *PipeError) Kind() error { return e.kind }

// Name is the display name of the failing callable.
func (e *PipeError) Name() string { return e.name }

// Arity is the declared arity of the failing callable.
func (e *PipeError) Arity() int { return e.arity }

// Received is the number of arguments the callable would have been given in
// total (bound arguments plus the piped value for pipe steps), or -1 when
// unknown.
func (e *PipeError) Received() int { return e.received }

// Cause is the underlying failure, if any. It never appears in Error().
func (e *PipeError) Cause() error { return e.cause }

// Is reports whether target is the kind sentinel of e.
func (e *PipeError) Is(target error) bool { return e.kind != nil && target == e.kind }

func (e *PipeError) Unwrap() error { return e.cause }

// IsPipeError reports whether err is, or wraps, a *PipeError.
func IsPipeError(err error) bool { return errors.As(err, new(*PipeError)) }

// stepError reports a failure of step using its own diagnostics; received
// counts the piped value on top of what the step had bound.
func stepError(kind error, step Callable, cause error) *PipeError {
	if step == nil {
		return newPipeError(kind, "", 0, -1, cause)
	}
	return newPipeError(kind, step.Name(), step.Arity(), step.Bound()+1, cause)
}

type panicError struct{ v any }

func (p panicError) Error() string { return fmt.Sprintf("panic: %v", p.v) }
