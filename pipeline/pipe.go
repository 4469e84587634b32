package pipeline

import (
	"fmt"
	"strings"
)

// Pipe dispatches on the shape of first, after resolving BoundCall steps:
//
//   - a *Future: the result is a *Future that awaits first and then threads
//     its value through steps;
//   - a callable: the result is a *Composed that threads its argument through
//     first and then steps;
//   - anything else: first is threaded through steps immediately. The result
//     is a *Future if any step produced one.
//
// Synchronous failures are returned as *PipeError; failures downstream of a
// pending value surface from the returned Future.
func Pipe(first any, steps ...any) (any, error) {
	all, err := Normalize(append([]any{first}, steps...))
	if err != nil {
		return nil, err
	}
	head, rest := all[0], all[1:]
	switch classify(head) {
	case pending:
		return Then(head.(*Future), func(v any) (any, error) { return fold(v, rest) }), nil
	case invocable:
		return &Composed{steps: all}, nil
	default:
		return fold(head, rest)
	}
}

// MustPipe is like Pipe but panics on error.
func MustPipe(first any, steps ...any) any {
	out, err := Pipe(first, steps...)
	if err != nil {
		panic(err)
	}
	return out
}

// Composed is the reusable function built by Pipe from a list of callables.
type Composed struct {
	steps []any
}

// Compose builds a Composed from steps without the dispatch of Pipe. The first
// step must be callable.
func Compose(steps ...any) (*Composed, error) {
	if len(steps) == 0 {
		return nil, newPipeError(ErrNonInvocableStep, "pipe()", 1, -1, nil)
	}
	all, err := Normalize(steps)
	if err != nil {
		return nil, err
	}
	if !isInvocable(all[0]) {
		return nil, newPipeError(ErrNonInvocableStep, fmt.Sprintf("%v", all[0]), 0, -1, nil)
	}
	return &Composed{steps: all}, nil
}

// Call threads a single argument through every step. Like a *Curried that is
// still waiting for arguments, a call with none returns p itself.
func (p *Composed) Call(args ...any) (any, error) {
	switch len(args) {
	case 0:
		return p, nil
	case 1:
		return fold(args[0], p.steps)
	}
	return nil, newPipeError(ErrArityExceeded, p.Name(), 1, len(args), nil)
}

// Run is Call with exactly one argument.
func (p *Composed) Run(v any) (any, error) { return p.Call(v) }

func (p *Composed) Name() string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = describe(s)
	}
	return "pipe(" + strings.Join(names, ", ") + ")"
}

func (p *Composed) Arity() int { return 1 }

func (p *Composed) Bound() int { return 0 }

func (p *Composed) String() string { return p.Name() }
