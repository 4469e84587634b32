package pipeline

import "fmt"

// BoundCall is a callable paired with arguments that have not been applied
// yet. In a pipe it must leave exactly one argument open for the
// piped value.
type BoundCall struct {
	Fn   any
	Args []any
}

// Bind describes fn with args bound, without invoking anything.
func Bind(fn any, args ...any) BoundCall {
	return BoundCall{Fn: fn, Args: args}
}

// Normalize resolves every BoundCall in steps into a partial application.
// Other values pass through unchanged; plain functions are checked lazily
// when the pipe runs them.
func Normalize(steps []any) ([]any, error) {
	out := make([]any, len(steps))
	for i, s := range steps {
		b, ok := s.(BoundCall)
		if !ok {
			out[i] = s
			continue
		}
		v, err := b.resolve()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (b BoundCall) resolve() (any, error) {
	c, err := asCallable(b.Fn)
	if err != nil {
		return nil, newPipeError(ErrNotCallable, fmt.Sprintf("%T", b.Fn), 0, -1, err)
	}
	remaining := c.Arity() - c.Bound()
	if len(b.Args)+1 != remaining {
		return nil, newPipeError(ErrArityMismatch, c.Name(), c.Arity(), c.Bound()+len(b.Args)+1, nil)
	}
	if len(b.Args) == 0 {
		return c, nil
	}
	return c.Call(b.Args...)
}
