package pipeline

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

const (
	curriedPrefix = "curried_"
	partialPrefix = "partial_"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Callable is anything the pipe can invoke. Name, Arity and Bound feed the
// diagnostics of a *PipeError when the callable fails inside a pipe.
type Callable interface {
	Call(args ...any) (any, error)
	Name() string
	Arity() int
	Bound() int
}

// Curried accumulates arguments across calls until the wrapped function's
// arity is satisfied. A Curried is immutable: Call never changes the receiver,
// so a partial application can be reused from any number of call sites.
type Curried struct {
	fn    reflect.Value
	base  string
	name  string
	arity int
	bound []any
}

// NewCurried wraps fn, which must be a non-variadic function. Wrapping a
// *Curried returns it unchanged.
func NewCurried(fn any) (*Curried, error) {
	if c, ok := fn.(*Curried); ok {
		return c, nil
	}
	v, err := funcValue(fn)
	if err != nil {
		return nil, err
	}
	base := funcName(v)
	return &Curried{fn: v, base: base, name: curriedPrefix + base, arity: v.Type().NumIn()}, nil
}

// Curry is like NewCurried but panics if fn cannot be curried.
func Curry(fn any) *Curried {
	c, err := NewCurried(fn)
	if err != nil {
		panic(err)
	}
	return c
}

// Named curries fn under an explicit display name instead of the symbol name
// of the function. A *Curried is copied under the new name with its bound
// arguments kept. It panics if fn cannot be curried.
func Named(name string, fn any) *Curried {
	if c, ok := fn.(*Curried); ok {
		prefix := curriedPrefix
		if len(c.bound) > 0 {
			prefix = partialPrefix
		}
		return &Curried{fn: c.fn, base: name, name: prefix + name, arity: c.arity, bound: c.bound}
	}
	v, err := funcValue(fn)
	if err != nil {
		panic(err)
	}
	return &Curried{fn: v, base: name, name: curriedPrefix + name, arity: v.Type().NumIn()}
}

// adapt wraps a plain function for use as a pipe step. The display name is the
// bare function name.
func adapt(fn any) (*Curried, error) {
	v, err := funcValue(fn)
	if err != nil {
		return nil, err
	}
	base := funcName(v)
	return &Curried{fn: v, base: base, name: base, arity: v.Type().NumIn()}, nil
}

// Call applies args. New arguments take the leading positions of the remaining
// signature: Curry(f).Call(a).Call(b, c) invokes f(b, c, a).
func (c *Curried) Call(args ...any) (any, error) {
	total := len(c.bound) + len(args)
	if total > c.arity {
		return nil, newPipeError(ErrArityExceeded, c.name, c.arity, total, nil)
	}
	all := make([]any, 0, total)
	all = append(all, args...)
	all = append(all, c.bound...)
	if total == c.arity {
		return c.invoke(all)
	}
	return &Curried{fn: c.fn, base: c.base, name: partialPrefix + c.base, arity: c.arity, bound: all}, nil
}

// Must calls c and panics on error.
func (c *Curried) Must(args ...any) any {
	out, err := c.Call(args...)
	if err != nil {
		panic(err)
	}
	return out
}

func (c *Curried) Name() string { return c.name }

func (c *Curried) Arity() int { return c.arity }

func (c *Curried) Bound() int { return len(c.bound) }

// Remaining is the number of arguments still needed before invocation.
func (c *Curried) Remaining() int { return c.arity - len(c.bound) }

func (c *Curried) String() string {
	return fmt.Sprintf("%s{arity: %d, args: %d}", c.name, c.arity, len(c.bound))
}

func (c *Curried) invoke(args []any) (out any, err error) {
	t := c.fn.Type()
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		v, ok := argValue(arg, t.In(i))
		if !ok {
			cause := fmt.Errorf("argument %d: cannot use %T as %s", i, arg, t.In(i))
			return nil, newPipeError(ErrArgumentType, c.name, c.arity, len(args), cause)
		}
		in[i] = v
	}
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = newPipeError(ErrStepExecution, c.name, c.arity, len(args), panicError{r})
		}
	}()
	return results(c.fn.Call(in), t)
}

func argValue(arg any, t reflect.Type) (reflect.Value, bool) {
	if arg == nil {
		return reflect.Zero(t), true
	}
	v := reflect.ValueOf(arg)
	if !v.Type().AssignableTo(t) {
		return reflect.Value{}, false
	}
	return v, true
}

// results maps Go return values onto a single pipe value. A trailing error
// result fails the call when non-nil.
func results(out []reflect.Value, t reflect.Type) (any, error) {
	if n := len(out); n > 0 && t.Out(n-1) == errorType {
		if e, _ := out[n-1].Interface().(error); e != nil {
			return nil, e
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	}
	vals := make([]any, len(out))
	for i, v := range out {
		vals[i] = v.Interface()
	}
	return vals, nil
}

func funcValue(fn any) (reflect.Value, error) {
	if fn == nil {
		return reflect.Value{}, fmt.Errorf("%w: nil", ErrNotCallable)
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: %T", ErrNotCallable, fn)
	}
	if v.Type().IsVariadic() {
		return reflect.Value{}, fmt.Errorf("%w: variadic %T", ErrNotCallable, fn)
	}
	return v, nil
}

// funcName returns the short symbol name of fn: "pkg.Add3" becomes "Add3",
// closures keep their enclosing function ("TestX.func1").
func funcName(v reflect.Value) string {
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return "anonymous"
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}
