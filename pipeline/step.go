package pipeline

import (
	"fmt"
	"reflect"
)

type shape int

const (
	concrete shape = iota
	pending
	invocable
)

func classify(v any) shape {
	if _, ok := v.(*Future); ok {
		return pending
	}
	if isInvocable(v) {
		return invocable
	}
	return concrete
}

func isInvocable(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(Callable); ok {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Func && !rv.IsNil()
}

func asCallable(step any) (Callable, error) {
	if c, ok := step.(Callable); ok {
		return c, nil
	}
	return adapt(step)
}

// describe names a step for diagnostics.
func describe(step any) string {
	if c, ok := step.(Callable); ok {
		return c.Name()
	}
	if rv := reflect.ValueOf(step); rv.Kind() == reflect.Func && !rv.IsNil() {
		return funcName(rv)
	}
	return fmt.Sprintf("%v", step)
}

// runStep feeds input to step. A pending input yields a pending result that
// runs step once the input resolves.
func runStep(step, input any) (any, error) {
	if f, ok := input.(*Future); ok {
		return Then(f, func(v any) (any, error) { return invokeStep(step, v) }), nil
	}
	return invokeStep(step, input)
}

func invokeStep(step, input any) (any, error) {
	c, err := asCallable(step)
	if err != nil {
		return nil, newPipeError(ErrStepExecution, describe(step), 0, -1, err)
	}
	out, err := safeCall(c, input)
	if err != nil {
		return nil, stepError(ErrStepExecution, c, err)
	}
	if isInvocable(out) {
		return nil, stepError(ErrStepProduce, c, nil)
	}
	return out, nil
}

func safeCall(c Callable, input any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, panicError{r}
		}
	}()
	return c.Call(input)
}

// fold threads acc through steps left to right.
func fold(acc any, steps []any) (any, error) {
	for i, s := range steps {
		if !isInvocable(s) {
			return nil, nonInvocable(steps[:i])
		}
		next, err := runStep(s, acc)
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}

// nonInvocable attributes a non-callable step to the nearest callable before it.
func nonInvocable(before []any) *PipeError {
	for i := len(before) - 1; i >= 0; i-- {
		if c, err := asCallable(before[i]); err == nil {
			return newPipeError(ErrNonInvocableStep, c.Name(), c.Arity(), -1, nil)
		}
	}
	return newPipeError(ErrNonInvocableStep, "", 0, -1, nil)
}

// IsCallable reports whether v can run as a pipe step.
func IsCallable(v any) bool { return isInvocable(v) }

// AsCallable returns v as a Callable, adapting plain functions.
func AsCallable(v any) (Callable, error) { return asCallable(v) }

// Describe returns the display name used for v in diagnostics.
func Describe(v any) string { return describe(v) }
