// Package pipeline: standard steps for common pipe patterns.

package pipeline

import (
	"errors"
	"fmt"
)

// Identity returns a step that passes the input through unchanged.
// Useful as a no-op, as an observation boundary, or as a placeholder.
func Identity() *Curried {
	return Named("identity", func(input any) any { return input })
}

// Tap returns a step that calls fn(input) then passes input through unchanged.
// Use for logging or side effects without changing the value.
func Tap(fn func(any)) *Curried {
	return Named("tap", func(input any) any {
		fn(input)
		return input
	})
}

// Validate returns a step that passes input through only if predicate(v) is true.
// Otherwise it fails with errMsg ("validation failed" when empty).
// Input must be of type T; type assertion failure is an error.
func Validate[T any](predicate func(T) bool, errMsg string) *Curried {
	if errMsg == "" {
		errMsg = "validation failed"
	}
	return Named("validate", func(input any) (any, error) {
		v, ok := input.(T)
		if !ok {
			var zero T
			return nil, fmt.Errorf("validate: expected %T, got %T", zero, input)
		}
		if !predicate(v) {
			return nil, errors.New(errMsg)
		}
		return input, nil
	})
}

// Constant returns a step that ignores its input and always outputs value.
func Constant(value any) *Curried {
	return Named("constant", func(any) any { return value })
}

// Transform returns a step that converts the previous step's output (type A)
// to type B.
func Transform[A, B any](convert func(A) (B, error)) *Curried {
	return Named("transform", func(input any) (any, error) {
		a, ok := input.(A)
		if !ok {
			var zero A
			return nil, fmt.Errorf("transform: expected %T, got %T", zero, input)
		}
		return convert(a)
	})
}

// MapSlice returns a step that converts []T to []U using convert for each element.
func MapSlice[T, U any](convert func(T) (U, error)) *Curried {
	return Named("mapslice", func(input any) (any, error) {
		slice, ok := input.([]T)
		if !ok {
			var zero []T
			return nil, fmt.Errorf("mapslice: expected %T, got %T", zero, input)
		}
		out := make([]U, 0, len(slice))
		for i, v := range slice {
			u, err := convert(v)
			if err != nil {
				return nil, fmt.Errorf("mapslice[%d]: %w", i, err)
			}
			out = append(out, u)
		}
		return out, nil
	})
}

// FilterSlice returns a step that keeps only elements of []T for which keep(v) is true.
func FilterSlice[T any](keep func(T) bool) *Curried {
	return Named("filterslice", func(input any) (any, error) {
		slice, ok := input.([]T)
		if !ok {
			var zero []T
			return nil, fmt.Errorf("filterslice: expected %T, got %T", zero, input)
		}
		out := make([]T, 0, len(slice))
		for _, v := range slice {
			if keep(v) {
				out = append(out, v)
			}
		}
		return out, nil
	})
}
