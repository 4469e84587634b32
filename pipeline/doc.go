// Package pipeline provides curried functions and a pipe that threads a value,
// or a composed function, through a list of steps.
//
// Curry wraps an ordinary Go function so it can be called with any subset of
// its arguments. Each call either invokes the function, once its arity is
// satisfied, or returns a new *Curried holding the larger partial application.
// New arguments take the leading positions of the signature and earlier ones
// shift right, so a value piped into a partial application becomes the first
// argument:
//
//	add3 := pipeline.Curry(func(a, b, c int) int { return a + b + c })
//	out, _ := pipeline.Pipe(1, add3.Must(2, 3), pipeline.Bind(add3, 4, 5)) // 15
//
// Pipe looks at its first argument once and picks one of three modes:
//
//   - argument mode: a concrete value is threaded through the steps now;
//   - function mode: a callable first step makes Pipe return a *Composed that
//     can be run later with one argument;
//   - promise mode: a *Future first argument makes Pipe return a *Future.
//
// A step may also return a *Future; every following step is then chained on
// it and the pipe result is a *Future. Chained steps run as soon as the value
// they wait for settles, on the goroutine that settled it; the package never starts
// goroutines of its own (Go is the explicit exception).
//
// Bind describes a function with some arguments applied without calling it. Pipe
// resolves it before running, and requires exactly one argument to be left
// for the piped value:
//
//	pipeline.Pipe(1, pipeline.Bind(sub, 2)) // sub(1, 2)
//
// # Errors
//
// Every arity or step failure is a *PipeError carrying the display name,
// declared arity and received argument count of the failing callable. Use
// errors.Is with ErrArityExceeded, ErrArityMismatch, ErrStepProduce,
// ErrStepExecution or ErrNonInvocableStep to branch on the kind. When a step
// fails with its own error, that error is kept as Cause (and is reachable with
// errors.Is/As) but is not part of the message.
//
// A step that returns another callable is treated as a failure
// (ErrStepProduce): it almost always means a curried step was given too few
// arguments.
package pipeline
