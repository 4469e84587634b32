package instrument

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dcshock/runcurry/pipeline"
)

// StepObserver is called right after each pipe step with the step's result,
// the step itself and its position. Position 0 is the initial value in
// argument mode (result and target are both that value) or the first callable
// in function mode. A non-callable value after position 0 fails the pipe and
// is not reported.
type StepObserver func(result, target any, index int)

// Pipe is an instrumented pipe. Every method that adds behaviour returns a new
// Pipe layered over the receiver; the receiver is left unchanged.
type Pipe struct {
	pipe  pipeFunc
	log   zerolog.Logger
	runID string
}

// call is the per-invocation state shared by all layers of one Pipe call.
type call struct {
	log       zerolog.Logger
	runID     string
	observers []StepObserver
	hooks     []Observer
}

type pipeFunc func(c *call, first any, steps []any) (any, error)

// New returns an instrumented pipe with no behaviour added yet.
func New() *Pipe {
	return &Pipe{pipe: base, log: zerolog.Nop()}
}

// OnStep returns a pipe that reports every step to observers.
func OnStep(observers ...StepObserver) *Pipe { return New().OnStep(observers...) }

// FaultSafe returns a pipe whose failures are discarded.
func FaultSafe() *Pipe { return New().FaultSafe() }

// OnStep adds step observers. Observers fire in registration order, across
// all OnStep layers, for every subsequent Pipe call.
func (p *Pipe) OnStep(observers ...StepObserver) *Pipe {
	inner := p.pipe
	return p.with(func(c *call, first any, steps []any) (any, error) {
		next := *c
		next.observers = append(append([]StepObserver{}, observers...), c.observers...)
		return inner(&next, first, steps)
	})
}

// Observe adds lifecycle observers; see Observer.
func (p *Pipe) Observe(observers ...Observer) *Pipe {
	inner := p.pipe
	return p.with(func(c *call, first any, steps []any) (any, error) {
		next := *c
		next.hooks = append(append([]Observer{}, observers...), c.hooks...)
		return inner(&next, first, steps)
	})
}

// FaultSafe wraps the current pipe so that no error or panic reaches the
// caller: a failing call returns (nil, nil). A *Composed result is replaced by
// a Callable with the same guarantee, and a *Future result by one that settles
// to nil instead of failing. Observers registered before or after FaultSafe
// still fire for the steps that ran.
func (p *Pipe) FaultSafe() *Pipe {
	inner := p.pipe
	return p.with(func(c *call, first any, steps []any) (out any, err error) {
		defer func() {
			if r := recover(); r != nil {
				c.suppressed(fmt.Errorf("panic: %v", r))
				out, err = nil, nil
			}
		}()
		out, err = inner(c, first, steps)
		if err != nil {
			c.suppressed(err)
			return nil, nil
		}
		return c.safe(out), nil
	})
}

// WithLogger sets the logger used to report suppressed failures.
func (p *Pipe) WithLogger(l zerolog.Logger) *Pipe {
	next := *p
	next.log = l
	return &next
}

// WithRunID fixes the run ID passed to Observers instead of a new UUID per call.
func (p *Pipe) WithRunID(id string) *Pipe {
	next := *p
	next.runID = id
	return &next
}

// Pipe runs pipeline.Pipe with the instrumentation of p.
func (p *Pipe) Pipe(first any, steps ...any) (any, error) {
	c := &call{log: p.log, runID: p.runID}
	if c.runID == "" {
		c.runID = uuid.NewString()
	}
	return p.pipe(c, first, steps)
}

func (p *Pipe) with(fn pipeFunc) *Pipe {
	next := *p
	next.pipe = fn
	return &next
}

func base(c *call, first any, steps []any) (any, error) {
	if len(c.observers) == 0 && len(c.hooks) == 0 {
		return pipeline.Pipe(first, steps...)
	}
	for _, h := range c.hooks {
		h.BeforePipe(c.runID, first)
	}
	out, err := c.run(first, steps)
	for _, h := range c.hooks {
		h.AfterPipe(c.runID, out, err)
	}
	return out, err
}

func (c *call) run(first any, steps []any) (any, error) {
	args, err := pipeline.Normalize(append([]any{first}, steps...))
	if err != nil {
		return nil, err
	}
	for i, arg := range args {
		args[i] = c.observe(arg, i)
	}
	return pipeline.Pipe(args[0], args[1:]...)
}

// observe reports arg when it runs. A non-callable value is reported at once
// only in position 0; anywhere else it fails the pipe when reached and is
// never reported, which keeps indexes strictly increasing.
func (c *call) observe(arg any, index int) any {
	target, err := pipeline.AsCallable(arg)
	if !pipeline.IsCallable(arg) || err != nil {
		if index == 0 {
			c.notify(arg, arg, index, 0)
		}
		return arg
	}
	return &observedStep{c: c, raw: arg, target: target, index: index}
}

func (c *call) notify(result, target any, index int, d time.Duration) {
	for _, o := range c.observers {
		o(result, target, index)
	}
	for _, h := range c.hooks {
		h.AfterStep(c.runID, index, target, result, d)
	}
}

func (c *call) suppressed(err error) {
	c.log.Debug().Str("run_id", c.runID).Err(err).Msg("pipe failure suppressed")
}

func (c *call) safe(out any) any {
	switch v := out.(type) {
	case *pipeline.Future:
		return pipeline.Recover(v, func(err error) (any, error) {
			c.suppressed(err)
			return nil, nil
		})
	case *pipeline.Composed:
		return &safeCallable{c: c, target: v}
	}
	return out
}

// observedStep reports each successful call of target to the call's observers.
type observedStep struct {
	c      *call
	raw    any
	target pipeline.Callable
	index  int
}

func (s *observedStep) Call(args ...any) (any, error) {
	start := time.Now()
	out, err := s.target.Call(args...)
	if err != nil {
		return nil, err
	}
	s.c.notify(out, s.raw, s.index, time.Since(start))
	return out, nil
}

func (s *observedStep) Name() string { return s.target.Name() }
func (s *observedStep) Arity() int   { return s.target.Arity() }
func (s *observedStep) Bound() int   { return s.target.Bound() }

// safeCallable is a fault-safe view of a composed pipe.
type safeCallable struct {
	c      *call
	target pipeline.Callable
}

func (s *safeCallable) Call(args ...any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.c.suppressed(fmt.Errorf("panic: %v", r))
			out, err = nil, nil
		}
	}()
	out, err = s.target.Call(args...)
	if err != nil {
		s.c.suppressed(err)
		return nil, nil
	}
	return s.c.safe(out), nil
}

func (s *safeCallable) Name() string { return s.target.Name() }
func (s *safeCallable) Arity() int   { return s.target.Arity() }
func (s *safeCallable) Bound() int   { return s.target.Bound() }
