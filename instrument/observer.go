package instrument

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/dcshock/runcurry/pipeline"
)

// Observer provides lifecycle hooks for instrumented pipe calls so runs can be
// correlated by run ID (e.g. in logs or traces). BeforePipe is called before any
// step runs. AfterStep is called after each successful step with how long the
// step took. AfterPipe is called when the Pipe call returns; in function and
// promise mode its result is the *Composed or *Future, and steps report later.
type Observer interface {
	BeforePipe(runID string, first any)
	AfterStep(runID string, index int, target, result any, d time.Duration)
	AfterPipe(runID string, result any, err error)
}

// MultiObserver returns an Observer that calls each of observers in order.
func MultiObserver(observers ...Observer) Observer {
	list := make([]Observer, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return multiObserver(list)
}

type multiObserver []Observer

func (m multiObserver) BeforePipe(runID string, first any) {
	for _, o := range m {
		o.BeforePipe(runID, first)
	}
}

func (m multiObserver) AfterStep(runID string, index int, target, result any, d time.Duration) {
	for _, o := range m {
		o.AfterStep(runID, index, target, result, d)
	}
}

func (m multiObserver) AfterPipe(runID string, result any, err error) {
	for _, o := range m {
		o.AfterPipe(runID, result, err)
	}
}

// LogSteps returns a StepObserver that logs every step at debug level.
func LogSteps(l zerolog.Logger) StepObserver {
	return func(result, target any, index int) {
		l.Debug().
			Int("step", index).
			Str("target", pipeline.Describe(target)).
			Interface("result", result).
			Msg("pipe step")
	}
}

// LogObserver is an Observer that writes the pipe lifecycle to a zerolog logger.
type LogObserver struct {
	Logger zerolog.Logger
}

func (o LogObserver) BeforePipe(runID string, first any) {
	o.Logger.Debug().Str("run_id", runID).Str("first", pipeline.Describe(first)).Msg("pipe started")
}

func (o LogObserver) AfterStep(runID string, index int, target, _ any, d time.Duration) {
	o.Logger.Debug().
		Str("run_id", runID).
		Int("step", index).
		Str("target", pipeline.Describe(target)).
		Dur("duration", d).
		Msg("pipe step done")
}

func (o LogObserver) AfterPipe(runID string, _ any, err error) {
	if err != nil {
		o.Logger.Warn().Str("run_id", runID).Err(err).Msg("pipe failed")
		return
	}
	o.Logger.Debug().Str("run_id", runID).Msg("pipe finished")
}
