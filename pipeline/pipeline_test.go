package pipeline_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcshock/runcurry/pipeline"
)

// pipeErr asserts err is a *PipeError of the given kind and returns it.
func pipeErr(t *testing.T, err error, kind error) *pipeline.PipeError {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
	var pe *pipeline.PipeError
	require.ErrorAs(t, err, &pe)
	return pe
}

func TestPipe_ArgumentMode(t *testing.T) {
	add3 := pipeline.Curry(StandardAdd3)
	out, err := pipeline.Pipe(1, add3.Must(2, 3), partial(t, add3, 4).Must(5))
	require.NoError(t, err)
	assert.IsType(t, 0, out, "expected a direct value")
	assert.Equal(t, 15, out)
}

func TestPipe_PlainUnaryFunctions(t *testing.T) {
	out, err := pipeline.Pipe(2, Double, Inc, Double)
	require.NoError(t, err)
	assert.Equal(t, Double(Inc(Double(2))), out)
}

func TestPipe_NoSteps(t *testing.T) {
	out, err := pipeline.Pipe("alone")
	require.NoError(t, err)
	assert.Equal(t, "alone", out)
}

func TestPipe_FunctionMode(t *testing.T) {
	add3 := pipeline.Curry(StandardAdd3)
	out, err := pipeline.Pipe(add3.Must(2, 3), partial(t, add3, 4).Must(5))
	require.NoError(t, err)

	run, ok := out.(*pipeline.Composed)
	require.Truef(t, ok, "expected *Composed, got %T", out)
	result, err := run.Run(1)
	require.NoError(t, err)
	assert.Equal(t, 15, result)
	assert.Equal(t, "pipe(partial_StandardAdd3, partial_StandardAdd3)", run.Name())
	assert.Equal(t, 1, run.Arity())
	assert.Equal(t, 0, run.Bound())
}

func TestPipe_FunctionModeMatchesArgumentMode(t *testing.T) {
	steps := []any{Inc, Double, pipeline.Bind(StandardAdd, 7)}
	composed, err := pipeline.Pipe(steps[0], steps[1:]...)
	require.NoError(t, err)

	for _, v := range []int{-3, 0, 1, 42} {
		direct, err := pipeline.Pipe(v, steps...)
		require.NoError(t, err)
		later, err := composed.(*pipeline.Composed).Run(v)
		require.NoError(t, err)
		assert.Equal(t, direct, later, "v=%d", v)
	}
}

func TestPipe_ComposedIsReusable(t *testing.T) {
	run, err := pipeline.Compose(Inc, Double)
	require.NoError(t, err)
	for v, want := range map[int]int{1: 4, 2: 6, 10: 22} {
		out, err := run.Call(v)
		require.NoError(t, err)
		assert.Equal(t, want, out, "run(%d)", v)
	}
}

func TestPipe_Bind(t *testing.T) {
	out, err := pipeline.Pipe(1, pipeline.Bind(StandardAdd, 2), pipeline.Bind(StandardAdd3, 3, 4))
	require.NoError(t, err)
	assert.Equal(t, 10, out)
}

func TestPipe_BindOnCurried(t *testing.T) {
	add3 := pipeline.Curry(StandardAdd3)
	out, err := pipeline.Pipe(1, pipeline.Bind(partial(t, add3, 2), 3))
	require.NoError(t, err)
	assert.Equal(t, 6, out)
}

func TestPipe_BindArityMismatch(t *testing.T) {
	_, err := pipeline.Pipe(1, pipeline.Bind(StandardAdd, 2, 3))
	pe := pipeErr(t, err, pipeline.ErrArityMismatch)
	for _, want := range []string{"StandardAdd", "Expected(2)", "Received(3)"} {
		assert.Contains(t, err.Error(), want)
	}
	assert.Equal(t, 3, pe.Received())
}

func TestPipe_BindNotCallable(t *testing.T) {
	_, err := pipeline.Pipe(1, pipeline.Bind("nope", 2))
	assert.ErrorIs(t, err, pipeline.ErrNotCallable)
}

func TestPipe_UnderSuppliedStep(t *testing.T) {
	add3 := pipeline.Curry(StandardAdd3)
	out, err := pipeline.Pipe(partial(t, add3, 2))
	require.NoError(t, err)

	_, err = out.(*pipeline.Composed).Run(1)
	pipeErr(t, err, pipeline.ErrStepProduce)
	for _, want := range []string{"partial_StandardAdd3", "Expected(3)", "Received(2)"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestPipe_PlainBinaryStep(t *testing.T) {
	_, err := pipeline.Pipe(1, StandardAdd)
	pe := pipeErr(t, err, pipeline.ErrStepProduce)
	assert.Equal(t, "StandardAdd", pe.Name())
	assert.Equal(t, 2, pe.Arity())
	assert.Equal(t, 1, pe.Received())
}

func TestPipe_StepExecutionFailure(t *testing.T) {
	errBad := errors.New("bad input")
	fail := pipeline.Named("fail", func(int) (int, error) { return 0, errBad })
	ran := false
	after := func(n int) int { ran = true; return n }

	_, err := pipeline.Pipe(1, Inc, fail, after)
	pe := pipeErr(t, err, pipeline.ErrStepExecution)
	assert.ErrorIs(t, err, errBad, "cause should stay reachable")
	assert.Equal(t, errBad, pe.Cause())
	assert.NotContains(t, err.Error(), "bad input")
	assert.Contains(t, err.Error(), "curried_fail")
	assert.False(t, ran, "steps after a failure must not run")
}

func TestPipe_StepPanics(t *testing.T) {
	_, err := pipeline.Pipe(1, &panicky{})
	pipeErr(t, err, pipeline.ErrStepExecution)
	assert.Contains(t, err.Error(), "panicky")
}

func TestPipe_NonInvocableStep(t *testing.T) {
	_, err := pipeline.Pipe(1, Inc, 5, Double)
	pe := pipeErr(t, err, pipeline.ErrNonInvocableStep)
	assert.Equal(t, "Inc", pe.Name())
	assert.Equal(t, 1, pe.Arity())
	assert.Equal(t, -1, pe.Received())
	assert.NotContains(t, err.Error(), "Received")
}

func TestPipe_NonInvocableFirstStep(t *testing.T) {
	_, err := pipeline.Pipe(1, "two")
	pipeErr(t, err, pipeline.ErrNonInvocableStep)
}

func TestCompose_Errors(t *testing.T) {
	_, err := pipeline.Compose()
	assert.ErrorIs(t, err, pipeline.ErrNonInvocableStep, "empty")
	_, err = pipeline.Compose(5, Inc)
	assert.ErrorIs(t, err, pipeline.ErrNonInvocableStep, "value first")
	_, err = pipeline.Compose(Inc, pipeline.Bind(StandardAdd))
	assert.ErrorIs(t, err, pipeline.ErrArityMismatch, "bad bind")
}

func TestComposed_ArgumentCount(t *testing.T) {
	run, err := pipeline.Compose(Inc)
	require.NoError(t, err)

	_, err = run.Call(1, 2)
	pe := pipeErr(t, err, pipeline.ErrArityExceeded)
	assert.Equal(t, 2, pe.Received())

	out, err := run.Call()
	require.NoError(t, err)
	assert.Same(t, run, out, "a call with no arguments leaves the pipe waiting")
}

func TestComposed_AsStep(t *testing.T) {
	inner, err := pipeline.Compose(Inc, Inc)
	require.NoError(t, err)
	out, err := pipeline.Pipe(1, inner, Double)
	require.NoError(t, err)
	assert.Equal(t, 6, out)
}

func TestMustPipe(t *testing.T) {
	assert.Equal(t, 2, pipeline.MustPipe(1, Inc))
	assert.Panics(t, func() { pipeline.MustPipe(1, pipeline.Bind(StandardAdd, 1, 2)) })
}

func TestPipeError_Message(t *testing.T) {
	_, err := pipeline.Pipe(1, StandardAdd)
	assert.EqualError(t, err, "Function failed in pipe:\n\tStandardAdd\n\tExpected(2), Received(1)")

	_, err = pipeline.Pipe(1, Inc, 5)
	assert.EqualError(t, err, "Function failed in pipe:\n\tInc\n\tExpected(1)", "received omitted when unknown")

	_, err = pipeline.Compose(5, Inc)
	assert.EqualError(t, err, "Function failed in pipe:\n\t5\n\t", "counts omitted without an arity")
}

func TestPipeError_Kinds(t *testing.T) {
	_, err := pipeline.Pipe(1, pipeline.Bind(StandardAdd, 1, 2))
	pe := pipeErr(t, err, pipeline.ErrArityMismatch)
	assert.Equal(t, pipeline.ErrArityMismatch, pe.Kind())
	assert.NotErrorIs(t, err, pipeline.ErrArityExceeded)
	assert.Nil(t, pe.Cause())
	assert.True(t, pipeline.IsPipeError(err))
	assert.False(t, pipeline.IsPipeError(errors.New("plain")))
}

// panicky is a Callable whose Call panics.
type panicky struct{}

func (*panicky) Call(...any) (any, error) { panic("panicky step") }
func (*panicky) Name() string             { return "panicky" }
func (*panicky) Arity() int               { return 1 }
func (*panicky) Bound() int               { return 0 }
