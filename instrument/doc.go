// Package instrument layers step observation and fault suppression over
// pipeline.Pipe.
//
//	instrument.OnStep(func(result, target any, index int) {
//		fmt.Println(index, result)
//	}).Pipe(1, pipeline.Bind(add, 3), pipeline.Bind(add, 5))
//	// 0 1
//	// 1 4
//	// 2 9
//
// OnStep and FaultSafe are available both as functions and as chainable methods.
// Each returns a new *Pipe whose Pipe method closes over the previous one, so
// a partially built chain can be shared and extended independently.
//
// FaultSafe discards every failure, including panics and failures that surface
// later from a returned *Composed or *Future. Suppressed failures are written
// at debug level to the logger given with WithLogger (zerolog.Nop by default),
// tagged with the run ID of the call.
//
// Observe attaches lifecycle Observers, which see a run ID per Pipe call
// (a new UUID unless WithRunID is set) and per-step durations.
package instrument
