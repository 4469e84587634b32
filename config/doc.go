// Package config provides a step registry and human-readable pipe configuration.
//
// Register callables by name, then define pipes in YAML (or structs) that reference
// those names and optional bound arguments:
//
//	name: score
//	steps:
//	  - double
//	  - name: add3
//	    args: [2, 3]
//	  - clamp
//	observers: [log]
//
// Build a reusable pipe with BuildPipeline(registry, config); the result is a
// *pipeline.Composed, run with Run(value). Use BuildObserver with an
// ObserverRegistry to get the lifecycle observers named in the config and
// attach them with instrument.New().Observe.
package config
