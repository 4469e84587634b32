package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dcshock/runcurry/instrument"
	"github.com/dcshock/runcurry/pipeline"
)

// BuildOptions configures how a pipe is built from config.
type BuildOptions struct {
	// ObserverRegistry is used when PipelineConfig.Observers is set.
	ObserverRegistry *ObserverRegistry
}

// BuildPipeline builds a reusable composed pipe from config and registry. Step
// names must be registered; steps with args are bound with pipeline.Bind and
// checked for arity here rather than on first run.
func BuildPipeline(reg *Registry, cfg *PipelineConfig) (*pipeline.Composed, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if len(cfg.Steps) == 0 {
		return nil, fmt.Errorf("pipeline %q: no steps", cfg.Name)
	}
	steps := make([]any, 0, len(cfg.Steps))
	for i, ref := range cfg.Steps {
		if ref.Name == "" {
			return nil, fmt.Errorf("step %d: name required", i)
		}
		fn, ok := reg.Get(ref.Name)
		if !ok {
			return nil, fmt.Errorf("step %d: %q not in registry", i, ref.Name)
		}
		if len(ref.Args) > 0 {
			resolved, err := pipeline.Normalize([]any{pipeline.Bind(fn, ref.Args...)})
			if err != nil {
				return nil, fmt.Errorf("step %d (%q): %w", i, ref.Name, err)
			}
			fn = resolved[0]
		}
		steps = append(steps, fn)
	}
	return pipeline.Compose(steps...)
}

// BuildObserver returns an instrument.Observer for the config's Observers list by looking up each name
// in BuildOptions.ObserverRegistry and combining them with instrument.MultiObserver.
// If cfg.Observers is empty or opts.ObserverRegistry is nil, returns (nil, nil). If any observer
// name is not registered, returns an error.
func BuildObserver(cfg *PipelineConfig, opts *BuildOptions) (instrument.Observer, error) {
	if cfg == nil || len(cfg.Observers) == 0 || opts == nil || opts.ObserverRegistry == nil {
		return nil, nil
	}
	list := make([]instrument.Observer, 0, len(cfg.Observers))
	for i, name := range cfg.Observers {
		obs, ok := opts.ObserverRegistry.Get(name)
		if !ok {
			return nil, fmt.Errorf("observer %d: %q not in registry", i, name)
		}
		list = append(list, obs)
	}
	return instrument.MultiObserver(list...), nil
}

// BuildAllPipelines builds a composed pipe for each entry in multi. Keys are pipe names.
// If a pipe config's Name is empty, the map key is used as the name.
func BuildAllPipelines(reg *Registry, multi *MultiPipelineConfig) (map[string]*pipeline.Composed, error) {
	if multi == nil {
		return nil, fmt.Errorf("MultiPipelineConfig is nil")
	}
	out := make(map[string]*pipeline.Composed, len(multi.Pipelines))
	for name, cfg := range multi.Pipelines {
		if cfg.Name == "" {
			cfg.Name = name
		}
		p, err := BuildPipeline(reg, &cfg)
		if err != nil {
			return nil, fmt.Errorf("pipeline %q: %w", name, err)
		}
		out[name] = p
	}
	return out, nil
}

// PipelineConfigFromMap parses a single pipe from a map (e.g. one key in a multi-pipeline YAML).
// The key is the pipe name; the value is the steps list.
func PipelineConfigFromMap(name string, steps any) (*PipelineConfig, error) {
	// Re-encode and decode so we can reuse StepRef unmarshaling
	data, err := yaml.Marshal(map[string]any{"name": name, "steps": steps})
	if err != nil {
		return nil, err
	}
	return ParsePipelineConfig(data)
}
