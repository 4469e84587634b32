package config

import (
	"gopkg.in/yaml.v3"
)

// PipelineConfig is the root structure for a pipe definition (e.g. from YAML).
type PipelineConfig struct {
	Name      string    `yaml:"name"`
	Steps     []StepRef `yaml:"steps"`
	Observers []string  `yaml:"observers"` // optional: names registered in BuildOptions.ObserverRegistry
}

// StepRef is a single step entry: either a plain name or name + bound args.
// In YAML, a step can be written as:
//   - double
//   - name: add3
//     args: [2, 3]
//
// Args are bound up front and must leave exactly one parameter open. The piped
// value takes the first parameter and the args fill the rest in order.
type StepRef struct {
	Name string `yaml:"name"`
	Args []any  `yaml:"args"`
}

// UnmarshalYAML allows a step to be a string (step name only) or a struct.
func (s *StepRef) UnmarshalYAML(value *yaml.Node) error {
	var nameOnly string
	if err := value.Decode(&nameOnly); err == nil {
		s.Name = nameOnly
		return nil
	}
	type raw StepRef
	return value.Decode((*raw)(s))
}

// ParsePipelineConfig parses YAML bytes into a single PipelineConfig.
func ParsePipelineConfig(data []byte) (*PipelineConfig, error) {
	var cfg PipelineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MultiPipelineConfig is the root structure for a file that defines multiple pipes.
// Top-level key is "pipelines"; each value is a pipe (name + steps).
type MultiPipelineConfig struct {
	Pipelines map[string]PipelineConfig `yaml:"pipelines"`
}

// ParseMultiPipelineConfig parses YAML bytes that contain a "pipelines" map from name to pipe config.
// Example YAML:
//
//	pipelines:
//	  score:
//	    steps: [double, {name: add, args: [1]}]
//	  clean:
//	    steps: [trim, lower]
func ParseMultiPipelineConfig(data []byte) (*MultiPipelineConfig, error) {
	var cfg MultiPipelineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
