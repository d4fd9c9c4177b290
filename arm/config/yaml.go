//go:build !tinygo

package config

import (
	"gopkg.in/yaml.v3"

	"penarm/arm"
)

// LoadYAML parses a YAML configuration with the same keys and defaults as
// LoadConfig. Host builds only.
func LoadYAML(data []byte) (*arm.PlotterConfig, error) {
	config := DefaultPlotterConfig()

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	applyDefaults(config)

	if err := Validate(config); err != nil {
		return nil, err
	}
	return config, nil
}
