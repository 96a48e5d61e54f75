package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the optional per-directory configuration file.
const ConfigFileName = "sgdump.yaml"

// Config controls how an Engine builds and reports its scene graph.
type Config struct {
	// AllowLayers lets bound elements get layers of their own. Without it
	// the graphic is flattened into the node content of a single layer.
	AllowLayers bool `yaml:"allowLayers"`
	// DebugAddr enables the HTTP debug server on the given address
	// (e.g. "localhost:9999"). Empty disables it.
	DebugAddr string `yaml:"debugAddr,omitempty"`
	// Parameters override the document's parameter defaults.
	Parameters map[string]any `yaml:"parameters,omitempty"`
	// FrameSamples is the number of frame samples kept for /frames.
	// Defaults to 240 if zero.
	FrameSamples int `yaml:"frameSamples,omitempty"`
	// SlowFrameThreshold marks frames that took longer as slow.
	// Defaults to 16.67ms if zero.
	SlowFrameThreshold time.Duration `yaml:"slowFrameThreshold,omitempty"`
	// RuntimeSampleInterval is the memory sampling period while the debug
	// server runs. Defaults to 5s if zero.
	RuntimeSampleInterval time.Duration `yaml:"runtimeSampleInterval,omitempty"`
}

// LoadConfig reads sgdump.yaml from dir if present. A missing file yields
// the zero Config.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
	}
	if cfg.FrameSamples < 0 {
		return nil, fmt.Errorf("%s: frameSamples must not be negative", ConfigFileName)
	}

	return &cfg, nil
}
