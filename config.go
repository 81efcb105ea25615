package dsp

import (
	"os"

	"gopkg.in/yaml.v2"
)

// DeviceConfig is the full set of settable DeviceManager options, per
// spec.md §6. All fields are settable independently; applying a new
// DeviceConfig to a live DeviceManager (Configure) stops its active
// contexts and their chains, applies the change, and marks the
// contexts running again; the caller restarts the chains.
type DeviceConfig struct {
	DriverName   string `yaml:"driver_name"`
	InputDevice  string `yaml:"input_device"`
	OutputDevice string `yaml:"output_device"`
	SampleRate   int    `yaml:"sample_rate"`
	BlockSize    int    `yaml:"block_size"`
}

// LoadDeviceConfig reads a DeviceConfig from a YAML file, mirroring
// the teacher's options.go functional-options surface with a
// serializable form suitable for a CLI.
func LoadDeviceConfig(path string) (DeviceConfig, error) {
	var cfg DeviceConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func (cfg DeviceConfig) Save(path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Option configures a DeviceManager at construction time.
type Option func(*DeviceManager)

// WithConfig seeds the manager with an initial DeviceConfig, applied
// before the backend is opened.
func WithConfig(cfg DeviceConfig) Option {
	return func(dm *DeviceManager) {
		dm.config = cfg
	}
}

// WithContexts attaches the given contexts to the manager at
// construction.
func WithContexts(contexts ...*Context) Option {
	return func(dm *DeviceManager) {
		for _, c := range contexts {
			dm.AddContext(c)
		}
	}
}
