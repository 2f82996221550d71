// Package config resolves the tool's options from built-in defaults and an
// optional YAML file. Flags are layered on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/marc47marc47/netstatw/pkg/collector/netbytes"
	"github.com/marc47marc47/netstatw/pkg/types"
)

// DefaultFileName is looked up under the user's home directory when no
// explicit config path is given.
const DefaultFileName = ".netstatw.yaml"

// Config holds every option the pipeline consumes.
type Config struct {
	// Full enables the two-sample resource columns.
	Full bool
	// SampleInterval separates the two counter snapshots. It must be
	// strictly positive: no meaningful rate can come out of an empty
	// window, so this is rejected before sampling starts.
	SampleInterval time.Duration
	// TopPIDs caps how many of a row's processes contribute to its
	// aggregate; 0 means no cap.
	TopPIDs int
	// Proto and Family narrow the socket listing.
	Proto  string
	Family string
	// NetCountersPin is the bpffs path of the per-PID traffic map.
	NetCountersPin string
}

// fileConfig mirrors Config for YAML decoding. Pointer fields distinguish
// "not set in the file" from explicit zero values.
type fileConfig struct {
	Full           *bool  `yaml:"full"`
	SampleInterval string `yaml:"sample_interval"`
	TopPIDs        *int   `yaml:"top_pids"`
	Proto          string `yaml:"proto"`
	Family         string `yaml:"family"`
	NetCountersPin string `yaml:"net_counters_pin"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SampleInterval: types.DefaultSampleIntervalMS * time.Millisecond,
		Proto:          "all",
		Family:         "all",
		NetCountersPin: netbytes.DefaultPinPath,
	}
}

// Load resolves the configuration from defaults plus the YAML file at
// path. An empty path means the per-user default location, which is
// allowed to be missing; an explicit path is not.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(home, DefaultFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.apply(fc); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) apply(fc fileConfig) error {
	if fc.Full != nil {
		c.Full = *fc.Full
	}
	if fc.SampleInterval != "" {
		d, err := time.ParseDuration(fc.SampleInterval)
		if err != nil {
			return fmt.Errorf("invalid sample_interval %q: %w", fc.SampleInterval, err)
		}
		c.SampleInterval = d
	}
	if fc.TopPIDs != nil {
		c.TopPIDs = *fc.TopPIDs
	}
	if fc.Proto != "" {
		c.Proto = fc.Proto
	}
	if fc.Family != "" {
		c.Family = fc.Family
	}
	if fc.NetCountersPin != "" {
		c.NetCountersPin = fc.NetCountersPin
	}
	return nil
}

// Validate rejects option combinations that cannot produce a measurement.
func (c Config) Validate() error {
	if c.SampleInterval <= 0 {
		return fmt.Errorf("sample interval must be positive, got %v", c.SampleInterval)
	}
	if c.TopPIDs < 0 {
		return fmt.Errorf("top pids cap must not be negative, got %d", c.TopPIDs)
	}
	return nil
}
