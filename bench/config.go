// SPDX-License-Identifier: MIT

package bench

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/matbench/distrib"
	"github.com/katalvlaran/matbench/internal/logx"
	"github.com/katalvlaran/matbench/partition"
)

// Variant names.
const (
	VariantSequential  = "sequential"
	VariantForkJoin    = "forkjoin"
	VariantDistributed = "distributed"
)

// Transport names for the distributed variant.
const (
	TransportLocal = "local"
	TransportWS    = "ws"
)

// Source names.
const (
	SourceFiles  = "files"
	SourceOnes   = "ones"
	SourceRandom = "random"
)

// Report names.
const (
	ReportTrials = "trials" // one timing line per trial
	ReportMean   = "mean"   // one timing line per size, the mean of its trials
)

// Value range of generated operands, [RandomMin, RandomMax).
const (
	RandomMin int64 = 0
	RandomMax int64 = 10
)

var (
	variants   = []string{VariantSequential, VariantForkJoin, VariantDistributed}
	transports = []string{TransportLocal, TransportWS}
	sources    = []string{SourceFiles, SourceOnes, SourceRandom}
	reports    = []string{ReportTrials, ReportMean}
)

// Config is one benchmark run. Field names double as the yaml and toml keys.
type Config struct {
	Sizes     []int  `yaml:"sizes" toml:"sizes"`
	Trials    int    `yaml:"trials" toml:"trials"`
	DataDir   string `yaml:"data_dir" toml:"data_dir"`
	Variant   string `yaml:"variant" toml:"variant"`
	Transport string `yaml:"transport" toml:"transport"`
	Strategy  string `yaml:"strategy" toml:"strategy"`
	Partition string `yaml:"partition" toml:"partition"`
	// Workers is the pool size for forkjoin and the group size for the local
	// distributed transport. The websocket group size comes from the
	// environment instead.
	Workers int    `yaml:"workers" toml:"workers"`
	Source  string `yaml:"source" toml:"source"`
	Report  string `yaml:"report" toml:"report"`
	Seed    int64  `yaml:"seed" toml:"seed"`
	// WriteResults forces result files for the ones and random sources.
	// The files source always writes them.
	WriteResults bool   `yaml:"write_results" toml:"write_results"`
	Verify       bool   `yaml:"verify" toml:"verify"`
	LogLevel     string `yaml:"log_level" toml:"log_level"`
}

// DefaultSizes are the powers of two from 2 to 1024.
func DefaultSizes() []int {
	return []int{2, 4, 8, 16, 32, 64, 128, 256, 512, 1024}
}

// DefaultConfig returns the stock sweep: every default size, 100 trials,
// operands read from ./data, sequential variant.
func DefaultConfig() Config {
	return Config{
		Sizes:     DefaultSizes(),
		Trials:    100,
		DataDir:   "data",
		Variant:   VariantSequential,
		Transport: TransportLocal,
		Strategy:  distrib.ScatterBroadcast{}.Name(),
		Partition: partition.DefaultPolicy.String(),
		Workers:   runtime.GOMAXPROCS(0),
		Source:    SourceFiles,
		Report:    ReportTrials,
		Seed:      1,
		LogLevel:  "info",
	}
}

// LoadConfig reads path over DefaultConfig and validates the result.
// The format follows the extension: .yaml, .yml or .toml.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("bench.LoadConfig: %w", err)
	}
	cfg := DefaultConfig()
	// A file that sets sizes replaces the default list instead of merging.
	cfg.Sizes = nil

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err = dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("bench.LoadConfig %s: %w: %w", path, ErrConfig, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err = dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("bench.LoadConfig %s: %w: %w", path, ErrConfig, err)
		}
	default:
		return Config{}, fmt.Errorf("bench.LoadConfig %s: unknown extension: %w", path, ErrConfig)
	}
	if cfg.Sizes == nil {
		cfg.Sizes = DefaultSizes()
	}
	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects unusable settings with ErrConfig. Names are normalized
// to lower case in place.
func (c *Config) Validate() error {
	if len(c.Sizes) == 0 {
		return fmt.Errorf("sizes: empty: %w", ErrConfig)
	}
	if bad, found := lo.Find(c.Sizes, func(n int) bool { return n <= 0 }); found {
		return fmt.Errorf("sizes: %d: %w", bad, ErrConfig)
	}
	if len(lo.Uniq(c.Sizes)) != len(c.Sizes) {
		return fmt.Errorf("sizes %v: duplicates: %w", c.Sizes, ErrConfig)
	}
	if c.Trials < 1 {
		return fmt.Errorf("trials=%d: %w", c.Trials, ErrConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers=%d: %w", c.Workers, ErrConfig)
	}

	for _, f := range []struct {
		name  string
		value *string
		allow []string
	}{
		{"variant", &c.Variant, variants},
		{"transport", &c.Transport, transports},
		{"source", &c.Source, sources},
		{"report", &c.Report, reports},
	} {
		*f.value = strings.ToLower(strings.TrimSpace(*f.value))
		if !lo.Contains(f.allow, *f.value) {
			return fmt.Errorf("%s %q: want one of %v: %w", f.name, *f.value, f.allow, ErrConfig)
		}
	}

	if c.Source == SourceFiles && c.DataDir == "" {
		return fmt.Errorf("data_dir: required by the files source: %w", ErrConfig)
	}
	if _, err := distrib.StrategyByName(c.Strategy); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if _, err := partition.ParsePolicy(c.Partition); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if _, err := logx.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	return nil
}
