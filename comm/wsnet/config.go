// SPDX-License-Identifier: MIT

package wsnet

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables describing this process' place in the group.
const (
	EnvRank = "MATBENCH_RANK"
	EnvSize = "MATBENCH_SIZE"
	EnvAddr = "MATBENCH_ADDR"
)

// Defaults.
const (
	DefaultAddr        = "127.0.0.1:7946"
	DefaultPath        = "/matbench"
	DefaultDialBackoff = 100 * time.Millisecond
)

// ErrConfig is returned for missing or malformed topology settings.
var ErrConfig = errors.New("wsnet: invalid configuration")

// Config locates one rank in a websocket group. Rank 0 listens on Addr; every
// other rank dials it.
type Config struct {
	Rank int
	Size int
	Addr string
	Path string
	// DialBackoff is the pause between dial attempts while the root is not up yet.
	DialBackoff time.Duration
}

// Validate checks the rank/size pair and fills defaults for empty fields.
func (c *Config) Validate() error {
	if c.Size < 1 {
		return fmt.Errorf("size=%d: %w", c.Size, ErrConfig)
	}
	if c.Rank < 0 || c.Rank >= c.Size {
		return fmt.Errorf("rank=%d size=%d: %w", c.Rank, c.Size, ErrConfig)
	}
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.DialBackoff <= 0 {
		c.DialBackoff = DefaultDialBackoff
	}

	return nil
}

// ConfigFromEnv reads MATBENCH_RANK, MATBENCH_SIZE and MATBENCH_ADDR.
// Rank and size are required; the address falls back to DefaultAddr.
func ConfigFromEnv() (Config, error) {
	return configFromLookup(os.LookupEnv)
}

func configFromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Config{}
	var err error
	if cfg.Rank, err = envInt(lookup, EnvRank); err != nil {
		return Config{}, err
	}
	if cfg.Size, err = envInt(lookup, EnvSize); err != nil {
		return Config{}, err
	}
	if addr, ok := lookup(EnvAddr); ok {
		cfg.Addr = addr
	}
	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func envInt(lookup func(string) (string, bool), key string) (int, error) {
	s, ok := lookup(key)
	if !ok {
		return 0, fmt.Errorf("%s not set: %w", key, ErrConfig)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", key, s, ErrConfig)
	}

	return v, nil
}
