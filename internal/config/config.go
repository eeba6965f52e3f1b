// Package config handles application configuration and setup
package config

import (
	"time"

	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateRandomSource returns the random source used by the RND instruction
// and the seed it was created with. A zero seed is replaced by a time based
// one, the returned seed allows reproducing the run.
func CreateRandomSource(seed uint64) (runner.RandomSource, uint64) {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return runner.NewRandom(seed), seed
}
