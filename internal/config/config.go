// Copyright 2025 go-histeq Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config reads histeq settings from the environment.
//
//	HISTEQ_WORKERS     worker goroutines per pass (default GOMAXPROCS)
//	HISTEQ_RESOLUTION  histogram buckets (default 65535)
//	HISTEQ_LOG_LEVEL   debug, info, warn, error, disabled (default info)
//	HISTEQ_SEQUENTIAL  force a single worker; any non-empty value that does
//	                   not parse as false enables it
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/ajroetker/go-histeq/histogram"
)

// Environment variable names.
const (
	EnvWorkers    = "HISTEQ_WORKERS"
	EnvResolution = "HISTEQ_RESOLUTION"
	EnvLogLevel   = "HISTEQ_LOG_LEVEL"
	EnvSequential = "HISTEQ_SEQUENTIAL"
)

// Config holds the tunables shared by the commands.
type Config struct {
	Workers    int
	Resolution int
	LogLevel   string
	Sequential bool
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Workers:    runtime.GOMAXPROCS(0),
		Resolution: histogram.DefaultResolution,
		LogLevel:   "info",
	}
}

// FromEnv returns Default overridden by the HISTEQ_* variables.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup(EnvWorkers); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("config: %s=%q: %w", EnvWorkers, v, err)
		}
		if n > 0 {
			cfg.Workers = n
		}
	}
	if v, ok := lookup(EnvResolution); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("config: %s=%q: %w", EnvResolution, v, err)
		}
		cfg.Resolution = n
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvSequential); ok {
		cfg.Sequential = parseFlag(v)
	}
	return cfg, cfg.Validate()
}

// parseFlag treats any non-empty value as true unless it parses as a false
// boolean.
func parseFlag(v string) bool {
	if v == "" {
		return false
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return true
}

// Validate checks the configured resolution.
func (c Config) Validate() error {
	if err := histogram.ValidateResolution(c.Resolution); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// EffectiveWorkers is the worker count to build pools with: 1 when
// Sequential is set, otherwise Workers (never below 1).
func (c Config) EffectiveWorkers() int {
	if c.Sequential {
		return 1
	}
	return max(1, c.Workers)
}
