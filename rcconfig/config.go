// Copyright (C) 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

// Package rcconfig loads the tunables cmd/rcode runs with
// from a YAML file, via sigs.k8s.io/yaml (which decodes through the
// encoding/json struct tags, the same convention the rest of the Go
// ecosystem's Kubernetes-adjacent tooling uses for YAML config).
package rcconfig

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/arcorange/rangecoder/container"
	"github.com/arcorange/rangecoder/model"
)

// Config holds the knobs that select a model's alphabet shape and an
// end-to-end run's logging verbosity.
type Config struct {
	// AlphabetSize is the number of distinct symbols the model tracks.
	// Must satisfy 2 <= AlphabetSize <= 256.
	AlphabetSize int `json:"alphabetSize"`
	// EOMSymbol selects end-of-message framing when 0 <= EOMSymbol <
	// AlphabetSize, or known-length framing when it is -1.
	EOMSymbol int `json:"eomSymbol"`
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `json:"logLevel"`
}

// Default returns the configuration cmd/rcode runs with when no -config
// flag is given: the full byte alphabet, known-length
// framing, and informational logging.
func Default() Config {
	return Config{
		AlphabetSize: model.Symbols,
		EOMSymbol:    container.EOMNone,
		LogLevel:     "info",
	}
}

// Load reads and validates a Config from a YAML file at path, starting
// from Default() so an omitted field keeps its default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rcconfig: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("rcconfig: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("rcconfig: %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate reports whether c's fields are self-consistent.
func (c *Config) Validate() error {
	if c.AlphabetSize < 2 || c.AlphabetSize > model.Symbols {
		return fmt.Errorf("alphabetSize %d out of range [2, %d]", c.AlphabetSize, model.Symbols)
	}
	if c.EOMSymbol != container.EOMNone && (c.EOMSymbol < 0 || c.EOMSymbol >= c.AlphabetSize) {
		return fmt.Errorf("eomSymbol %d out of range for alphabetSize %d", c.EOMSymbol, c.AlphabetSize)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logLevel %q is not one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}
