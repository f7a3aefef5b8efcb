// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config drives a taint-flow extraction run: where results are written, how
// many edges the forward engine may accumulate, and which taint problems to
// solve. Fields not present in the yaml file keep their zero value; private
// fields are computed after initialization.
type Config struct {
	Options `yaml:",inline"`

	sourceFile string

	// TaintProblems lists the taint flow queries to run against the
	// summary store.
	TaintProblems []TaintSpec `yaml:"taint-problems"`
}

// TaintSpec is one taint flow query: a source endpoint, a sink endpoint and
// the sanitizer procedures whose flows are discarded.
type TaintSpec struct {
	// Source is the source endpoint, [module:]function/arity$(ret|argN)
	Source string

	// Sink is the sink endpoint, same grammar as Source
	Sink string

	// Sanitizers lists procedure descriptors [module:]function/arity whose
	// summary edges and own flows are excluded
	Sanitizers []string
}

// Options are the scalar settings of a run.
type Options struct {
	// ResultsDir is the directory where the per-procedure graphs will be
	// written. If empty, a temporary directory is created next to the
	// config file.
	ResultsDir string `yaml:"results-dir"`

	// LineageLimit bounds the total number of edges the forward engine may
	// accumulate across all procedures. A limit <= 0 disables the bound.
	LineageLimit int `yaml:"lineage-limit"`

	// DebugReachable also serializes the intermediate reachable map next to
	// the taint result.
	DebugReachable bool `yaml:"debug-reachable"`

	// LogLevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level"`
}

// NewDefault returns an empty default config.
func NewDefault() *Config {
	return &Config{
		sourceFile:    "",
		TaintProblems: nil,
		Options: Options{
			ResultsDir:     "",
			LineageLimit:   0,
			DebugReachable: false,
			LogLevel:       int(InfoLevel),
		},
	}
}

// Load reads a configuration from a file
func Load(filename string) (*Config, error) {
	cfg := NewDefault()
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file: %w", err)
	}

	cfg.sourceFile = filename

	// If logLevel has not been specified (i.e. it is 0) set the default to Info
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}

	if err := setResultsDir(cfg, filename); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setResultsDir(c *Config, filename string) error {
	if c.ResultsDir == "" {
		tmpdir, err := os.MkdirTemp(path.Dir(filename), "*-results")
		if err != nil {
			return fmt.Errorf("could not create temp dir for results")
		}
		c.ResultsDir = tmpdir
		return nil
	}
	if err := os.MkdirAll(c.ResultsDir, 0750); err != nil {
		return fmt.Errorf("could not create directory %s", c.ResultsDir)
	}
	return nil
}

// RelPath returns filename path relative to the config source file
func (c Config) RelPath(filename string) string {
	return path.Join(path.Dir(c.sourceFile), filename)
}

// Verbose returns true is the configuration verbosity setting is larger
// than Info (i.e. Debug or Trace)
func (c Config) Verbose() bool {
	return c.LogLevel >= int(DebugLevel)
}

// ExceedsLineageLimit returns true if n exceeds the edge budget of the
// configuration. A budget <= 0 never bounds anything.
func (c Config) ExceedsLineageLimit(n int) bool {
	if c.LineageLimit <= 0 {
		return false
	}
	return n > c.LineageLimit
}
