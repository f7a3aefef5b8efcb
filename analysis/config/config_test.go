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
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("could not write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	contents := `
results-dir: ` + filepath.Join(dir, "out") + `
lineage-limit: 5000
debug-reachable: true
log-level: 4
taint-problems:
  - source: "m:read_input/1$ret"
    sink: "m:exec/1$arg0"
    sanitizers:
      - "m:escape/1"
`
	cfg, err := Load(writeConfig(t, contents))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LineageLimit != 5000 {
		t.Errorf("lineage-limit = %d, want 5000", cfg.LineageLimit)
	}
	if !cfg.DebugReachable {
		t.Errorf("debug-reachable not set")
	}
	if !cfg.Verbose() {
		t.Errorf("log-level 4 must be verbose")
	}
	if len(cfg.TaintProblems) != 1 {
		t.Fatalf("expected 1 taint problem, got %d", len(cfg.TaintProblems))
	}
	p := cfg.TaintProblems[0]
	if p.Source != "m:read_input/1$ret" || p.Sink != "m:exec/1$arg0" {
		t.Errorf("unexpected problem %+v", p)
	}
	if len(p.Sanitizers) != 1 || p.Sanitizers[0] != "m:escape/1" {
		t.Errorf("unexpected sanitizers %v", p.Sanitizers)
	}
	// The results directory is created as part of loading.
	if _, err := os.Stat(cfg.ResultsDir); err != nil {
		t.Errorf("results dir not created: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "taint-problems: []\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != int(InfoLevel) {
		t.Errorf("default log level = %d, want %d", cfg.LogLevel, int(InfoLevel))
	}
	if cfg.ResultsDir == "" {
		t.Errorf("a results directory must be allocated by default")
	}
	if cfg.ExceedsLineageLimit(1 << 30) {
		t.Errorf("zero lineage-limit must never bound")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Errorf("missing file must be an error")
	}
}

func TestLoadBadYaml(t *testing.T) {
	if _, err := Load(writeConfig(t, ":\n\t- not yaml")); err == nil {
		t.Errorf("bad yaml must be an error")
	}
}

func TestExceedsLineageLimit(t *testing.T) {
	cfg := NewDefault()
	cfg.LineageLimit = 10
	if cfg.ExceedsLineageLimit(10) {
		t.Errorf("the limit itself does not exceed")
	}
	if !cfg.ExceedsLineageLimit(11) {
		t.Errorf("11 exceeds a limit of 10")
	}
}
