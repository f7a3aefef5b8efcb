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

package lineage

import (
	"github.com/awslabs/lineage-tools/analysis/config"
)

// State carries everything the two engines share for one analysis run: the
// summary store, the caller index (built once, then frozen), the sanitizer
// set, the logger and the forward edge budget. Summaries are loaded lazily
// on first reference to a procedure and cached for later visits.
type State struct {
	Store   Store
	Callers CallerIndex
	Logger  *config.LogGroup

	sanitizers map[ProcID]bool

	// budget is the number of edges the forward engine may still
	// accumulate; a negative budget is unbounded. It is not shared with
	// the backward phase.
	budget int

	summaries map[ProcID]*Summary
	loaded    map[ProcID]bool
}

// NewState builds the state for one analysis run. The caller index must
// already be built; sanitizers may be empty.
func NewState(cfg *config.Config, logger *config.LogGroup, store Store, callers CallerIndex, sanitizers []ProcID) *State {
	budget := -1
	if cfg != nil && cfg.LineageLimit > 0 {
		budget = cfg.LineageLimit
	}
	sanSet := map[ProcID]bool{}
	for _, p := range sanitizers {
		sanSet[p] = true
	}
	return &State{
		Store:      store,
		Callers:    callers,
		Logger:     logger,
		sanitizers: sanSet,
		budget:     budget,
		summaries:  map[ProcID]*Summary{},
		loaded:     map[ProcID]bool{},
	}
}

// IsSanitizer reports whether p is in the sanitizer set.
func (s *State) IsSanitizer(p ProcID) bool {
	return s.sanitizers[p]
}

// summary returns the cached summary of p, loading it from the store on
// first reference. A procedure with no recorded summary caches nil.
func (s *State) summary(p ProcID) (*Summary, error) {
	if s.loaded[p] {
		return s.summaries[p], nil
	}
	sum, err := s.Store.Load(p)
	if err != nil {
		return nil, err
	}
	s.loaded[p] = true
	s.summaries[p] = sum
	return sum, nil
}

// takeEdge consumes one unit of the forward edge budget and reports whether
// the edge may be accumulated.
func (s *State) takeEdge() bool {
	if s.budget < 0 {
		return true
	}
	if s.budget == 0 {
		return false
	}
	s.budget--
	return true
}
