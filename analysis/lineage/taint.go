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
	"fmt"

	"github.com/awslabs/lineage-tools/analysis/config"
)

// Problem is one parsed taint flow query.
type Problem struct {
	Source     Node
	Sink       Node
	Sanitizers []ProcID
}

// ParseProblem parses the endpoint strings of a taint spec.
func ParseProblem(spec config.TaintSpec) (Problem, error) {
	source, err := ParseEndpoint(spec.Source)
	if err != nil {
		return Problem{}, err
	}
	sink, err := ParseEndpoint(spec.Sink)
	if err != nil {
		return Problem{}, err
	}
	var sanitizers []ProcID
	for _, s := range spec.Sanitizers {
		p, err := ParseProc(s)
		if err != nil {
			return Problem{}, err
		}
		sanitizers = append(sanitizers, p)
	}
	return Problem{Source: source, Sink: sink, Sanitizers: sanitizers}, nil
}

// Flows is the outcome of one problem: the forward reachable map, the taint
// (coreachable) map, and the caller index the engines ran against.
type Flows struct {
	Reachable Result
	Taint     Result
	Callers   CallerIndex
}

// Analyze computes the taint flow subgraphs for one problem: it builds the
// caller index by scanning the store once, runs the forward reachability
// phase from the source, then the backward coreachability phase from the
// sink restricted to the forward result.
func Analyze(cfg *config.Config, logger *config.LogGroup, store Store, p Problem) (*Flows, error) {
	callers, err := BuildCallerIndex(store)
	if err != nil {
		return nil, fmt.Errorf("could not build caller index: %w", err)
	}
	logger.Infof("caller index: %d procedures with known callers", len(callers))
	if cfg.Verbose() {
		for _, group := range callers.RecursiveGroups() {
			logger.Debugf("recursive group: %v", group)
		}
	}

	state := NewState(cfg, logger, store, callers, p.Sanitizers)

	reach, err := state.Reachable([]Node{p.Source})
	if err != nil {
		return nil, fmt.Errorf("forward reachability failed: %w", err)
	}
	logger.Infof("reachable: %d procedures, %d edges", len(reach), reach.NumEdges())
	warnIfUnresolved(logger, p.Source, reach)

	taint, err := state.Coreachable([]Node{p.Sink}, reach)
	if err != nil {
		return nil, fmt.Errorf("backward coreachability failed: %w", err)
	}
	logger.Infof("taint: %d procedures, %d edges", len(taint), taint.NumEdges())
	if len(taint) == 0 {
		logger.Warnf("no flow found from %s to %s", FormatEndpoint(p.Source), FormatEndpoint(p.Sink))
	}

	return &Flows{Reachable: reach, Taint: taint, Callers: callers}, nil
}

// warnIfUnresolved flags endpoints that resolved to nothing traceable; a
// typo in a user-supplied endpoint otherwise shows up only as an empty
// result, which reads like "no flow".
func warnIfUnresolved(logger *config.LogGroup, source Node, reach Result) {
	g, ok := reach[source.Proc]
	if !ok || g.NumVertices() == 0 {
		logger.Warnf("source %s resolved to no vertices in any known procedure", FormatEndpoint(source))
		return
	}
	if g.NumEdges() == 0 && len(reach) == 1 {
		logger.Warnf("source %s has no lineage recorded; check the endpoint for typos", FormatEndpoint(source))
	}
}
