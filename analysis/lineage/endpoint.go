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
	"strconv"
	"strings"
)

// ParseEndpoint parses a textual endpoint of the form
//
//	[module:]function/arity$(ret|argN)
//
// into an interprocedural node whose locator is Return or Argument with an
// empty field path. The empty module denotes the default module. Any
// deviation from the grammar yields an error wrapping ErrBadEndpoint with
// the offending literal.
func ParseEndpoint(s string) (Node, error) {
	procPart, locPart, found := strings.Cut(s, "$")
	if !found {
		return Node{}, fmt.Errorf("%w: missing $location in %q", ErrBadEndpoint, s)
	}
	proc, err := ParseProc(procPart)
	if err != nil {
		return Node{}, fmt.Errorf("%w: %q", ErrBadEndpoint, s)
	}
	loc, err := parseLocation(locPart)
	if err != nil {
		return Node{}, fmt.Errorf("%w: %q", ErrBadEndpoint, s)
	}
	return Node{Proc: proc, Loc: loc}, nil
}

// ParseProc parses a bare procedure descriptor [module:]function/arity, the
// grammar used for sanitizers.
func ParseProc(s string) (ProcID, error) {
	module := ""
	rest := s
	if mod, fn, found := strings.Cut(s, ":"); found {
		if mod == "" {
			return ProcID{}, fmt.Errorf("%w: empty module in %q", ErrBadEndpoint, s)
		}
		module = mod
		rest = fn
	}
	name, arityPart, found := strings.Cut(rest, "/")
	if !found || name == "" {
		return ProcID{}, fmt.Errorf("%w: %q", ErrBadEndpoint, s)
	}
	arity, err := parseDecimal(arityPart)
	if err != nil {
		return ProcID{}, fmt.Errorf("%w: bad arity in %q", ErrBadEndpoint, s)
	}
	return ProcID{Module: module, Name: name, Arity: arity}, nil
}

func parseLocation(s string) (Vertex, error) {
	if s == "ret" {
		return Return{}, nil
	}
	if idxPart, found := strings.CutPrefix(s, "arg"); found {
		idx, err := parseDecimal(idxPart)
		if err != nil {
			return nil, err
		}
		return Argument{Index: idx}, nil
	}
	return nil, fmt.Errorf("unknown location %q", s)
}

// parseDecimal accepts non-negative decimal literals only; strconv.Atoi
// alone would admit signs and leading plus.
func parseDecimal(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not a decimal: %q", s)
		}
	}
	return strconv.Atoi(s)
}

// FormatEndpoint re-serializes a node to endpoint syntax. Parsing the
// result yields the node back; nodes whose locator is not Return or
// Argument have no endpoint syntax and format with a ? location.
func FormatEndpoint(n Node) string {
	var loc string
	switch l := n.Loc.(type) {
	case Return:
		loc = "ret"
	case Argument:
		loc = "arg" + strconv.Itoa(l.Index)
	default:
		loc = "?"
	}
	return fmt.Sprintf("%s$%s", n.Proc, loc)
}
