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
	"errors"
	"testing"
)

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		in   string
		proc ProcID
		loc  Vertex
	}{
		{"m:f/1$ret", ProcID{Module: "m", Name: "f", Arity: 1}, Return{}},
		{"m:f/1$arg0", ProcID{Module: "m", Name: "f", Arity: 1}, Argument{Index: 0}},
		{"m:f/3$arg2", ProcID{Module: "m", Name: "f", Arity: 3}, Argument{Index: 2}},
		{"f/0$ret", ProcID{Name: "f", Arity: 0}, Return{}},
		{"my_mod:handle_call/12$arg11", ProcID{Module: "my_mod", Name: "handle_call", Arity: 12}, Argument{Index: 11}},
	}
	for _, tc := range tests {
		n, err := ParseEndpoint(tc.in)
		if err != nil {
			t.Errorf("ParseEndpoint(%q) failed: %v", tc.in, err)
			continue
		}
		if n.Proc != tc.proc {
			t.Errorf("ParseEndpoint(%q) procedure = %v, want %v", tc.in, n.Proc, tc.proc)
		}
		if n.Loc != tc.loc {
			t.Errorf("ParseEndpoint(%q) locator = %v, want %v", tc.in, n.Loc, tc.loc)
		}
	}
}

func TestParseEndpointErrors(t *testing.T) {
	bad := []string{
		"",
		"m:f/1",          // missing location
		"m:f/1$",         // empty location
		"m:f/1$retx",     // junk after ret
		"m:f/1$arg",      // missing index
		"m:f/1$arg-1",    // negative index
		"m:f/1$argone",   // non-decimal index
		"m:f$ret",        // missing arity
		"m:f/one$ret",    // non-decimal arity
		"m:f/-1$ret",     // negative arity
		":f/1$ret",       // empty module
		"m:/1$ret",       // empty function
		"m:f/1$arg0$ret", // two locations
	}
	for _, s := range bad {
		if _, err := ParseEndpoint(s); !errors.Is(err, ErrBadEndpoint) {
			t.Errorf("ParseEndpoint(%q) = %v, want ErrBadEndpoint", s, err)
		}
	}
}

func TestParseProc(t *testing.T) {
	p, err := ParseProc("mod:fun/2")
	if err != nil {
		t.Fatalf("ParseProc failed: %v", err)
	}
	if p != (ProcID{Module: "mod", Name: "fun", Arity: 2}) {
		t.Errorf("unexpected procedure %v", p)
	}
	if _, err := ParseProc("mod:fun/2$ret"); !errors.Is(err, ErrBadEndpoint) {
		t.Errorf("sanitizer syntax must not accept a location suffix")
	}
}

func TestEndpointRoundTrip(t *testing.T) {
	// Re-serializing a parsed endpoint yields the input back, modulo the
	// empty-module normalization.
	inputs := []string{
		"m:f/1$ret",
		"m:f/1$arg0",
		"other:g/10$arg9",
		"f/0$ret",
	}
	for _, s := range inputs {
		n, err := ParseEndpoint(s)
		if err != nil {
			t.Fatalf("ParseEndpoint(%q) failed: %v", s, err)
		}
		if got := FormatEndpoint(n); got != s {
			t.Errorf("round trip of %q yielded %q", s, got)
		}
	}
}
