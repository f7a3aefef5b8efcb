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
	"reflect"
	"testing"
)

func TestExpandLocatorWithoutShape(t *testing.T) {
	// The single-vertex fallback keeps endpoints alive for procedures with
	// no shape payload.
	locs := []Vertex{
		Return{},
		Argument{Index: 2, Path: NewFieldPath("a", "b")},
		ReturnOf{Callee: proc("m", "f", 1)},
		ArgumentOf{Callee: proc("m", "f", 1), Index: 0},
	}
	for _, loc := range locs {
		got := expandLocator(loc, nil)
		if len(got) != 1 || got[0] != loc {
			t.Errorf("expandLocator(%v, nil) = %v, want the locator itself", loc, got)
		}
	}
}

func TestExpandLocatorReturnRefinement(t *testing.T) {
	s := NewShape()
	s.AddReturn("", NewFieldPath("head"))
	s.AddReturn("", NewFieldPath("tail"))
	got := expandLocator(Return{}, s)
	want := []Vertex{Return{Path: NewFieldPath("head")}, Return{Path: NewFieldPath("tail")}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expandLocator = %v, want %v", got, want)
	}
}

func TestExpandLocatorArgumentRefinement(t *testing.T) {
	s := NewShape()
	s.AddArgument(1, "", NewFieldPath("payload"))
	got := expandLocator(Argument{Index: 1}, s)
	want := []Vertex{Argument{Index: 1, Path: NewFieldPath("payload")}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expandLocator = %v, want %v", got, want)
	}
	// A different argument index has no refinement recorded and maps to
	// itself.
	got = expandLocator(Argument{Index: 0}, s)
	want = []Vertex{Argument{Index: 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expandLocator = %v, want %v", got, want)
	}
}

func TestExpandLocatorCallsiteRefinement(t *testing.T) {
	f := proc("m", "f", 1)
	s := NewShape()
	s.AddReturnOf(f, "", NewFieldPath("value"))
	s.AddArgumentOf(f, 0, NewFieldPath("req"), NewFieldPath("req", "body"))
	got := expandLocator(ReturnOf{Callee: f}, s)
	want := []Vertex{ReturnOf{Callee: f, Path: NewFieldPath("value")}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expandLocator = %v, want %v", got, want)
	}
	got = expandLocator(ArgumentOf{Callee: f, Index: 0, Path: NewFieldPath("req")}, s)
	want = []Vertex{ArgumentOf{Callee: f, Index: 0, Path: NewFieldPath("req", "body")}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expandLocator = %v, want %v", got, want)
	}
}

func TestExpandLocatorLocalFallsThrough(t *testing.T) {
	s := NewShape()
	s.AddReturn("", NewFieldPath("head"))
	v := Local{Name: "x"}
	got := expandLocator(v, s)
	if len(got) != 1 || got[0] != Vertex(v) {
		t.Errorf("locals are not shape-refined, got %v", got)
	}
}

func TestFieldPathSelectors(t *testing.T) {
	if sel := NewFieldPath().Selectors(); sel != nil {
		t.Errorf("empty path must have no selectors, got %v", sel)
	}
	fp := NewFieldPath("a", "b", "c")
	if !reflect.DeepEqual(fp.Selectors(), []string{"a", "b", "c"}) {
		t.Errorf("unexpected selectors %v", fp.Selectors())
	}
}
