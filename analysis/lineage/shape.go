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

// Shape is the shape payload of one procedure: for each locator base and
// field-path prefix it records the refined field paths that the base splits
// into. The map queries replace the queried prefix with the recorded
// refinements and apply f to each; a prefix with no recorded refinement
// maps to itself. Shape queries never fail.
type Shape struct {
	refinements map[shapeKey][]FieldPath
}

type shapeBase int

const (
	shapeReturn shapeBase = iota
	shapeArgument
	shapeReturnOf
	shapeArgumentOf
)

type shapeKey struct {
	base   shapeBase
	callee ProcID
	index  int
	prefix FieldPath
}

// NewShape returns an empty shape payload.
func NewShape() *Shape {
	return &Shape{refinements: map[shapeKey][]FieldPath{}}
}

// AddReturn records that the return prefix fp refines into the path refined.
func (s *Shape) AddReturn(fp FieldPath, refined FieldPath) {
	s.add(shapeKey{base: shapeReturn, prefix: fp}, refined)
}

// AddArgument records a refinement of the i-th argument prefix fp.
func (s *Shape) AddArgument(i int, fp FieldPath, refined FieldPath) {
	s.add(shapeKey{base: shapeArgument, index: i, prefix: fp}, refined)
}

// AddReturnOf records a refinement of the callsite return of callee.
func (s *Shape) AddReturnOf(callee ProcID, fp FieldPath, refined FieldPath) {
	s.add(shapeKey{base: shapeReturnOf, callee: callee, prefix: fp}, refined)
}

// AddArgumentOf records a refinement of the i-th callsite argument of callee.
func (s *Shape) AddArgumentOf(callee ProcID, i int, fp FieldPath, refined FieldPath) {
	s.add(shapeKey{base: shapeArgumentOf, callee: callee, index: i, prefix: fp}, refined)
}

func (s *Shape) add(k shapeKey, refined FieldPath) {
	s.refinements[k] = append(s.refinements[k], refined)
}

// MapReturn applies f to every refinement of the return prefix fp.
func (s *Shape) MapReturn(fp FieldPath, f func(FieldPath) Vertex) []Vertex {
	return s.mapPaths(shapeKey{base: shapeReturn, prefix: fp}, fp, f)
}

// MapArgument applies f to every refinement of the i-th argument prefix fp.
func (s *Shape) MapArgument(i int, fp FieldPath, f func(FieldPath) Vertex) []Vertex {
	return s.mapPaths(shapeKey{base: shapeArgument, index: i, prefix: fp}, fp, f)
}

// MapReturnOf applies f to every refinement of the callsite return of callee.
func (s *Shape) MapReturnOf(callee ProcID, fp FieldPath, f func(FieldPath) Vertex) []Vertex {
	return s.mapPaths(shapeKey{base: shapeReturnOf, callee: callee, prefix: fp}, fp, f)
}

// MapArgumentOf applies f to every refinement of the i-th callsite argument
// of callee.
func (s *Shape) MapArgumentOf(callee ProcID, i int, fp FieldPath, f func(FieldPath) Vertex) []Vertex {
	return s.mapPaths(shapeKey{base: shapeArgumentOf, callee: callee, index: i, prefix: fp}, fp, f)
}

func (s *Shape) mapPaths(k shapeKey, fp FieldPath, f func(FieldPath) Vertex) []Vertex {
	refined, ok := s.refinements[k]
	if !ok {
		return []Vertex{f(fp)}
	}
	out := make([]Vertex, 0, len(refined))
	for _, r := range refined {
		out = append(out, f(r))
	}
	return out
}

// expandLocator enumerates the concrete vertices a locator denotes in a
// procedure whose shape payload is shape. A nil shape yields the single
// vertex that trivially matches the locator; this fallback keeps endpoints
// alive for procedures with no summary. Locators that shape information
// does not refine (locals, captures) expand to themselves.
func expandLocator(loc Vertex, shape *Shape) []Vertex {
	if shape == nil {
		return []Vertex{loc}
	}
	switch l := loc.(type) {
	case Return:
		return shape.MapReturn(l.Path, func(fp FieldPath) Vertex { return Return{Path: fp} })
	case Argument:
		return shape.MapArgument(l.Index, l.Path, func(fp FieldPath) Vertex {
			return Argument{Index: l.Index, Path: fp}
		})
	case ReturnOf:
		return shape.MapReturnOf(l.Callee, l.Path, func(fp FieldPath) Vertex {
			return ReturnOf{Callee: l.Callee, Path: fp}
		})
	case ArgumentOf:
		return shape.MapArgumentOf(l.Callee, l.Index, l.Path, func(fp FieldPath) Vertex {
			return ArgumentOf{Callee: l.Callee, Index: l.Index, Path: fp}
		})
	default:
		return []Vertex{loc}
	}
}
