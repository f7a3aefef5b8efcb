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

import "github.com/awslabs/lineage-tools/internal/funcutil"

// DepSet is the set of procedures a summary called or otherwise referenced.
// Complete is false when the producer could not record every dependency, in
// which case the caller index cannot be built from it.
type DepSet struct {
	Procs    []ProcID
	Complete bool
}

// Summary is the persisted analysis record of one procedure: its dependency
// set, its shape payload and its lineage graph. Shape and Graph may be nil
// when the corresponding payload was not recorded.
type Summary struct {
	Deps  DepSet
	Shape *Shape
	Graph *Graph
}

// Store is the read side of the summary persistence layer. Load returns nil
// with no error when the procedure has no recorded summary; engines treat
// that as an empty lineage graph. Iterate visits every persisted summary's
// owner and dependency set exactly once, in a stable order, and is used only
// to build the caller index.
type Store interface {
	Load(p ProcID) (*Summary, error)
	Iterate(fn func(owner ProcID, deps DepSet) error) error
}

// Descriptions resolves a procedure to its human-readable description for
// reporting. Resolve returns none when no description is recorded.
type Descriptions interface {
	Resolve(p ProcID) funcutil.Optional[string]
}
