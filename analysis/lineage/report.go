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

// GraphWriter is the host's graph serializer; it receives one procedure's
// subgraph together with the resolved description of the procedure.
type GraphWriter interface {
	WriteGraph(proc ProcID, desc string, g *Graph) error
}

// Report emits each per-procedure subgraph of res through w in sorted
// procedure order. A procedure with no resolvable description is skipped
// silently when its subgraph has no edges: its contribution has already
// been reported inside its callers as arg_of/ret_of vertices. A missing
// description with a non-empty subgraph is a fatal internal error.
func Report(res Result, descs Descriptions, w GraphWriter, logger *config.LogGroup) error {
	for _, p := range res.Procs() {
		g := res[p]
		desc := descs.Resolve(p)
		if desc.IsNone() {
			if g.NumEdges() == 0 {
				logger.Debugf("skipping %s: no description and no edges", p)
				continue
			}
			return fmt.Errorf("%w: %s has %d edges", ErrMissingDescription, p, g.NumEdges())
		}
		if err := w.WriteGraph(p, desc.Value(), g); err != nil {
			return fmt.Errorf("could not serialize graph of %s: %w", p, err)
		}
	}
	return nil
}
