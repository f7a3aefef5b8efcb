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

package summaries

import (
	"sort"

	"github.com/awslabs/lineage-tools/analysis/lineage"
	"github.com/awslabs/lineage-tools/internal/funcutil"
)

// MemStore is an in-memory summary store, used by tests and by embedders
// that build summaries in the same process. It implements both
// [lineage.Store] and [lineage.Descriptions].
type MemStore struct {
	records map[lineage.ProcID]*memRecord
}

type memRecord struct {
	sum     *lineage.Summary
	desc    string
	hasDesc bool
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{records: map[lineage.ProcID]*memRecord{}}
}

// Add records the summary of p, replacing any previous one.
func (m *MemStore) Add(p lineage.ProcID, sum *lineage.Summary) {
	m.record(p).sum = sum
}

// SetDescription records the human-readable description of p.
func (m *MemStore) SetDescription(p lineage.ProcID, desc string) {
	r := m.record(p)
	r.desc = desc
	r.hasDesc = true
}

func (m *MemStore) record(p lineage.ProcID) *memRecord {
	r, ok := m.records[p]
	if !ok {
		r = &memRecord{}
		m.records[p] = r
	}
	return r
}

// Load returns the summary of p, or nil when none was added.
func (m *MemStore) Load(p lineage.ProcID) (*lineage.Summary, error) {
	r, ok := m.records[p]
	if !ok {
		return nil, nil
	}
	return r.sum, nil
}

// Iterate visits every added summary in sorted procedure order.
func (m *MemStore) Iterate(fn func(owner lineage.ProcID, deps lineage.DepSet) error) error {
	ps := make([]lineage.ProcID, 0, len(m.records))
	for p, r := range m.records {
		if r.sum != nil {
			ps = append(ps, p)
		}
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].Less(ps[j]) })
	for _, p := range ps {
		if err := fn(p, m.records[p].sum.Deps); err != nil {
			return err
		}
	}
	return nil
}

// Resolve returns the recorded description of p.
func (m *MemStore) Resolve(p lineage.ProcID) funcutil.Optional[string] {
	r, ok := m.records[p]
	if !ok || !r.hasDesc {
		return funcutil.None[string]()
	}
	return funcutil.Some(r.desc)
}
