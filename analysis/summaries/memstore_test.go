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
	"testing"

	"github.com/awslabs/lineage-tools/analysis/lineage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreLoadMissing(t *testing.T) {
	store := NewMemStore()
	sum, err := store.Load(lineage.ProcID{Module: "m", Name: "f", Arity: 1})
	require.NoError(t, err)
	assert.Nil(t, sum)
}

func TestMemStoreIterateSorted(t *testing.T) {
	store := NewMemStore()
	b := lineage.ProcID{Module: "b", Name: "f", Arity: 0}
	a := lineage.ProcID{Module: "a", Name: "f", Arity: 0}
	store.Add(b, &lineage.Summary{Deps: lineage.DepSet{Complete: true}})
	store.Add(a, &lineage.Summary{Deps: lineage.DepSet{Complete: true}})

	var owners []lineage.ProcID
	err := store.Iterate(func(owner lineage.ProcID, deps lineage.DepSet) error {
		owners = append(owners, owner)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []lineage.ProcID{a, b}, owners)
}

func TestMemStoreResolve(t *testing.T) {
	store := NewMemStore()
	p := lineage.ProcID{Module: "m", Name: "f", Arity: 1}
	assert.True(t, store.Resolve(p).IsNone())
	store.SetDescription(p, "m:f/1 (src/m.src:4)")
	desc := store.Resolve(p)
	require.True(t, desc.IsSome())
	assert.Equal(t, "m:f/1 (src/m.src:4)", desc.Value())
}
