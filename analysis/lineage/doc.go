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

/*
Package lineage implements interprocedural taint-flow extraction over
persisted per-procedure lineage graphs. The main entry point is the
[Analyze] function: given a source endpoint, a sink endpoint and a set of
sanitizer procedures, it computes the subgraph of all dataflow paths from
the source to the sink that a realistic execution could observe, decomposed
per procedure.

The analysis runs in two phases. [State.Reachable] walks forward from the
source, crossing procedure boundaries through caller lists and callsite
vertices while enforcing that no path follows a call edge and later a
return edge; matched call/return pairs are represented by summary edges
produced ahead of time. [State.Coreachable] then walks backward from the
sink, restricted to the forward result. The per-procedure subgraphs of the
second phase are the taint flows reported to the user.

Lineage graphs, dependency sets and shape payloads are consumed through the
narrow [Store] interface; this package never builds or modifies summaries.
*/
package lineage
