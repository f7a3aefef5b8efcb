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

import "errors"

var (
	// ErrBadEndpoint reports a malformed source, sink or sanitizer string.
	// Errors wrapping it carry the offending literal.
	ErrBadEndpoint = errors.New("bad endpoint")

	// ErrCorruptSummary reports a summary whose dependency set is marked
	// partial; the caller index cannot be trusted past it.
	ErrCorruptSummary = errors.New("corrupt summary")

	// ErrMissingDescription reports a procedure that contributed edges to
	// the final graph but has no resolvable description.
	ErrMissingDescription = errors.New("missing procedure description")
)
