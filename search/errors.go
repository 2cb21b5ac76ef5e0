// Copyright 2025 Symposic Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import "errors"

var (
	// ErrSnapshotRequired is returned when no corpus snapshot is provided.
	ErrSnapshotRequired = errors.New("corpus snapshot required")

	// ErrQueryRequired is returned when no resolved query is provided.
	ErrQueryRequired = errors.New("resolved query required")

	// ErrUnresolvedCombination is returned when a query reaches the engine
	// while its combination logic still needs clarification. The gate must
	// intercept such queries before search runs.
	ErrUnresolvedCombination = errors.New("combination logic needs clarification")

	// ErrEmptyPattern is returned when a matcher is requested for an empty name.
	ErrEmptyPattern = errors.New("empty pattern name")
)
