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


package resolve

import "errors"

var (
	// ErrDictionaryRequired is returned when a dictionary is not provided.
	ErrDictionaryRequired = errors.New("dictionary required")

	// ErrNilIdentifierPattern is returned for a nil identifier pattern override.
	ErrNilIdentifierPattern = errors.New("identifier pattern cannot be nil")
)
