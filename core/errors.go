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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidRecord indicates a Record failed validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrEmptyRecordID indicates the record ID field is empty.
	ErrEmptyRecordID = errors.New("record id cannot be empty")

	// ErrEmptyTitle indicates the record Title field is empty.
	ErrEmptyTitle = errors.New("record title cannot be empty")

	// ErrInvalidCombineMode indicates an invalid CombineMode value.
	ErrInvalidCombineMode = errors.New("invalid combine mode")

	// ErrInvalidIntent indicates an invalid Intent value.
	ErrInvalidIntent = errors.New("invalid intent")

	// ErrInvalidTemporalFilter indicates a temporal filter whose range is inverted.
	ErrInvalidTemporalFilter = errors.New("temporal filter range is inverted")
)
