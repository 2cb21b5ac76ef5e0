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

import "fmt"

// ValidateRecord validates a Record according to domain rules.
//
// Validation rules:
//   - ID must not be empty (it is the corpus unique key)
//   - Title must not be empty
//
// NOT validated:
//   - Date (zero value means the program listed no date)
//   - Speakers, Affiliation, Session, Time, Theme (all optional text)
func ValidateRecord(record *Record) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if record.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyRecordID)
	}

	if record.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyTitle)
	}

	return nil
}

// ValidateCombineMode validates that a CombineMode has a valid value.
func ValidateCombineMode(mode CombineMode) error {
	switch mode {
	case CombineOr, CombineAnd, CombineNeedsClarification:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidCombineMode, mode)
	}
}

// ValidateIntent validates that an Intent has a valid value.
func ValidateIntent(intent Intent) error {
	switch intent {
	case IntentFactualLookup, IntentList, IntentSynthesis, IntentComparison:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidIntent, intent)
	}
}

// ValidateTemporalFilter validates that a temporal filter's range is ordered.
// A nil filter is valid (no temporal constraint).
func ValidateTemporalFilter(filter *TemporalFilter) error {
	if filter == nil {
		return nil
	}
	if filter.To.Before(filter.From) {
		return ErrInvalidTemporalFilter
	}
	return nil
}
