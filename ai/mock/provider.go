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


package mock

import "github.com/symposic/agendaquery/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates mock extractor and narrator instances.
type MockProvider struct {
	extractor *MockKeywordExtractor
	narrator  *MockNarrator
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use GetMockExtractor()/GetMockNarrator() to access concrete types for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		extractor: NewMockKeywordExtractor(),
		narrator:  NewMockNarrator(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(extractor *MockKeywordExtractor, narrator *MockNarrator) ai.AIProvider {
	return &MockProvider{
		extractor: extractor,
		narrator:  narrator,
	}
}

// KeywordExtractor returns the mock keyword extractor.
func (p *MockProvider) KeywordExtractor() ai.KeywordExtractor {
	return p.extractor
}

// Narrator returns the mock narrator.
func (p *MockProvider) Narrator() ai.Narrator {
	return p.narrator
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockExtractor returns the underlying mock extractor for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockExtractor() *MockKeywordExtractor {
	return p.extractor
}

// GetMockNarrator returns the underlying mock narrator for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockNarrator() *MockNarrator {
	return p.narrator
}
