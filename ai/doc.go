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


// Package ai provides abstractions for the LLM services used around the
// query engine: free-form keyword extraction on the way in, and narration
// of finalized results on the way out.
//
// The package defines two service interfaces plus a provider that manages
// their lifecycle:
//
//   - KeywordExtractor: interprets unstructured phrasing into the same
//     ResolvedQuery shape the deterministic resolver produces
//   - Narrator: turns a finalized search payload into prose
//   - AIProvider: aggregates both for convenient initialization
//
// Two implementation sub-packages exist:
//
//   - ai/openai: production implementation over OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external services
//
// Public constructors in ai/openai return interface types to enforce
// abstraction; mock constructors return concrete types so tests can inject
// behavior and assert call counts.
//
// Both services run strictly outside the search core's concurrency
// contract: extraction happens before resolution is finalized, narration
// after the result set is sealed, and both are independently cancellable so
// a slow completion never blocks an unrelated query against the shared index.
package ai
