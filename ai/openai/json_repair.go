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


package openai

import "strings"

// repairJSON fixes the one malformation small models produce reliably: a key
// missing its opening quote after `{` or `,` (e.g. `, combine":` instead of
// `, "combine":`). Anything else is left for the JSON decoder to reject.
func repairJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	for i := 0; i < len(s); {
		c := s[i]
		b.WriteByte(c)
		i++
		if c != '{' && c != ',' {
			continue
		}
		for i < len(s) && (s[i] == ' ' || s[i] == '\n' || s[i] == '\t') {
			b.WriteByte(s[i])
			i++
		}
		start := i
		for i < len(s) && isKeyByte(s[i]) {
			i++
		}
		// A bare key run ending in `":` lost its opening quote.
		if i > start && i+1 < len(s) && s[i] == '"' && s[i+1] == ':' {
			b.WriteByte('"')
		}
		b.WriteString(s[start:i])
	}
	return b.String()
}

func isKeyByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}
