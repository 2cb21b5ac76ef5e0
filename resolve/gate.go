package resolve

import (
	"fmt"
	"strings"

	"github.com/symposic/agendaquery/core"
)

// ClarificationRequest asks the caller to disambiguate combination logic
// before any filtering runs.
type ClarificationRequest struct {
	// Entities are the canonical names whose combination is ambiguous.
	Entities []string
	// Triggers are the literal query tokens that caused the ambiguity.
	Triggers []string
	// Question is the human-readable question to surface.
	Question string
	// Options are the two candidate interpretations, in the order
	// [both together, either one].
	Options [2]string
}

// Gate intercepts ambiguous combination logic. It returns a non-nil request
// exactly when the resolver verdict is NEEDS_CLARIFICATION; the search engine
// must not run for that request. Callers that cannot ask interactively may
// re-submit with an explicit verdict instead.
func Gate(resolved *core.ResolvedQuery) *ClarificationRequest {
	if resolved == nil || resolved.Combine != core.CombineNeedsClarification {
		return nil
	}

	entities := resolved.Drugs
	if len(entities) < 2 {
		entities = resolved.Institutions
	}
	joined := strings.Join(entities, " and ")

	return &ClarificationRequest{
		Entities: entities,
		Triggers: resolved.CombineHits,
		Question: fmt.Sprintf(
			"Did you mean presentations studying %s together as a combination, or presentations mentioning either one?",
			joined),
		Options: [2]string{
			fmt.Sprintf("combination: records mentioning all of %s", joined),
			fmt.Sprintf("either: records mentioning any of %s", joined),
		},
	}
}
