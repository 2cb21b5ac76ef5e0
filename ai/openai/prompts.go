package openai

import (
	"fmt"

	"github.com/symposic/agendaquery/core"
)

const extractionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "drugs": {"type": "array", "items": {"type": "string"}},
    "institutions": {"type": "array", "items": {"type": "string"}},
    "identifiers": {"type": "array", "items": {"type": "string"}},
    "free_text": {"type": "array", "items": {"type": "string"}},
    "combine": {"type": "string", "enum": ["AND", "OR", "NEEDS_CLARIFICATION"]},
    "date": {"type": "string"},
    "target_field": {
      "type": "string",
      "enum": ["", "title", "speakers", "location", "session", "date", "time", "theme"]
    }
  },
  "required": ["drugs", "institutions", "identifiers", "free_text", "combine"]
}`

func buildExtractionPrompt() string {
	return fmt.Sprintf(`You interpret natural-language questions about a conference agenda of
medical presentations. Extract the structured search request from the user's
question and answer ONLY with JSON matching this schema:

%s

Rules:
- "drugs" lists drug or compound names exactly as the user wrote them.
- "institutions" lists organizations or places the user scoped to.
- "identifiers" lists abstract/presentation codes like "LBA4" or "P2.04".
- "free_text" lists remaining meaningful search words.
- "combine" is "AND" only when the user clearly wants entities together
  (a plus sign, "plus", "with", "combination"). Use "NEEDS_CLARIFICATION"
  when entities are joined by a bare "and" that could mean either. Use "OR"
  otherwise.
- "date" is YYYY-MM-DD when the question names a specific day, else "".
- "target_field" names the single attribute asked for ("what room" ->
  "location", "what time" -> "time"), else "".
Never invent entities that are not in the question.`, extractionResponseSchema)
}

func buildNarrationPrompt(verbosity core.Verbosity) string {
	style := "Write two or three sentences."
	switch verbosity {
	case core.VerbosityMinimal:
		style = "Answer in one short sentence."
	case core.VerbosityDetailed:
		style = "Write a thorough summary of a few short paragraphs, grouping related findings."
	}
	return fmt.Sprintf(`You summarize conference-agenda search results for a clinician.
You are given the matched records, the assumptions the search made, and
aggregate statistics. State the assumptions plainly so the reader knows how
the query was interpreted. Only describe what is in the payload; never add
outside knowledge. %s`, style)
}
