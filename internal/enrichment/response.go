package enrichment

import (
	"github.com/alexanderramin/circusagent/internal/llm"
)

// ParseFailure explains why a response yielded no fields.
type ParseFailure struct {
	Outcome Outcome
	Detail  string
}

// ParseResponse extracts the JSON object from raw model text. It never fails:
// on a gateway failure marker or malformed JSON it returns an empty mapping
// and a non-nil ParseFailure. Values are returned as decoded, unvalidated.
func ParseResponse(raw string) (map[string]any, *ParseFailure) {
	if llm.IsFailure(raw) {
		return map[string]any{}, &ParseFailure{Outcome: OutcomeTransportFailure, Detail: raw}
	}
	obj, err := llm.ExtractObject(raw)
	if err != nil {
		return map[string]any{}, &ParseFailure{Outcome: OutcomeMalformed, Detail: err.Error()}
	}
	return obj, nil
}
