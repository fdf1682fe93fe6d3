package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse_FencedAndBareAgree(t *testing.T) {
	bare := `{"town":"Ghent","start_date":"July 12, 2026"}`
	fenced := "```json\n" + bare + "\n```"

	a, fa := ParseResponse(bare)
	b, fb := ParseResponse(fenced)
	require.Nil(t, fa)
	require.Nil(t, fb)
	assert.Equal(t, a, b)
	assert.Equal(t, "Ghent", a["town"])
}

func TestParseResponse_MalformedYieldsEmptyMapping(t *testing.T) {
	for _, raw := range []string{"", "sorry, no data", `{"town": }`, "```json\n{\n```"} {
		fields, failure := ParseResponse(raw)
		assert.NotNil(t, fields)
		assert.Empty(t, fields)
		require.NotNil(t, failure, raw)
		assert.Equal(t, OutcomeMalformed, failure.Outcome)
		assert.NotEmpty(t, failure.Detail)
	}
}

func TestParseResponse_GatewayFailure(t *testing.T) {
	fields, failure := ParseResponse("[error] TIMEOUT: llm request timed out")
	assert.Empty(t, fields)
	require.NotNil(t, failure)
	assert.Equal(t, OutcomeTransportFailure, failure.Outcome)
}

func TestParseResponse_NoSemanticValidation(t *testing.T) {
	fields, failure := ParseResponse(`{"festival_type":"rodeo","start_date":"whenever"}`)
	require.Nil(t, failure)
	assert.Equal(t, "rodeo", fields["festival_type"])
	assert.Equal(t, "whenever", fields["start_date"])
}
