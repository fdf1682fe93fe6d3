package outreach

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/circusagent/internal/enrichment"
	"github.com/alexanderramin/circusagent/internal/testutil"
)

var testPersona = enrichment.Persona{
	Name:    "Alex",
	Company: "Cirque Volant",
	Show:    "Up in the Air",
	Website: "https://cirquevolant.example",
}

func newTestComposer(gw *testutil.FakeGateway) *Composer {
	b := &enrichment.PromptBuilder{Now: func() time.Time { return testutil.FixedNow }}
	return NewComposer(gw, b, testPersona, nil)
}

func TestCompose_UsesModelOutput(t *testing.T) {
	gw := &testutil.FakeGateway{ChatText: "```\nDear Marie,\n\n**We** would love to come.\n```"}
	f := testutil.NewTestFestival("Namur en Mai", testutil.WithContactPerson("Marie"))

	d := newTestComposer(gw).Compose(context.Background(), f)

	assert.False(t, d.Fallback)
	assert.Equal(t, "Dear Marie,\n\nWe would love to come.", d.Body)
	assert.Equal(t, "Up in the Air for Namur en Mai 2026", d.Subject)
	assert.Contains(t, gw.ChatCalls[0], "Dear Marie,")
}

func TestCompose_FallsBackOnGatewayFailure(t *testing.T) {
	gw := &testutil.FakeGateway{ChatText: "[error] UNAVAILABLE: connection refused"}
	f := testutil.NewTestFestival("Namur en Mai")

	d := newTestComposer(gw).Compose(context.Background(), f)

	assert.True(t, d.Fallback)
	assert.True(t, strings.HasPrefix(d.Body, "Dear Namur en Mai team,"))
	assert.Contains(t, d.Body, "Cirque Volant")
	assert.Contains(t, d.Body, "Up in the Air")
	assert.LessOrEqual(t, utf8.RuneCountInString(d.Body), enrichment.MaxEmailBodyChars)
}

func TestCompose_FallsBackOnEmptyOutput(t *testing.T) {
	gw := &testutil.FakeGateway{ChatText: "```\n```"}
	d := newTestComposer(gw).Compose(context.Background(), testutil.NewTestFestival("Fest"))
	assert.True(t, d.Fallback)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"html", "<p>Dear team,</p><br/>Hello", "Dear team,Hello"},
		{"markdown", "# Hi\n- one\n- **two**", "Hi\none\ntwo"},
		{"subject line", "Subject: Proposal\n\nDear team,", "Dear team,"},
		{"blank lines", "a\n\n\n\nb", "a\n\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitize_CapsLength(t *testing.T) {
	long := strings.Repeat("juggling ", 100)
	out := Sanitize(long)
	assert.LessOrEqual(t, utf8.RuneCountInString(out), enrichment.MaxEmailBodyChars)
	assert.True(t, strings.HasSuffix(out, "juggling"))
}

func TestTruncate_CountsRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "déjà vu", 10, "déjà vu"},
		{"boundary past half", "éééééé ééééééé", 10, "éééééé"},
		{"boundary before half", "éééé éééééééééé", 10, "éééé ééééé"},
		{"no boundary", "ééééééééééééééé", 10, "éééééééééé"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, utf8.RuneCountInString(got), tt.max)
		})
	}
}

func TestSanitize_CapsAccentedBody(t *testing.T) {
	long := strings.Repeat("édition ", 100)
	out := Sanitize(long)
	assert.LessOrEqual(t, utf8.RuneCountInString(out), enrichment.MaxEmailBodyChars)
	assert.Greater(t, utf8.RuneCountInString(out), enrichment.MaxEmailBodyChars/2)
	assert.True(t, strings.HasSuffix(out, "édition"))
}
