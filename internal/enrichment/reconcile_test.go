package enrichment

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/circusagent/internal/domain"
)

func sparseFestival() *domain.Festival {
	return &domain.Festival{
		ID:              "f-1",
		Name:            "Namur en Mai",
		Country:         "Belgium",
		FestivalType:    domain.FestivalStreet,
		ApplicationType: domain.ApplicationUnknown,
		ContactEmail:    "nan",
	}
}

func TestReconcile_AbsentKeysLeaveFieldsUntouched(t *testing.T) {
	f := sparseFestival()
	f.Town = "Namur"
	want := *f
	want.ContactEmail = ""

	rec := Reconciler{}.Apply(f, map[string]any{})
	assert.Empty(t, rec.Applied)
	if diff := cmp.Diff(want, *f); diff != "" {
		t.Fatalf("record changed (-want +got):\n%s", diff)
	}
}

func TestReconcile_BlankAndSentinelValuesAreAbsent(t *testing.T) {
	f := sparseFestival()
	f.Town = "Namur"

	rec := Reconciler{}.Apply(f, map[string]any{
		"town":          "",
		"country":       "NaN",
		"website_url":   nil,
		"contact_email": math.NaN(),
		"description":   "   ",
	})
	assert.Empty(t, rec.Applied)
	assert.Empty(t, rec.Rejected)
	assert.Equal(t, "Namur", f.Town)
	assert.Equal(t, "Belgium", f.Country)
	assert.Empty(t, f.ContactEmail, "existing sentinel is cleared, not kept as data")
}

func TestReconcile_DatesParsedToISO(t *testing.T) {
	f := sparseFestival()

	rec := Reconciler{}.Apply(f, map[string]any{
		"start_date":               "July 12, 2026",
		"end_date":                 "2026-07-15",
		"application_window_end":   "next spring",
		"application_window_start": 20260101.0,
	})
	assert.Equal(t, "2026-07-12", f.StartDate)
	assert.Equal(t, "2026-07-15", f.EndDate)
	assert.Empty(t, f.ApplicationWindowEnd)
	assert.Empty(t, f.ApplicationWindowStart)
	assert.ElementsMatch(t, []string{"start_date", "end_date"}, rec.Applied)

	require.Len(t, rec.Rejected, 2)
	fields := []string{rec.Rejected[0].Field, rec.Rejected[1].Field}
	assert.ElementsMatch(t, []string{"application_window_start", "application_window_end"}, fields)
}

func TestReconcile_EnumsNeverPassThroughVerbatim(t *testing.T) {
	f := sparseFestival()

	rec := Reconciler{}.Apply(f, map[string]any{
		"festival_type":    "rodeo",
		"application_type": "carrier pigeon",
	})
	assert.Equal(t, domain.FestivalOther, f.FestivalType)
	assert.Equal(t, domain.ApplicationUnknown, f.ApplicationType)
	assert.Len(t, rec.Coerced, 2)
	assert.Equal(t, []string{"festival_type"}, rec.Applied, "UNKNOWN was already set")
}

func TestReconcile_EnumsCaseInsensitive(t *testing.T) {
	f := sparseFestival()

	rec := Reconciler{}.Apply(f, map[string]any{
		"festival_type":    "juggling convention",
		"application_type": "Invitation-Only",
	})
	assert.Equal(t, domain.FestivalJugglingConvention, f.FestivalType)
	assert.Equal(t, domain.ApplicationInvitationOnly, f.ApplicationType)
	assert.Empty(t, rec.Coerced)
}

func TestReconcile_UnknownKeysIgnored(t *testing.T) {
	f := sparseFestival()
	rec := Reconciler{}.Apply(f, map[string]any{
		"name":       "Renamed",
		"ticket_url": "https://tickets.example",
		"town":       "Namur",
	})
	assert.Equal(t, "Namur en Mai", f.Name, "name is never overwritten")
	assert.Equal(t, []string{"name", "ticket_url"}, rec.Ignored)
	assert.Equal(t, []string{"town"}, rec.Applied)
}

func TestReconcile_NonStringRejected(t *testing.T) {
	f := sparseFestival()
	rec := Reconciler{}.Apply(f, map[string]any{"town": 42.0, "comments": true})
	assert.Len(t, rec.Rejected, 2)
	assert.Empty(t, f.Town)
}
