package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFestival() *Festival {
	return &Festival{
		ID:              "550e8400-e29b-41d4-a716-446655440000",
		Name:            "Fete Des Arts",
		FestivalType:    FestivalStreet,
		ApplicationType: ApplicationUnknown,
	}
}

func TestParseFestivalType(t *testing.T) {
	cases := []struct {
		in    string
		want  FestivalType
		known bool
	}{
		{"STREET", FestivalStreet, true},
		{"circus", FestivalCircus, true},
		{"Juggling convention", FestivalJugglingConvention, true},
		{"juggling-convention", FestivalJugglingConvention, true},
		{"opera", FestivalOther, false},
		{"", FestivalOther, false},
	}
	for _, tc := range cases {
		got, known := ParseFestivalType(tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.Equal(t, tc.known, known, "input %q", tc.in)
	}
}

func TestParseApplicationType(t *testing.T) {
	got, known := ParseApplicationType("invitation only")
	assert.True(t, known)
	assert.Equal(t, ApplicationInvitationOnly, got)

	got, known = ParseApplicationType("carrier pigeon")
	assert.False(t, known)
	assert.Equal(t, ApplicationUnknown, got)
}

func TestMethodFor(t *testing.T) {
	assert.Equal(t, MethodEmail, MethodFor(ApplicationEmail))
	assert.Equal(t, MethodForm, MethodFor(ApplicationForm))
	assert.Equal(t, MethodOther, MethodFor(ApplicationInvitationOnly))
	assert.Equal(t, MethodUnknown, MethodFor(ApplicationUnknown))
}

func TestIsBlank(t *testing.T) {
	for _, s := range []string{"", "   ", "nan", "NaN", " NAN "} {
		assert.True(t, IsBlank(s), "input %q", s)
	}
	for _, s := range []string{"nancy", "0", "n/a"} {
		assert.False(t, IsBlank(s), "input %q", s)
	}
}

func TestIsBlankValue(t *testing.T) {
	assert.True(t, IsBlankValue(nil))
	assert.True(t, IsBlankValue(math.NaN()))
	assert.True(t, IsBlankValue("nan"))
	assert.False(t, IsBlankValue(3.0))
	assert.False(t, IsBlankValue(false))
	assert.False(t, IsBlankValue("Lyon"))
}

func TestCoalesceStr_SkipsSentinel(t *testing.T) {
	assert.Equal(t, "b", CoalesceStr("", "nan", "b", "c"))
	assert.Equal(t, "", CoalesceStr("", " "))
}

func TestValidate_Valid(t *testing.T) {
	f := validFestival()
	f.StartDate = "2026-07-12"
	f.EndDate = "2026-07-15"
	assert.NoError(t, f.Validate())
}

func TestValidate_RequiresName(t *testing.T) {
	f := validFestival()
	f.Name = "nan"
	err := f.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestValidate_RejectsOpenEnum(t *testing.T) {
	f := validFestival()
	f.FestivalType = "OPERA"
	assert.Error(t, f.Validate())
}

func TestValidate_DateOrder(t *testing.T) {
	f := validFestival()
	f.StartDate = "2026-07-15"
	f.EndDate = "2026-07-12"
	assert.ErrorIs(t, f.Validate(), ErrDateOrder)
}

func TestValidate_SameDayIsAllowed(t *testing.T) {
	f := validFestival()
	f.StartDate = "2026-07-15"
	f.EndDate = "2026-07-15"
	assert.NoError(t, f.Validate())
}

func TestValidate_MalformedDate(t *testing.T) {
	f := validFestival()
	f.ApplicationWindowEnd = "March"
	err := f.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "application_window_end")
}

func TestCyclePolicy_CycleYear(t *testing.T) {
	p := DefaultCyclePolicy()
	cases := []struct {
		date string
		want int
	}{
		{"2025-08-31", 2025},
		{"2025-09-01", 2026},
		{"2025-10-01", 2026},
		{"2026-03-01", 2026},
		{"2026-11-01", 2027},
		{"2026-12-31", 2027},
	}
	for _, tc := range cases {
		d, err := time.Parse(DateLayout, tc.date)
		require.NoError(t, err)
		assert.Equal(t, tc.want, p.CycleYear(d), "date %s", tc.date)
	}
}

func TestCyclePolicy_CustomCutoff(t *testing.T) {
	p := CyclePolicy{CutoffMonth: time.November}
	d := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2025, p.CycleYear(d))
	d = time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2026, p.CycleYear(d))
}

func TestCycleAnchor_StableUnderEveryCutoff(t *testing.T) {
	anchor := CycleAnchor(2025)
	for m := time.January; m <= time.December; m++ {
		assert.Equal(t, 2025, CyclePolicy{CutoffMonth: m}.CycleYear(anchor), "cutoff %s", m)
	}
}

func TestCyclePolicy_Validate(t *testing.T) {
	assert.NoError(t, DefaultCyclePolicy().Validate())
	assert.Error(t, CyclePolicy{CutoffMonth: 0}.Validate())
	assert.Error(t, CyclePolicy{CutoffMonth: 13}.Validate())
}
