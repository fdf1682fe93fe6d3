package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/circusagent/internal/domain"
	"github.com/alexanderramin/circusagent/internal/enrichment"
	"github.com/stretchr/testify/assert"
)

func sampleFestival() *domain.Festival {
	return &domain.Festival{
		ID:              "0123456789abcdef",
		Name:            "Chalon dans la Rue",
		Country:         "France",
		Town:            "Chalon-sur-Saône",
		FestivalType:    domain.FestivalStreet,
		ContactEmail:    "prog@chalon.example",
		StartDate:       "2026-07-22",
		EndDate:         "2026-07-26",
		ApplicationType: domain.ApplicationEmail,
		Comments:        "met them in 2024\nsend video",
	}
}

func TestFormatFestivalList(t *testing.T) {
	out := FormatFestivalList([]*domain.Festival{sampleFestival()})

	assert.Contains(t, out, "Chalon dans la Rue")
	assert.Contains(t, out, "Chalon-sur-Saône, France")
	assert.Contains(t, out, "2026-07-22")
	assert.Contains(t, out, "email")
	assert.Contains(t, out, "01234567")
}

func TestFormatFestivalList_PrefersApproximateDate(t *testing.T) {
	f := sampleFestival()
	f.ApproximateDate = "late July"

	assert.Contains(t, FormatFestivalList([]*domain.Festival{f}), "late July")
}

func TestFormatFestivalDetail(t *testing.T) {
	out := FormatFestivalDetail(sampleFestival())

	assert.Contains(t, out, "CHALON DANS LA RUE")
	assert.Contains(t, out, "2026-07-22 → 2026-07-26")
	assert.Contains(t, out, "prog@chalon.example")
	assert.Contains(t, out, "send video")
}

func TestFormatEnrichResult(t *testing.T) {
	res := &enrichment.Result{
		Festival: sampleFestival(),
		Outcome:  enrichment.OutcomeEnriched,
		Applied:  []string{"start_date", "end_date"},
		Derived:  []string{"approximate_date"},
		Rejected: []enrichment.Rejection{{Field: "contact_email", Value: "nope", Reason: "invalid email"}},
	}

	out := FormatEnrichResult(res)
	assert.Contains(t, out, "updated: start_date, end_date")
	assert.Contains(t, out, "derived: approximate_date")
	assert.Contains(t, out, "contact_email")
	assert.Contains(t, out, "invalid email")
}

func TestFormatEnrichResult_ShowsFailureDetail(t *testing.T) {
	res := &enrichment.Result{
		Festival: sampleFestival(),
		Outcome:  enrichment.OutcomeTransportFailure,
		Detail:   "request timed out",
	}

	assert.Contains(t, FormatEnrichResult(res), "request timed out")
}

func TestFormatOutcomeCounts(t *testing.T) {
	out := FormatOutcomeCounts(3, 2, map[enrichment.Outcome]int{
		enrichment.OutcomeEnriched:  2,
		enrichment.OutcomeMalformed: 1,
	})

	assert.Contains(t, out, "Enriched 3 festival(s), 2 saved")
	assert.Contains(t, out, "enriched")
	assert.Contains(t, out, "malformed")
}

func TestFormatApplicationList(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	apps := []*domain.Application{
		{
			ID: "aaaaaaaa-1111", FestivalID: "fest-1", CycleYear: 2026,
			ApplicationDate: now.AddDate(0, 0, -3), Method: domain.MethodEmail,
			Status: domain.StatusDraft, LastError: "smtp: connection refused",
		},
		{
			ID: "bbbbbbbb-2222", FestivalID: "fest-unknown", CycleYear: 2026,
			ApplicationDate: now, Method: domain.MethodForm, Status: domain.StatusApplied,
		},
	}

	out := FormatApplicationList(apps, map[string]string{"fest-1": "Chalon dans la Rue"}, now)
	assert.Contains(t, out, "Chalon dans la Rue")
	assert.Contains(t, out, "fest-unk")
	assert.Contains(t, out, "3d ago")
	assert.Contains(t, out, "send failed")
	assert.Contains(t, out, "form")
}

func TestFormatApplicationDetail(t *testing.T) {
	answered := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	app := &domain.Application{
		ID: "aaaaaaaa-1111", FestivalID: "fest-1", CycleYear: 2026,
		ApplicationDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Method:          domain.MethodEmail,
		Status:          domain.StatusInDiscussion,
		Subject:         "Juggling duo for Chalon 2026",
		Body:            "Hello, we would love to perform.",
		AttachmentsSent: []string{"dossier.pdf"},
		AnswerDate:      &answered,
	}

	out := FormatApplicationDetail(app, "Chalon dans la Rue")
	assert.Contains(t, out, "Chalon dans la Rue")
	assert.Contains(t, out, "2026-03-01")
	assert.Contains(t, out, "2026-04-02")
	assert.Contains(t, out, "in discussion")
	assert.Contains(t, out, "dossier.pdf")
	assert.Contains(t, out, "we would love to perform")
}
