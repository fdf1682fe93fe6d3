package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestParseApplicationStatus_CurrentVocabulary(t *testing.T) {
	for _, st := range ApplicationStatuses {
		got, err := ParseApplicationStatus(string(st))
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}
}

func TestParseApplicationStatus_LegacyValues(t *testing.T) {
	cases := map[string]ApplicationStatus{
		"NOT_APPLIED":   StatusDraft,
		"not applied":   StatusDraft,
		"Cancelled":     StatusCancelled,
		"canceled":      StatusCancelled,
		"in discussion": StatusInDiscussion,
	}
	for in, want := range cases {
		got, err := ParseApplicationStatus(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}
}

func TestParseApplicationStatus_Unknown(t *testing.T) {
	_, err := ParseApplicationStatus("MAYBE")
	assert.Error(t, err)
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to ApplicationStatus
		ok       bool
	}{
		{StatusDraft, StatusApplied, true},
		{StatusDraft, StatusCancelled, true},
		{StatusDraft, StatusAccepted, false},
		{StatusApplied, StatusDraft, false},
		{StatusApplied, StatusInDiscussion, true},
		{StatusInDiscussion, StatusAccepted, true},
		{StatusInDiscussion, StatusApplied, false},
		{StatusPostponed, StatusInDiscussion, true},
		{StatusAccepted, StatusRejected, false},
		{StatusCancelled, StatusDraft, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := map[ApplicationStatus]bool{
		StatusRejected: true, StatusIgnored: true, StatusAccepted: true, StatusCancelled: true,
	}
	for _, st := range ApplicationStatuses {
		assert.Equal(t, terminal[st], st.IsTerminal(), "status=%s", st)
	}
}

func TestMarkApplied_FromDraft(t *testing.T) {
	a := &Application{Status: StatusDraft, LastError: "smtp: timeout"}
	require.NoError(t, a.MarkApplied(testNow))
	assert.Equal(t, StatusApplied, a.Status)
	assert.Empty(t, a.LastError)
	assert.Equal(t, testNow, a.UpdatedAt)
}

func TestMarkApplied_NotDraft(t *testing.T) {
	a := &Application{Status: StatusApplied}
	err := a.MarkApplied(testNow)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusApplied, a.Status)
}

func TestRecordDispatchFailure_StaysDraft(t *testing.T) {
	a := &Application{Status: StatusDraft}
	a.RecordDispatchFailure("connection refused", testNow)
	assert.Equal(t, StatusDraft, a.Status)
	assert.Equal(t, "connection refused", a.LastError)
}

func TestSetStatus_DraftToAppliedRefused(t *testing.T) {
	a := &Application{Status: StatusDraft}
	err := a.SetStatus(StatusApplied, testNow)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusDraft, a.Status)
}

func TestSetStatus_AnswerMarksReceived(t *testing.T) {
	a := &Application{Status: StatusApplied}
	require.NoError(t, a.SetStatus(StatusInDiscussion, testNow))
	assert.True(t, a.AnswerReceived)
	require.NotNil(t, a.AnswerDate)
	assert.Equal(t, "2026-03-01", a.AnswerDate.Format(DateLayout))
}

func TestSetStatus_KeepsExistingAnswerDate(t *testing.T) {
	earlier := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	a := &Application{Status: StatusApplied, AnswerDate: &earlier}
	require.NoError(t, a.SetStatus(StatusRejected, testNow))
	assert.Equal(t, earlier, *a.AnswerDate)
}

func TestSetStatus_IgnoredIsNotAnAnswer(t *testing.T) {
	a := &Application{Status: StatusApplied}
	require.NoError(t, a.SetStatus(StatusIgnored, testNow))
	assert.False(t, a.AnswerReceived)
	assert.Nil(t, a.AnswerDate)
}
