package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTransition indicates a status change not allowed by the graph.
var ErrInvalidTransition = errors.New("invalid status transition")

type ApplicationStatus string

const (
	StatusDraft        ApplicationStatus = "DRAFT"
	StatusApplied      ApplicationStatus = "APPLIED"
	StatusInDiscussion ApplicationStatus = "IN_DISCUSSION"
	StatusRejected     ApplicationStatus = "REJECTED"
	StatusIgnored      ApplicationStatus = "IGNORED"
	StatusAccepted     ApplicationStatus = "ACCEPTED"
	StatusPostponed    ApplicationStatus = "POSTPONED"
	StatusCancelled    ApplicationStatus = "CANCELLED"
	StatusOther        ApplicationStatus = "OTHER"
)

var ApplicationStatuses = []ApplicationStatus{
	StatusDraft, StatusApplied, StatusInDiscussion, StatusRejected, StatusIgnored,
	StatusAccepted, StatusPostponed, StatusCancelled, StatusOther,
}

// legacyStatuses maps vocabulary from older record snapshots onto the
// current closed set. Keys are upper-cased.
var legacyStatuses = map[string]ApplicationStatus{
	"NOT_APPLIED": StatusDraft,
	"CANCELED":    StatusCancelled,
}

// ParseApplicationStatus accepts any casing of the current vocabulary plus the
// legacy values in legacyStatuses. Unknown values are an error rather than a
// silent OTHER so manual edits cannot drift the vocabulary again.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	norm := normalizeEnumText(s)
	for _, st := range ApplicationStatuses {
		if string(st) == norm {
			return st, nil
		}
	}
	if st, ok := legacyStatuses[norm]; ok {
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// transitions is the forward-only status graph. DRAFT -> APPLIED is only taken
// through a confirmed dispatch; everything else is a manual edit.
var transitions = map[ApplicationStatus][]ApplicationStatus{
	StatusDraft:        {StatusApplied, StatusCancelled},
	StatusApplied:      {StatusInDiscussion, StatusRejected, StatusIgnored, StatusAccepted, StatusPostponed, StatusCancelled, StatusOther},
	StatusInDiscussion: {StatusRejected, StatusAccepted, StatusPostponed, StatusCancelled, StatusOther},
	StatusPostponed:    {StatusInDiscussion, StatusRejected, StatusAccepted, StatusCancelled, StatusOther},
	StatusOther:        {StatusInDiscussion, StatusRejected, StatusAccepted, StatusPostponed, StatusCancelled},
}

// CanTransition reports whether from -> to is an edge of the status graph.
func CanTransition(from, to ApplicationStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition leaves s.
func (s ApplicationStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// answerStatuses imply the festival replied.
var answerStatuses = map[ApplicationStatus]bool{
	StatusInDiscussion: true,
	StatusRejected:     true,
	StatusAccepted:     true,
}

// Application is one outreach attempt to a festival within a cycle.
type Application struct {
	ID              string
	FestivalID      string
	CycleYear       int
	ApplicationDate time.Time
	Method          Method
	Status          ApplicationStatus

	Subject             string
	Body                string
	AttachmentsSent     []string
	AttachmentsReceived []string

	AnswerReceived bool
	AnswerDate     *time.Time
	FollowUpDate   *time.Time

	ContractSigned  bool
	PaymentReceived bool
	PaymentAmount   *float64

	Comments  string
	LastError string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MarkApplied performs the DRAFT -> APPLIED edge after a confirmed dispatch.
func (a *Application) MarkApplied(now time.Time) error {
	if a.Status != StatusDraft {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, StatusApplied)
	}
	a.Status = StatusApplied
	a.LastError = ""
	a.UpdatedAt = now
	return nil
}

// RecordDispatchFailure keeps the application in DRAFT and remembers why the
// send failed so it can be retried.
func (a *Application) RecordDispatchFailure(reason string, now time.Time) {
	a.LastError = reason
	a.UpdatedAt = now
}

// SetStatus applies a manual status edit. DRAFT -> APPLIED is refused here;
// it belongs to the dispatch path.
func (a *Application) SetStatus(to ApplicationStatus, now time.Time) error {
	if a.Status == StatusDraft && to == StatusApplied {
		return fmt.Errorf("%w: %s -> %s requires a confirmed dispatch", ErrInvalidTransition, a.Status, to)
	}
	if !CanTransition(a.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, to)
	}
	a.Status = to
	if answerStatuses[to] && !a.AnswerReceived {
		a.AnswerReceived = true
		if a.AnswerDate == nil {
			d := now.UTC().Truncate(24 * time.Hour)
			a.AnswerDate = &d
		}
	}
	a.UpdatedAt = now
	return nil
}

// DisplayID truncates ID to 8 characters for listings.
func (a *Application) DisplayID() string {
	if len(a.ID) >= 8 {
		return a.ID[:8]
	}
	return a.ID
}

// String renders the status in lower-case words for display.
func (s ApplicationStatus) String() string {
	return strings.ReplaceAll(strings.ToLower(string(s)), "_", " ")
}
