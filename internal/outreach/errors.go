package outreach

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateApplication matches every *DuplicateError.
	ErrDuplicateApplication = errors.New("application already exists for this cycle")
	// ErrDispatchFailed wraps mailer errors. The application stays DRAFT.
	ErrDispatchFailed = errors.New("dispatch failed")
	// ErrNoRecipient indicates a festival without a usable contact email.
	ErrNoRecipient = errors.New("festival has no contact email")
	// ErrManualMethod is returned when Dispatch is asked to mail an
	// application that is submitted outside the system (form, other).
	ErrManualMethod = errors.New("application is submitted manually; confirm it instead")
)

// DuplicateError refuses a submission and carries the application that
// already covers the festival's cycle.
type DuplicateError struct {
	FestivalID string
	CycleYear  int
	ExistingID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("festival %s already has application %s for cycle %d", e.FestivalID, e.ExistingID, e.CycleYear)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicateApplication
}
