package domain

import (
	"fmt"
	"time"
)

// DefaultCutoffMonth is the month from which outreach counts toward the next
// year's season.
const DefaultCutoffMonth = time.September

// CyclePolicy assigns applications to an outreach season.
type CyclePolicy struct {
	CutoffMonth time.Month
}

// DefaultCyclePolicy returns the September-rollover policy.
func DefaultCyclePolicy() CyclePolicy {
	return CyclePolicy{CutoffMonth: DefaultCutoffMonth}
}

// Validate rejects cutoff months outside January..December.
func (p CyclePolicy) Validate() error {
	if p.CutoffMonth < time.January || p.CutoffMonth > time.December {
		return fmt.Errorf("cycle cutoff month must be 1-12, got %d", p.CutoffMonth)
	}
	return nil
}

// CycleYear returns the season t belongs to: its calendar year, plus one from
// the cutoff month onward. A January cutoff therefore shifts every date.
func (p CyclePolicy) CycleYear(t time.Time) int {
	if t.Month() >= p.CutoffMonth {
		return t.Year() + 1
	}
	return t.Year()
}

// CycleAnchor returns December 1 of the year before cycle. The date falls in
// cycle under every cutoff month, so records dated with it keep their cycle
// when the cutoff changes.
func CycleAnchor(cycle int) time.Time {
	return time.Date(cycle-1, time.December, 1, 0, 0, 0, 0, time.UTC)
}
