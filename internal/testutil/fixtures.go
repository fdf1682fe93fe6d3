package testutil

import (
	"time"

	"github.com/alexanderramin/circusagent/internal/domain"
	"github.com/google/uuid"
)

// FixedNow is the reference instant used by fixtures.
var FixedNow = time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

// Festival options
type FestivalOption func(*domain.Festival)

func WithCountry(c string) FestivalOption {
	return func(f *domain.Festival) { f.Country = c }
}

func WithTown(town string) FestivalOption {
	return func(f *domain.Festival) { f.Town = town }
}

func WithContactEmail(email string) FestivalOption {
	return func(f *domain.Festival) { f.ContactEmail = email }
}

func WithContactPerson(name string) FestivalOption {
	return func(f *domain.Festival) { f.ContactPerson = name }
}

func WithFestivalType(t domain.FestivalType) FestivalOption {
	return func(f *domain.Festival) { f.FestivalType = t }
}

func WithApplicationType(t domain.ApplicationType) FestivalOption {
	return func(f *domain.Festival) { f.ApplicationType = t }
}

func WithDates(start, end string) FestivalOption {
	return func(f *domain.Festival) {
		f.StartDate = start
		f.EndDate = end
	}
}

func WithWebsite(url string) FestivalOption {
	return func(f *domain.Festival) { f.WebsiteURL = url }
}

func NewTestFestival(name string, opts ...FestivalOption) *domain.Festival {
	f := &domain.Festival{
		ID:              uuid.New().String(),
		Name:            name,
		FestivalType:    domain.FestivalStreet,
		ApplicationType: domain.ApplicationUnknown,
		CreatedAt:       FixedNow,
		UpdatedAt:       FixedNow,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Application options
type ApplicationOption func(*domain.Application)

func WithApplicationDate(d time.Time) ApplicationOption {
	return func(a *domain.Application) {
		a.ApplicationDate = d
		a.CycleYear = domain.DefaultCyclePolicy().CycleYear(d)
	}
}

func WithStatus(s domain.ApplicationStatus) ApplicationOption {
	return func(a *domain.Application) { a.Status = s }
}

func WithMethod(m domain.Method) ApplicationOption {
	return func(a *domain.Application) { a.Method = m }
}

func WithAttachments(paths ...string) ApplicationOption {
	return func(a *domain.Application) { a.AttachmentsSent = paths }
}

func NewTestApplication(festivalID string, opts ...ApplicationOption) *domain.Application {
	a := &domain.Application{
		ID:              uuid.New().String(),
		FestivalID:      festivalID,
		ApplicationDate: FixedNow,
		CycleYear:       domain.DefaultCyclePolicy().CycleYear(FixedNow),
		Method:          domain.MethodEmail,
		Status:          domain.StatusDraft,
		Subject:         "Street show proposal",
		Body:            "Hello, we would love to perform at your festival.",
		CreatedAt:       FixedNow,
		UpdatedAt:       FixedNow,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
