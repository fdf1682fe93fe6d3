// Package outreach keeps the application ledger: one application per festival
// and cycle, dispatched by email or confirmed by hand, then tracked through
// its status graph.
package outreach

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alexanderramin/circusagent/internal/db"
	"github.com/alexanderramin/circusagent/internal/domain"
	"github.com/alexanderramin/circusagent/internal/keylock"
	"github.com/alexanderramin/circusagent/internal/mail"
	"github.com/alexanderramin/circusagent/internal/repository"
	"github.com/google/uuid"
)

// SubmitRequest describes a new application. A zero Date means now; an empty
// Method is derived from the festival's application type.
type SubmitRequest struct {
	FestivalID  string
	Subject     string
	Body        string
	Attachments []string
	Date        time.Time
	Method      domain.Method
}

// StatusUpdate is a manual status edit.
type StatusUpdate struct {
	Status     domain.ApplicationStatus
	AnswerDate *time.Time
	Comment    string
}

type LedgerOption func(*Ledger)

func WithCyclePolicy(p domain.CyclePolicy) LedgerOption {
	return func(l *Ledger) { l.policy = p }
}

func WithMailer(m mail.Mailer) LedgerOption {
	return func(l *Ledger) { l.mailer = m }
}

func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) { l.now = now }
}

func WithLogger(logger *slog.Logger) LedgerOption {
	return func(l *Ledger) { l.logger = logger }
}

// Ledger creates, dispatches and tracks applications.
type Ledger struct {
	uow          db.UnitOfWork
	festivals    repository.FestivalRepo
	applications repository.ApplicationRepo
	policy       domain.CyclePolicy
	mailer       mail.Mailer
	locks        *keylock.Locker
	now          func() time.Time
	logger       *slog.Logger
}

func NewLedger(uow db.UnitOfWork, festivals repository.FestivalRepo, applications repository.ApplicationRepo, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		uow:          uow,
		festivals:    festivals,
		applications: applications,
		policy:       domain.DefaultCyclePolicy(),
		mailer:       mail.Disabled{},
		locks:        keylock.New(),
		now:          func() time.Time { return time.Now().UTC() },
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CycleYear reports the cycle a submission made at t belongs to.
func (l *Ledger) CycleYear(t time.Time) int {
	return l.policy.CycleYear(t)
}

// Submit creates a DRAFT application unless the festival already has one in
// the same cycle, in which case it returns a *DuplicateError naming it.
// Existing applications are matched by the cycle their application date falls
// in under the current policy, not by the cycle stored when they were written.
// The check and the insert share one write-locked transaction.
func (l *Ledger) Submit(ctx context.Context, req SubmitRequest) (*domain.Application, error) {
	if req.FestivalID == "" {
		return nil, fmt.Errorf("festival id is required")
	}
	for _, path := range req.Attachments {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("attachment %s: %w", path, err)
		}
	}

	now := l.now()
	date := req.Date
	if date.IsZero() {
		date = now
	}
	// Stored dates are UTC; the cycle must match what restamp computes later.
	date = date.UTC()
	cycle := l.policy.CycleYear(date)

	unlock := l.locks.Lock("festival:" + req.FestivalID)
	defer unlock()

	app := &domain.Application{
		ID:              uuid.New().String(),
		FestivalID:      req.FestivalID,
		CycleYear:       cycle,
		ApplicationDate: date,
		Status:          domain.StatusDraft,
		Subject:         strings.TrimSpace(req.Subject),
		Body:            strings.TrimSpace(req.Body),
		AttachmentsSent: req.Attachments,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := l.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txFestivals := repository.NewSQLiteFestivalRepo(tx)
		txApps := repository.NewSQLiteApplicationRepo(tx)

		f, err := txFestivals.GetByID(ctx, req.FestivalID)
		if err != nil {
			return err
		}
		app.Method = req.Method
		if app.Method == "" {
			app.Method = methodFor(f)
		}

		existing, _, err := l.restamp(ctx, txApps, repository.ApplicationFilter{FestivalID: req.FestivalID})
		if err != nil {
			return err
		}
		for _, a := range existing {
			if a.CycleYear == cycle {
				return &DuplicateError{FestivalID: req.FestivalID, CycleYear: cycle, ExistingID: a.ID}
			}
		}
		return txApps.Create(ctx, app)
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("application drafted",
		"application_id", app.ID, "festival_id", app.FestivalID, "cycle_year", cycle, "method", string(app.Method))
	return app, nil
}

// RestampCycles rewrites stored cycle years that no longer match the current
// policy, after the cutoff month changed. It returns the number of rows
// rewritten.
func (l *Ledger) RestampCycles(ctx context.Context) (int, error) {
	var n int
	err := l.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		_, n, err = l.restamp(ctx, repository.NewSQLiteApplicationRepo(tx), repository.ApplicationFilter{})
		return err
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		l.logger.Info("application cycles restamped", "count", n, "cutoff_month", l.policy.CutoffMonth.String())
	}
	return n, nil
}

// restamp lists the applications matching filter and rewrites any stored
// cycle year that differs from the policy's answer for its date. The returned
// records carry the current cycle.
func (l *Ledger) restamp(ctx context.Context, apps repository.ApplicationRepo, filter repository.ApplicationFilter) ([]*domain.Application, int, error) {
	list, err := apps.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	var changed int
	for _, a := range list {
		cycle := l.policy.CycleYear(a.ApplicationDate)
		if cycle == a.CycleYear {
			continue
		}
		if err := apps.SetCycleYear(ctx, a.ID, cycle); err != nil {
			return nil, 0, err
		}
		a.CycleYear = cycle
		changed++
	}
	return list, changed, nil
}

func methodFor(f *domain.Festival) domain.Method {
	if m := domain.MethodFor(f.ApplicationType); m != domain.MethodUnknown {
		return m
	}
	if !domain.IsBlank(f.ContactEmail) {
		return domain.MethodEmail
	}
	return domain.MethodUnknown
}

// Dispatch mails a DRAFT application to the festival's contact address.
// Success moves it to APPLIED. A mailer failure leaves it in DRAFT with
// LastError set and returns an error wrapping ErrDispatchFailed.
func (l *Ledger) Dispatch(ctx context.Context, appID string) (*domain.Application, error) {
	unlock := l.locks.Lock("application:" + appID)
	defer unlock()

	app, err := l.applications.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.StatusDraft {
		return nil, fmt.Errorf("%w: %s application cannot be dispatched", domain.ErrInvalidTransition, app.Status)
	}
	if app.Method != domain.MethodEmail && app.Method != domain.MethodUnknown {
		return nil, fmt.Errorf("%w (method %s)", ErrManualMethod, app.Method)
	}
	f, err := l.festivals.GetByID(ctx, app.FestivalID)
	if err != nil {
		return nil, err
	}
	to := domain.CleanText(f.ContactEmail)
	if to == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoRecipient, f.Name)
	}

	msg := mail.Message{
		To:          []string{to},
		Subject:     app.Subject,
		TextBody:    app.Body,
		Attachments: app.AttachmentsSent,
	}
	if sendErr := l.mailer.Send(ctx, msg); sendErr != nil {
		app.RecordDispatchFailure(sendErr.Error(), l.now())
		if err := l.save(ctx, app); err != nil {
			return nil, fmt.Errorf("recording dispatch failure: %w (send error: %v)", err, sendErr)
		}
		l.logger.Warn("application dispatch failed",
			"application_id", app.ID, "festival_id", app.FestivalID, "error", sendErr)
		return app, fmt.Errorf("%w: %w", ErrDispatchFailed, sendErr)
	}

	if err := app.MarkApplied(l.now()); err != nil {
		return nil, err
	}
	if err := l.save(ctx, app); err != nil {
		return nil, fmt.Errorf("mail sent but status not saved: %w", err)
	}
	l.logger.Info("application dispatched", "application_id", app.ID, "to", to)
	return app, nil
}

// Confirm records that an application was submitted outside the system,
// taking the same DRAFT -> APPLIED edge as a successful dispatch.
func (l *Ledger) Confirm(ctx context.Context, appID string) (*domain.Application, error) {
	unlock := l.locks.Lock("application:" + appID)
	defer unlock()

	var out *domain.Application
	err := l.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txApps := repository.NewSQLiteApplicationRepo(tx)
		app, err := txApps.GetByID(ctx, appID)
		if err != nil {
			return err
		}
		if app.Method == domain.MethodEmail {
			return fmt.Errorf("email applications are applied by sending them")
		}
		if err := app.MarkApplied(l.now()); err != nil {
			return err
		}
		out = app
		return txApps.Update(ctx, app)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus applies a manual transition checked against the status graph.
func (l *Ledger) UpdateStatus(ctx context.Context, appID string, upd StatusUpdate) (*domain.Application, error) {
	unlock := l.locks.Lock("application:" + appID)
	defer unlock()

	var out *domain.Application
	err := l.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txApps := repository.NewSQLiteApplicationRepo(tx)
		app, err := txApps.GetByID(ctx, appID)
		if err != nil {
			return err
		}
		if err := app.SetStatus(upd.Status, l.now()); err != nil {
			return err
		}
		if upd.AnswerDate != nil {
			d := upd.AnswerDate.UTC()
			app.AnswerDate = &d
			app.AnswerReceived = true
		}
		if c := strings.TrimSpace(upd.Comment); c != "" {
			if app.Comments != "" {
				app.Comments += "\n"
			}
			app.Comments += c
		}
		out = app
		return txApps.Update(ctx, app)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Ledger) Get(ctx context.Context, appID string) (*domain.Application, error) {
	return l.applications.GetByID(ctx, appID)
}

func (l *Ledger) List(ctx context.Context, filter repository.ApplicationFilter) ([]*domain.Application, error) {
	return l.applications.List(ctx, filter)
}

func (l *Ledger) save(ctx context.Context, app *domain.Application) error {
	return l.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteApplicationRepo(tx).Update(ctx, app)
	})
}
