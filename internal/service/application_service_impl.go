package service

import (
	"context"

	"github.com/alexanderramin/circusagent/internal/domain"
	"github.com/alexanderramin/circusagent/internal/outreach"
	"github.com/alexanderramin/circusagent/internal/repository"
)

type applicationService struct {
	ledger       *outreach.Ledger
	composer     *outreach.Composer
	festivals    repository.FestivalRepo
	applications repository.ApplicationRepo
	observer     UseCaseObserver
}

func NewApplicationService(
	ledger *outreach.Ledger,
	composer *outreach.Composer,
	festivals repository.FestivalRepo,
	applications repository.ApplicationRepo,
	observers ...UseCaseObserver,
) ApplicationService {
	return &applicationService{
		ledger:       ledger,
		composer:     composer,
		festivals:    festivals,
		applications: applications,
		observer:     useCaseObserverOrNoop(observers),
	}
}

func (s *applicationService) Draft(ctx context.Context, festivalID string) (*outreach.Draft, error) {
	f, err := s.festivals.GetByID(ctx, festivalID)
	if err != nil {
		return nil, err
	}
	d := s.composer.Compose(ctx, f)
	return &d, nil
}

func (s *applicationService) Submit(ctx context.Context, req outreach.SubmitRequest) (app *domain.Application, err error) {
	fields := map[string]any{"festival_id": req.FestivalID}
	done := track(ctx, s.observer, "submit-application", fields)
	defer func() { done(err) }()

	app, err = s.ledger.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	fields["application_id"] = app.ID
	fields["cycle_year"] = app.CycleYear
	return app, nil
}

func (s *applicationService) Dispatch(ctx context.Context, appID string) (app *domain.Application, err error) {
	done := track(ctx, s.observer, "dispatch-application", map[string]any{"application_id": appID})
	defer func() { done(err) }()
	return s.ledger.Dispatch(ctx, appID)
}

func (s *applicationService) Confirm(ctx context.Context, appID string) (*domain.Application, error) {
	return s.ledger.Confirm(ctx, appID)
}

func (s *applicationService) UpdateStatus(ctx context.Context, appID string, upd outreach.StatusUpdate) (*domain.Application, error) {
	return s.ledger.UpdateStatus(ctx, appID, upd)
}

func (s *applicationService) Resolve(ctx context.Context, input string) (*domain.Application, error) {
	return resolveByPrefix(ctx, "application", input, s.applications.GetByID, s.applications.FindByIDPrefix,
		func(a *domain.Application) string { return a.ID })
}

func (s *applicationService) List(ctx context.Context, filter repository.ApplicationFilter) ([]*domain.Application, error) {
	return s.ledger.List(ctx, filter)
}
