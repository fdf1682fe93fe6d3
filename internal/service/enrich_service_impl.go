package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/circusagent/internal/db"
	"github.com/alexanderramin/circusagent/internal/domain"
	"github.com/alexanderramin/circusagent/internal/enrichment"
	"github.com/alexanderramin/circusagent/internal/keylock"
	"github.com/alexanderramin/circusagent/internal/repository"
)

type enrichService struct {
	festivals repository.FestivalRepo
	uow       db.UnitOfWork
	pipeline  *enrichment.Pipeline
	locks     *keylock.Locker
	logger    *slog.Logger
	observer  UseCaseObserver
}

func NewEnrichService(
	festivals repository.FestivalRepo,
	uow db.UnitOfWork,
	pipeline *enrichment.Pipeline,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) EnrichService {
	if logger == nil {
		logger = slog.Default()
	}
	return &enrichService{
		festivals: festivals,
		uow:       uow,
		pipeline:  pipeline,
		locks:     keylock.New(),
		logger:    logger,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Enrich runs the pipeline on one festival and saves the record when the run
// changed it. Gateway problems are reported in the result, not as an error.
func (s *enrichService) Enrich(ctx context.Context, festivalID string) (res *enrichment.Result, err error) {
	fields := map[string]any{"festival_id": festivalID}
	done := track(ctx, s.observer, "enrich-festival", fields)
	defer func() { done(err) }()

	unlock := s.locks.Lock(festivalID)
	defer unlock()

	f, err := s.festivals.GetByID(ctx, festivalID)
	if err != nil {
		return nil, err
	}
	r := s.pipeline.Run(ctx, f)
	fields["outcome"] = string(r.Outcome)
	fields["applied"] = len(r.Applied)
	if _, err := s.persist(ctx, r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *enrichService) EnrichAll(ctx context.Context, req BatchRequest) (report *BatchReport, err error) {
	fields := map[string]any{"missing_only": req.Filter.MissingOnly, "concurrency": req.Concurrency}
	done := track(ctx, s.observer, "enrich-batch", fields)
	defer func() { done(err) }()

	festivals, err := s.festivals.List(ctx, req.Filter)
	if err != nil {
		return nil, fmt.Errorf("listing festivals: %w", err)
	}

	report = &BatchReport{Total: len(festivals), Outcomes: map[enrichment.Outcome]int{}}
	var mu sync.Mutex
	err = s.pipeline.RunBatch(ctx, festivals, req.Concurrency, s.locks,
		func(ctx context.Context, _ *domain.Festival, r enrichment.Result) error {
			saved, err := s.persist(ctx, r)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			report.Outcomes[r.Outcome]++
			if saved {
				report.Saved++
			}
			return nil
		})
	fields["total"] = report.Total
	fields["saved"] = report.Saved
	if err != nil {
		return report, err
	}
	return report, nil
}

// persist saves a changed record and reports whether it did.
func (s *enrichService) persist(ctx context.Context, r enrichment.Result) (bool, error) {
	if !r.Changed {
		return false, nil
	}
	f := r.Festival
	if err := f.Validate(); err != nil {
		s.logger.Warn("enriched record failed validation, not saved", "festival_id", f.ID, "error", err)
		return false, nil
	}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		f.UpdatedAt = time.Now().UTC()
		if err := repository.NewSQLiteFestivalRepo(tx).Update(ctx, f); err != nil {
			return fmt.Errorf("saving festival %s: %w", f.ID, err)
		}
		return nil
	})
	return err == nil, err
}
