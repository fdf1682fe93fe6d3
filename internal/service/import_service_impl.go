package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/circusagent/internal/db"
	"github.com/alexanderramin/circusagent/internal/importer"
	"github.com/alexanderramin/circusagent/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, logger *slog.Logger, observers ...UseCaseObserver) ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &importService{uow: uow, logger: logger, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportFestivals(ctx context.Context, filePath string) (*ImportResult, error) {
	file, err := importer.LoadFestivalCSV(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportFestivalsFromFile(ctx, file)
}

// ImportFestivalsFromFile inserts every valid row, and the APPLIED
// applications it records, in one transaction. A store error rolls the whole
// file back.
func (s *importService) ImportFestivalsFromFile(ctx context.Context, file *importer.ImportFile) (result *ImportResult, err error) {
	fields := map[string]any{"rows": len(file.Rows)}
	done := track(ctx, s.observer, "import-festivals", fields)
	defer func() { done(err) }()

	conv := importer.Convert(file, time.Now().UTC())
	for _, w := range conv.Warnings {
		s.logger.Warn("import cell dropped", "line", w.Line, "column", w.Column, "reason", w.Reason)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txFestivals := repository.NewSQLiteFestivalRepo(tx)
		txApps := repository.NewSQLiteApplicationRepo(tx)
		for _, f := range conv.Festivals {
			if err := txFestivals.Create(ctx, f); err != nil {
				return fmt.Errorf("creating festival %q: %w", f.Name, err)
			}
		}
		for _, a := range conv.Applications {
			if err := txApps.Create(ctx, a); err != nil {
				return fmt.Errorf("recording %d application: %w", a.CycleYear, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["imported"] = len(conv.Festivals)
	fields["skipped"] = len(conv.Skipped)
	fields["applications"] = len(conv.Applications)
	return &ImportResult{
		Imported:     len(conv.Festivals),
		Applications: len(conv.Applications),
		Festivals:    conv.Festivals,
		Skipped:      conv.Skipped,
		Warnings:     conv.Warnings,
	}, nil
}
