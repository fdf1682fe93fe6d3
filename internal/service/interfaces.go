package service

import (
	"context"

	"github.com/alexanderramin/circusagent/internal/domain"
	"github.com/alexanderramin/circusagent/internal/enrichment"
	"github.com/alexanderramin/circusagent/internal/importer"
	"github.com/alexanderramin/circusagent/internal/outreach"
	"github.com/alexanderramin/circusagent/internal/repository"
)

type FestivalService interface {
	Create(ctx context.Context, f *domain.Festival) error
	GetByID(ctx context.Context, id string) (*domain.Festival, error)
	// Resolve accepts a full ID or a unique ID prefix.
	Resolve(ctx context.Context, input string) (*domain.Festival, error)
	List(ctx context.Context, filter repository.FestivalFilter) ([]*domain.Festival, error)
	Update(ctx context.Context, f *domain.Festival) error
	Delete(ctx context.Context, id string) error
}

type EnrichService interface {
	Enrich(ctx context.Context, festivalID string) (*enrichment.Result, error)
	EnrichAll(ctx context.Context, req BatchRequest) (*BatchReport, error)
}

type ImportService interface {
	ImportFestivals(ctx context.Context, filePath string) (*ImportResult, error)
	ImportFestivalsFromFile(ctx context.Context, file *importer.ImportFile) (*ImportResult, error)
}

type ApplicationService interface {
	Draft(ctx context.Context, festivalID string) (*outreach.Draft, error)
	Submit(ctx context.Context, req outreach.SubmitRequest) (*domain.Application, error)
	Dispatch(ctx context.Context, appID string) (*domain.Application, error)
	Confirm(ctx context.Context, appID string) (*domain.Application, error)
	UpdateStatus(ctx context.Context, appID string, upd outreach.StatusUpdate) (*domain.Application, error)
	Resolve(ctx context.Context, input string) (*domain.Application, error)
	List(ctx context.Context, filter repository.ApplicationFilter) ([]*domain.Application, error)
}

// BatchRequest selects festivals for EnrichAll.
type BatchRequest struct {
	Filter      repository.FestivalFilter
	Concurrency int
}

// BatchReport tallies EnrichAll outcomes.
type BatchReport struct {
	Total    int
	Outcomes map[enrichment.Outcome]int
	Saved    int
}

// ImportResult summarizes a CSV import.
type ImportResult struct {
	Imported     int
	Applications int // past applications from APPLIED columns
	Festivals    []*domain.Festival
	Skipped      []importer.RowIssue
	Warnings     []importer.RowIssue
}
