package repository

import (
	"context"

	"github.com/alexanderramin/circusagent/internal/domain"
)

// FestivalFilter narrows List. Zero values match everything.
type FestivalFilter struct {
	Type    domain.FestivalType
	Country string
	// MissingOnly keeps festivals lacking dates or an application type.
	MissingOnly bool
}

type FestivalRepo interface {
	Create(ctx context.Context, f *domain.Festival) error
	GetByID(ctx context.Context, id string) (*domain.Festival, error)
	FindByIDPrefix(ctx context.Context, prefix string) ([]*domain.Festival, error)
	List(ctx context.Context, filter FestivalFilter) ([]*domain.Festival, error)
	Update(ctx context.Context, f *domain.Festival) error
	Delete(ctx context.Context, id string) error
}

// ApplicationFilter narrows List. Zero values match everything.
type ApplicationFilter struct {
	FestivalID string
	CycleYear  int
	Status     domain.ApplicationStatus
}

type ApplicationRepo interface {
	Create(ctx context.Context, a *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	FindByIDPrefix(ctx context.Context, prefix string) ([]*domain.Application, error)
	// ListByFestivalCycle answers "applications for festival X in cycle year Y".
	ListByFestivalCycle(ctx context.Context, festivalID string, cycleYear int) ([]*domain.Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]*domain.Application, error)
	Update(ctx context.Context, a *domain.Application) error
	// SetCycleYear restamps a stored cycle after the cutoff month changed.
	SetCycleYear(ctx context.Context, id string, cycleYear int) error
}
