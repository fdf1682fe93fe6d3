package service

import (
	"context"
	"time"

	"github.com/alexanderramin/circusagent/internal/domain"
	"github.com/alexanderramin/circusagent/internal/enrichment"
	"github.com/alexanderramin/circusagent/internal/repository"
	"github.com/google/uuid"
)

type festivalService struct {
	festivals  repository.FestivalRepo
	normalizer enrichment.Normalizer
	now        func() time.Time
}

func NewFestivalService(festivals repository.FestivalRepo) FestivalService {
	return &festivalService{
		festivals: festivals,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *festivalService) Create(ctx context.Context, f *domain.Festival) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.FestivalType == "" {
		f.FestivalType = domain.FestivalStreet
	}
	if f.ApplicationType == "" {
		f.ApplicationType = domain.ApplicationUnknown
	}
	s.normalizer.Normalize(f)
	if err := f.Validate(); err != nil {
		return err
	}
	now := s.now()
	f.CreatedAt = now
	f.UpdatedAt = now
	return s.festivals.Create(ctx, f)
}

func (s *festivalService) GetByID(ctx context.Context, id string) (*domain.Festival, error) {
	return s.festivals.GetByID(ctx, id)
}

func (s *festivalService) Resolve(ctx context.Context, input string) (*domain.Festival, error) {
	return resolveByPrefix(ctx, "festival", input, s.festivals.GetByID, s.festivals.FindByIDPrefix,
		func(f *domain.Festival) string { return f.ID })
}

func (s *festivalService) List(ctx context.Context, filter repository.FestivalFilter) ([]*domain.Festival, error) {
	return s.festivals.List(ctx, filter)
}

// Update normalizes and validates f before saving. Reversed dates are
// refused with domain.ErrDateOrder.
func (s *festivalService) Update(ctx context.Context, f *domain.Festival) error {
	s.normalizer.Normalize(f)
	if err := f.Validate(); err != nil {
		return err
	}
	f.UpdatedAt = s.now()
	return s.festivals.Update(ctx, f)
}

// Delete removes the festival and, through the foreign key, its applications.
func (s *festivalService) Delete(ctx context.Context, id string) error {
	return s.festivals.Delete(ctx, id)
}
