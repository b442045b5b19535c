package service

import (
	"context"
	"errors"
	"time"

	bookingrepo "carpark/internal/bookings/repository"
	catalogerrors "carpark/internal/catalog/errors"
	"carpark/internal/catalog/repository"
	"carpark/pkg/config"
	apperrors "carpark/pkg/errors"
	"carpark/pkg/model"
)

type SpotService interface {
	List(ctx context.Context) ([]*model.ParkingSpot, error)
	Get(ctx context.Context, id string) (*model.ParkingSpot, error)
	Seed(ctx context.Context) error
}

type spotService struct {
	repo   repository.SpotRepository
	ledger bookingrepo.BookingLedger
	cfg    *config.Config
}

func NewSpotService(repo repository.SpotRepository, ledger bookingrepo.BookingLedger, cfg *config.Config) SpotService {
	return &spotService{
		repo:   repo,
		ledger: ledger,
		cfg:    cfg,
	}
}

// List returns the catalog with SoldOut derived from the current active
// booking set. Derivation is per request; nothing is written back.
func (s *spotService) List(ctx context.Context) ([]*model.ParkingSpot, error) {
	spots, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Storage("Failed to list parking spots", err)
	}

	active, err := s.ledger.ListActive(ctx, time.Now())
	if err != nil {
		return nil, apperrors.Storage("Failed to load active bookings", err)
	}

	occupied := make(map[string]int)
	for _, b := range active {
		occupied[b.SpotID] += len(b.SelectedSlots)
	}

	for _, spot := range spots {
		spot.SoldOut = occupied[spot.ID] >= spot.Capacity
	}
	return spots, nil
}

func (s *spotService) Get(ctx context.Context, id string) (*model.ParkingSpot, error) {
	spot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrSpotNotFound) {
			return nil, apperrors.NotFoundWithID("parking spot", id)
		}
		return nil, apperrors.Storage("Failed to load parking spot", err)
	}

	active, err := s.ledger.ListActiveForSpot(ctx, id, time.Now())
	if err != nil {
		return nil, apperrors.Storage("Failed to load active bookings", err)
	}

	occupied := 0
	for _, b := range active {
		occupied += len(b.SelectedSlots)
	}
	spot.SoldOut = occupied >= spot.Capacity

	return spot, nil
}

// Seed loads the default catalog on first start. A non-empty collection
// is left untouched.
func (s *spotService) Seed(ctx context.Context) error {
	inserted, err := s.repo.SeedIfEmpty(ctx, DefaultSpots())
	if err != nil {
		return err
	}
	if inserted > 0 {
		s.cfg.Log.Info("Seeded parking spot catalog", "spots", inserted)
	}
	return nil
}
