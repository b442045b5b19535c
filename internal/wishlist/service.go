package wishlist

import (
	"context"
	"errors"
	"fmt"

	catalogerrors "carpark/internal/catalog/errors"
	catalogrepo "carpark/internal/catalog/repository"
	apperrors "carpark/pkg/errors"
	"carpark/pkg/kv"
	"carpark/pkg/logger"
	"carpark/pkg/model"
)

const wishlistKey = "WishlistedParking"

// Service manages the set of wishlisted parking spots. Only spot IDs
// are persisted; spot details are resolved from the catalog on read so
// the wishlist never serves stale prices.
type Service interface {
	List(ctx context.Context) ([]*model.ParkingSpot, error)
	Add(ctx context.Context, spotID string) error
	Remove(ctx context.Context, spotID string) error
}

type service struct {
	store kv.Store
	spots catalogrepo.SpotRepository
	log   *logger.Logger
}

func NewService(store kv.Store, spots catalogrepo.SpotRepository, log *logger.Logger) Service {
	return &service{store: store, spots: spots, log: log}
}

func (s *service) load(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.store.Get(ctx, wishlistKey, &ids); err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load wishlist: %w", err)
	}
	return ids, nil
}

func (s *service) List(ctx context.Context) ([]*model.ParkingSpot, error) {
	ids, err := s.load(ctx)
	if err != nil {
		return nil, apperrors.Storage("Failed to load wishlist", err)
	}

	spots := make([]*model.ParkingSpot, 0, len(ids))
	for _, id := range ids {
		spot, err := s.spots.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, catalogerrors.ErrSpotNotFound) {
				// Spot was removed from the catalog; skip the dangling entry.
				s.log.Warn("Wishlisted spot no longer in catalog", "spot_id", id)
				continue
			}
			return nil, apperrors.Storage("Failed to resolve wishlisted spot", err)
		}
		spots = append(spots, spot)
	}
	return spots, nil
}

func (s *service) Add(ctx context.Context, spotID string) error {
	if _, err := s.spots.FindByID(ctx, spotID); err != nil {
		if errors.Is(err, catalogerrors.ErrSpotNotFound) {
			return apperrors.NotFoundWithID("parking spot", spotID)
		}
		return apperrors.Storage("Failed to load parking spot", err)
	}

	ids, err := s.load(ctx)
	if err != nil {
		return apperrors.Storage("Failed to load wishlist", err)
	}

	for _, id := range ids {
		if id == spotID {
			return nil
		}
	}

	ids = append(ids, spotID)
	if err := s.store.Set(ctx, wishlistKey, ids); err != nil {
		return apperrors.Storage("Failed to save wishlist", err)
	}
	return nil
}

func (s *service) Remove(ctx context.Context, spotID string) error {
	ids, err := s.load(ctx)
	if err != nil {
		return apperrors.Storage("Failed to load wishlist", err)
	}

	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != spotID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(ids) {
		return apperrors.NotFoundWithID("wishlist entry", spotID)
	}

	if err := s.store.Set(ctx, wishlistKey, kept); err != nil {
		return apperrors.Storage("Failed to save wishlist", err)
	}
	return nil
}
