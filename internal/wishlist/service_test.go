package wishlist

import (
	"context"
	"fmt"
	"testing"

	catalogerrors "carpark/internal/catalog/errors"
	apperrors "carpark/pkg/errors"
	"carpark/pkg/kv"
	"carpark/pkg/logger"
	"carpark/pkg/model"
)

type stubSpotRepository struct {
	known map[string]*model.ParkingSpot
}

func (s *stubSpotRepository) FindByID(ctx context.Context, id string) (*model.ParkingSpot, error) {
	if spot, ok := s.known[id]; ok {
		return spot, nil
	}
	return nil, fmt.Errorf("%w: %s", catalogerrors.ErrSpotNotFound, id)
}

func (s *stubSpotRepository) FindAll(ctx context.Context) ([]*model.ParkingSpot, error) {
	return nil, nil
}

func (s *stubSpotRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(s.known)), nil
}

func (s *stubSpotRepository) SeedIfEmpty(ctx context.Context, spots []model.ParkingSpot) (int, error) {
	return 0, nil
}

func newTestWishlist() (Service, *stubSpotRepository) {
	log := logger.New(logger.Config{Level: "error", Service: "test"})
	repo := &stubSpotRepository{
		known: map[string]*model.ParkingSpot{
			"spot-1": {ID: "spot-1", Name: "City Center Parking"},
			"spot-2": {ID: "spot-2", Name: "Station West Lot"},
		},
	}
	return NewService(kv.NewMemoryStore(), repo, log), repo
}

func TestWishlist_AddListRemove(t *testing.T) {
	svc, _ := newTestWishlist()
	ctx := context.Background()

	if err := svc.Add(ctx, "spot-1"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	// Adding twice is a no-op.
	if err := svc.Add(ctx, "spot-1"); err != nil {
		t.Fatalf("repeat Add failed: %v", err)
	}
	if err := svc.Add(ctx, "spot-2"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	spots, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(spots) != 2 {
		t.Fatalf("expected 2 wishlisted spots, got %d", len(spots))
	}

	if err := svc.Remove(ctx, "spot-1"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	spots, err = svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(spots) != 1 || spots[0].ID != "spot-2" {
		t.Fatalf("expected only spot-2, got %+v", spots)
	}
}

func TestWishlist_AddUnknownSpot(t *testing.T) {
	svc, _ := newTestWishlist()

	err := svc.Add(context.Background(), "nope")
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestWishlist_RemoveMissingEntry(t *testing.T) {
	svc, _ := newTestWishlist()

	err := svc.Remove(context.Background(), "spot-1")
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestWishlist_SkipsDanglingEntries(t *testing.T) {
	svc, repo := newTestWishlist()
	ctx := context.Background()

	if err := svc.Add(ctx, "spot-1"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	delete(repo.known, "spot-1")

	spots, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(spots) != 0 {
		t.Fatalf("expected dangling entry skipped, got %+v", spots)
	}
}
