package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingerrors "carpark/internal/bookings/errors"
	"carpark/pkg/kv"
	"carpark/pkg/logger"
	"carpark/pkg/model"
)

const (
	bookingsKey = "bookings"
	latestKey   = "latestBooking"
)

// BookingLedger is the persistence boundary for the booking history.
// Reads never mutate stored state; compaction happens only through
// PruneExpired.
type BookingLedger interface {
	Append(ctx context.Context, booking model.Booking) error
	All(ctx context.Context) ([]model.Booking, error)
	ListActive(ctx context.Context, now time.Time) ([]model.Booking, error)
	ListActiveForSpot(ctx context.Context, spotID string, now time.Time) ([]model.Booking, error)
	PruneExpired(ctx context.Context, now time.Time) (int, error)
	SetLatest(ctx context.Context, booking model.Booking) error
	Latest(ctx context.Context) (*model.Booking, error)
}

type kvBookingLedger struct {
	store kv.Store
	log   *logger.Logger
}

func NewBookingLedger(store kv.Store, log *logger.Logger) BookingLedger {
	return &kvBookingLedger{store: store, log: log}
}

func (r *kvBookingLedger) load(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := r.store.Get(ctx, bookingsKey, &bookings); err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	return bookings, nil
}

// Append prepends the booking so the collection stays most-recent-first.
func (r *kvBookingLedger) Append(ctx context.Context, booking model.Booking) error {
	bookings, err := r.load(ctx)
	if err != nil {
		return err
	}

	bookings = append([]model.Booking{booking}, bookings...)
	if err := r.store.Set(ctx, bookingsKey, bookings); err != nil {
		return fmt.Errorf("persist bookings: %w", err)
	}
	return nil
}

func (r *kvBookingLedger) All(ctx context.Context) ([]model.Booking, error) {
	return r.load(ctx)
}

func (r *kvBookingLedger) ListActive(ctx context.Context, now time.Time) ([]model.Booking, error) {
	bookings, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Active(now) {
			active = append(active, b)
		}
	}
	return active, nil
}

func (r *kvBookingLedger) ListActiveForSpot(ctx context.Context, spotID string, now time.Time) ([]model.Booking, error) {
	active, err := r.ListActive(ctx, now)
	if err != nil {
		return nil, err
	}

	matched := make([]model.Booking, 0, len(active))
	for _, b := range active {
		if b.SpotID == spotID {
			matched = append(matched, b)
		}
	}
	return matched, nil
}

// PruneExpired rewrites the collection keeping only active bookings and
// returns how many entries were dropped.
func (r *kvBookingLedger) PruneExpired(ctx context.Context, now time.Time) (int, error) {
	bookings, err := r.load(ctx)
	if err != nil {
		return 0, err
	}

	kept := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Active(now) {
			kept = append(kept, b)
		}
	}

	dropped := len(bookings) - len(kept)
	if dropped == 0 {
		return 0, nil
	}

	if err := r.store.Set(ctx, bookingsKey, kept); err != nil {
		return 0, fmt.Errorf("persist pruned bookings: %w", err)
	}
	return dropped, nil
}

func (r *kvBookingLedger) SetLatest(ctx context.Context, booking model.Booking) error {
	if err := r.store.Set(ctx, latestKey, booking); err != nil {
		return fmt.Errorf("persist latest booking: %w", err)
	}
	return nil
}

func (r *kvBookingLedger) Latest(ctx context.Context) (*model.Booking, error) {
	var booking model.Booking
	if err := r.store.Get(ctx, latestKey, &booking); err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, bookingerrors.ErrNoActiveSession
		}
		return nil, fmt.Errorf("load latest booking: %w", err)
	}
	return &booking, nil
}
