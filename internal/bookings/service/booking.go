package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"carpark/internal/availability"
	bookingerrors "carpark/internal/bookings/errors"
	"carpark/internal/bookings/events"
	"carpark/internal/bookings/repository"
	"carpark/internal/bookings/validator"
	catalogerrors "carpark/internal/catalog/errors"
	catalogrepo "carpark/internal/catalog/repository"
	"carpark/internal/pricing"
	"carpark/internal/wallet"
	"carpark/pkg/config"
	apperrors "carpark/pkg/errors"
	"carpark/pkg/model"
	"carpark/pkg/sanitizer"
	"carpark/pkg/sealer"

	"github.com/google/uuid"
)

type BookingService interface {
	Availability(ctx context.Context, spotID string) (*model.SpotAvailability, error)
	Confirm(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	History(ctx context.Context, activeOnly bool) ([]model.Booking, error)
	Latest(ctx context.Context) (*model.Booking, error)
}

type bookingService struct {
	ledger    repository.BookingLedger
	spots     catalogrepo.SpotRepository
	wallet    wallet.Service
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config

	// mu serializes confirmations within this process. Availability is
	// recomputed under the lock, so two concurrent confirms for the same
	// slots cannot both pass. Across processes the store is
	// last-writer-wins; a distributed lock is out of scope here.
	mu sync.Mutex
}

func NewBookingService(
	ledger repository.BookingLedger,
	spots catalogrepo.SpotRepository,
	walletSvc wallet.Service,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		ledger:    ledger,
		spots:     spots,
		wallet:    walletSvc,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) Availability(ctx context.Context, spotID string) (*model.SpotAvailability, error) {
	spot, err := s.spots.FindByID(ctx, spotID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrSpotNotFound) {
			return nil, apperrors.NotFoundWithID("parking spot", spotID)
		}
		return nil, apperrors.Storage("Failed to load parking spot", err)
	}

	active, err := s.ledger.ListActiveForSpot(ctx, spotID, time.Now())
	if err != nil {
		return nil, apperrors.Storage("Failed to load active bookings", err)
	}

	return buildAvailabilityView(*spot, active), nil
}

func buildAvailabilityView(spot model.ParkingSpot, active []model.Booking) *model.SpotAvailability {
	reserved := availability.ComputeReservedSlots(active, spot.Capacity)

	taken := make([]int, 0)
	for i, r := range reserved {
		if r {
			taken = append(taken, i+1)
		}
	}

	view := &model.SpotAvailability{
		Spot:           spot,
		ReservedSlots:  taken,
		AvailableCount: spot.Capacity - len(taken),
		SoldOut:        spot.Capacity-len(taken) <= 0,
	}
	view.Spot.SoldOut = view.SoldOut
	return view
}

// Confirm runs the full confirmation workflow: validate the request,
// recheck availability against the current ledger, price the stay,
// debit the wallet, then commit the booking. The wallet debit is
// refunded if the ledger write fails afterwards.
func (s *bookingService) Confirm(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	att := newAttempt()

	if err := att.advance(StateValidating); err != nil {
		return nil, apperrors.Internal("Confirmation workflow error", err)
	}

	req.NumberPlate = sanitizer.NormalizePlate(req.NumberPlate)
	if err := s.validator.Validate(req); err != nil {
		att.fail()
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("Invalid booking request", map[string]any{
				"errors": validationErrs,
			})
		}
		return nil, apperrors.Internal("Booking validation failed", err)
	}

	spot, err := s.spots.FindByID(ctx, req.SpotID)
	if err != nil {
		att.fail()
		if errors.Is(err, catalogerrors.ErrSpotNotFound) {
			return nil, apperrors.NotFoundWithID("parking spot", req.SpotID)
		}
		return nil, apperrors.Storage("Failed to load parking spot", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	active, err := s.ledger.ListActiveForSpot(ctx, req.SpotID, now)
	if err != nil {
		att.fail()
		return nil, apperrors.Storage("Failed to load active bookings", err)
	}

	reserved := availability.ComputeReservedSlots(active, spot.Capacity)
	selection, err := availability.ValidateSelection(req.SelectedSlots, reserved, s.cfg.MaxSelectableSlots)
	if err != nil {
		att.fail()
		return nil, s.mapSelectionError(err)
	}

	if err := att.advance(StatePricingAndSettling); err != nil {
		return nil, apperrors.Internal("Confirmation workflow error", err)
	}

	hours, err := pricing.DurationHours(req.CheckInTime, req.CheckOutTime)
	if err != nil {
		att.fail()
		return nil, apperrors.Validation(err.Error(), nil)
	}
	cost := pricing.Cost(len(selection), hours, spot.HourlyPrice)

	booking := model.Booking{
		ID:            uuid.NewString(),
		SpotID:        spot.ID,
		SpotName:      spot.Name,
		SelectedSlots: selection,
		VehicleType:   req.VehicleType,
		NumberPlate:   req.NumberPlate,
		CheckInTime:   req.CheckInTime,
		CheckOutTime:  req.CheckOutTime,
		DurationHours: hours,
		Cost:          cost,
		CreatedAt:     now.UTC(),
	}
	booking.QRPayload = s.qrPayload(booking)

	debitNote := fmt.Sprintf("Booking %s at %s", booking.ID, spot.Name)
	if _, err := s.wallet.Debit(ctx, cost, debitNote); err != nil {
		att.fail()
		if errors.Is(err, wallet.ErrInsufficientFunds) {
			return nil, apperrors.InsufficientFunds(
				fmt.Sprintf("Wallet balance is below the booking cost of %.2f", cost),
			)
		}
		return nil, apperrors.Storage("Failed to debit wallet", err)
	}

	if err := att.advance(StateCommitting); err != nil {
		return nil, apperrors.Internal("Confirmation workflow error", err)
	}

	if err := s.ledger.Append(ctx, booking); err != nil {
		att.fail()
		s.refundDebit(ctx, booking, cost)
		return nil, apperrors.Storage("Failed to persist booking", err)
	}

	if err := s.ledger.SetLatest(ctx, booking); err != nil {
		// The booking itself is committed; a stale latest pointer only
		// affects the session screen.
		s.cfg.Log.Warn("Failed to update latest booking pointer",
			"booking_id", booking.ID,
			"error", err,
		)
	}

	if err := att.advance(StateDone); err != nil {
		return nil, apperrors.Internal("Confirmation workflow error", err)
	}

	s.publisher.BookingConfirmed(ctx, booking)

	s.cfg.Log.Info("Booking confirmed",
		"booking_id", booking.ID,
		"spot_id", booking.SpotID,
		"slots", booking.SelectedSlots,
		"cost", booking.Cost,
	)

	return &booking, nil
}

func (s *bookingService) History(ctx context.Context, activeOnly bool) ([]model.Booking, error) {
	var (
		bookings []model.Booking
		err      error
	)
	if activeOnly {
		bookings, err = s.ledger.ListActive(ctx, time.Now())
	} else {
		bookings, err = s.ledger.All(ctx)
	}
	if err != nil {
		return nil, apperrors.Storage("Failed to load bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) Latest(ctx context.Context) (*model.Booking, error) {
	booking, err := s.ledger.Latest(ctx)
	if err != nil {
		if errors.Is(err, bookingerrors.ErrNoActiveSession) {
			return nil, apperrors.NotFound("active parking session")
		}
		return nil, apperrors.Storage("Failed to load latest booking", err)
	}
	return booking, nil
}

func (s *bookingService) mapSelectionError(err error) error {
	var conflict *availability.ConflictError
	if errors.As(err, &conflict) {
		return apperrors.Conflict("Selected slots were just taken, please pick again").WithDetails(map[string]any{
			"conflicting_slots": conflict.Slots,
		})
	}

	switch {
	case errors.Is(err, availability.ErrEmptySelection):
		return apperrors.Validation("At least one slot must be selected", nil)
	case errors.Is(err, availability.ErrTooManySlots):
		return apperrors.Validation(
			fmt.Sprintf("At most %d slots can be booked at once", s.cfg.MaxSelectableSlots), nil,
		)
	case errors.Is(err, availability.ErrSlotOutOfRange):
		return apperrors.Validation("Slot selection is outside the spot layout", nil)
	default:
		return apperrors.Internal("Slot selection failed", err)
	}
}

// qrPayload seals booking ID and plate into an opaque token when a seal
// key is configured, otherwise falls back to the plain booking ID.
func (s *bookingService) qrPayload(booking model.Booking) string {
	if s.cfg.QRSealKey == "" {
		return booking.ID
	}

	token, err := sealer.Seal(s.cfg.QRSealKey, booking.ID, booking.NumberPlate)
	if err != nil {
		s.cfg.Log.Warn("Failed to seal QR payload, falling back to booking ID",
			"booking_id", booking.ID,
			"error", err,
		)
		return booking.ID
	}
	return token
}

// refundDebit compensates a debit whose booking failed to persist.
func (s *bookingService) refundDebit(ctx context.Context, booking model.Booking, cost float64) {
	note := fmt.Sprintf("Refund: booking %s could not be saved", booking.ID)
	if _, err := s.wallet.Credit(ctx, cost, note); err != nil {
		s.cfg.Log.Error("Failed to refund wallet after booking persistence failure",
			"booking_id", booking.ID,
			"amount", cost,
			"error", err,
		)
	}
}
