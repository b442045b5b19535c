package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"carpark/internal/bookings/repository"
	"carpark/internal/bookings/validator"
	catalogerrors "carpark/internal/catalog/errors"
	"carpark/internal/wallet"
	"carpark/pkg/config"
	apperrors "carpark/pkg/errors"
	"carpark/pkg/kv"
	"carpark/pkg/logger"
	"carpark/pkg/model"
)

// Mock spot repository
type mockSpotRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.ParkingSpot, error)
}

func (m *mockSpotRepository) FindByID(ctx context.Context, id string) (*model.ParkingSpot, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, fmt.Errorf("%w: %s", catalogerrors.ErrSpotNotFound, id)
}

func (m *mockSpotRepository) FindAll(ctx context.Context) ([]*model.ParkingSpot, error) {
	return nil, nil
}

func (m *mockSpotRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockSpotRepository) SeedIfEmpty(ctx context.Context, spots []model.ParkingSpot) (int, error) {
	return 0, nil
}

// Recording publisher
type recordingPublisher struct {
	confirmed []model.Booking
}

func (p *recordingPublisher) BookingConfirmed(_ context.Context, booking model.Booking) {
	p.confirmed = append(p.confirmed, booking)
}

// failingStore rejects all writes; reads behave like an empty store.
type failingStore struct{}

func (failingStore) Get(context.Context, string, any) error { return kv.ErrKeyNotFound }
func (failingStore) Set(context.Context, string, any) error { return errors.New("store unavailable") }
func (failingStore) Delete(context.Context, string) error   { return errors.New("store unavailable") }

type fixture struct {
	svc       BookingService
	wallet    wallet.Service
	ledger    repository.BookingLedger
	publisher *recordingPublisher
}

func testSpot() *model.ParkingSpot {
	return &model.ParkingSpot{
		ID:          "spot-1",
		Name:        "Central Garage",
		Capacity:    20,
		HourlyPrice: 50,
	}
}

func newFixture(t *testing.T, ledger repository.BookingLedger, balance float64) *fixture {
	t.Helper()

	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	cfg := &config.Config{
		MaxSelectableSlots: 5,
		WalletHistoryLimit: 50,
		Log:                log,
	}

	walletSvc := wallet.NewService(kv.NewMemoryStore(), cfg.WalletHistoryLimit, log)
	if balance > 0 {
		if _, err := walletSvc.Credit(context.Background(), balance, "Initial top-up"); err != nil {
			t.Fatalf("failed to fund wallet: %v", err)
		}
	}

	if ledger == nil {
		ledger = repository.NewBookingLedger(kv.NewMemoryStore(), log)
	}

	spots := &mockSpotRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.ParkingSpot, error) {
			if id == "spot-1" {
				return testSpot(), nil
			}
			return nil, fmt.Errorf("%w: %s", catalogerrors.ErrSpotNotFound, id)
		},
	}

	publisher := &recordingPublisher{}
	svc := NewBookingService(ledger, spots, walletSvc, validator.NewBookingValidator(log), publisher, cfg)

	return &fixture{svc: svc, wallet: walletSvc, ledger: ledger, publisher: publisher}
}

func confirmRequest(slots []int, hours int) *model.BookingRequest {
	checkIn := time.Now().Add(time.Hour).Truncate(time.Minute)
	return &model.BookingRequest{
		SpotID:        "spot-1",
		SelectedSlots: slots,
		VehicleType:   model.VehicleCar,
		NumberPlate:   "MH03BH5467",
		CheckInTime:   checkIn,
		CheckOutTime:  checkIn.Add(time.Duration(hours) * time.Hour),
	}
}

func TestConfirm_Success(t *testing.T) {
	f := newFixture(t, nil, 500)
	ctx := context.Background()

	booking, err := f.svc.Confirm(ctx, confirmRequest([]int{2, 1}, 2))
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	// 2 slots x 2 hours x 50 per hour
	if booking.Cost != 200 {
		t.Errorf("expected cost 200, got %.2f", booking.Cost)
	}
	if booking.DurationHours != 2 {
		t.Errorf("expected 2 hours, got %d", booking.DurationHours)
	}
	if len(booking.SelectedSlots) != 2 || booking.SelectedSlots[0] != 1 || booking.SelectedSlots[1] != 2 {
		t.Errorf("expected sorted slots [1 2], got %v", booking.SelectedSlots)
	}
	if booking.SpotName != "Central Garage" {
		t.Errorf("expected spot name on booking, got %q", booking.SpotName)
	}
	// No seal key configured, so the QR payload is the plain booking ID.
	if booking.QRPayload != booking.ID {
		t.Errorf("expected QR payload %q, got %q", booking.ID, booking.QRPayload)
	}

	balance, err := f.wallet.Balance(ctx)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if balance != 300 {
		t.Errorf("expected balance 300, got %.2f", balance)
	}

	active, err := f.ledger.ListActive(ctx, time.Now())
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != booking.ID {
		t.Fatalf("expected booking in ledger, got %+v", active)
	}

	latest, err := f.ledger.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest.ID != booking.ID {
		t.Errorf("expected latest pointer %s, got %s", booking.ID, latest.ID)
	}

	if len(f.publisher.confirmed) != 1 {
		t.Errorf("expected 1 confirmed event, got %d", len(f.publisher.confirmed))
	}
}

func TestConfirm_SlotConflict(t *testing.T) {
	f := newFixture(t, nil, 500)
	ctx := context.Background()

	if _, err := f.svc.Confirm(ctx, confirmRequest([]int{1, 2}, 2)); err != nil {
		t.Fatalf("first Confirm failed: %v", err)
	}

	_, err := f.svc.Confirm(ctx, confirmRequest([]int{2, 3}, 2))
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if slots, ok := appErr.Details["conflicting_slots"].([]int); !ok || len(slots) != 1 || slots[0] != 2 {
		t.Errorf("expected conflicting slot 2 in details, got %v", appErr.Details)
	}

	// Only the first booking was charged.
	balance, err := f.wallet.Balance(ctx)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if balance != 300 {
		t.Errorf("expected balance 300, got %.2f", balance)
	}
}

func TestConfirm_InsufficientFunds(t *testing.T) {
	f := newFixture(t, nil, 100)
	ctx := context.Background()

	_, err := f.svc.Confirm(ctx, confirmRequest([]int{1, 2}, 2))
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodePaymentRequired {
		t.Fatalf("expected insufficient funds error, got %v", err)
	}

	// Nothing was committed and nothing was charged.
	balance, err := f.wallet.Balance(ctx)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if balance != 100 {
		t.Errorf("expected balance 100, got %.2f", balance)
	}
	active, err := f.ledger.ListActive(ctx, time.Now())
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("expected empty ledger, got %+v", active)
	}
}

func TestConfirm_RefundOnPersistFailure(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Service: "test"})
	ledger := repository.NewBookingLedger(failingStore{}, log)
	f := newFixture(t, ledger, 500)
	ctx := context.Background()

	_, err := f.svc.Confirm(ctx, confirmRequest([]int{1, 2}, 2))
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeStorage {
		t.Fatalf("expected storage error, got %v", err)
	}

	// The debit was compensated with a refund credit.
	w, err := f.wallet.Wallet(ctx)
	if err != nil {
		t.Fatalf("Wallet failed: %v", err)
	}
	if w.Balance != 500 {
		t.Errorf("expected balance restored to 500, got %.2f", w.Balance)
	}
	if len(w.History) != 3 {
		t.Fatalf("expected 3 transactions (top-up, debit, refund), got %d", len(w.History))
	}
	if w.History[0].Type != model.TransactionCredit {
		t.Errorf("expected most recent transaction to be the refund credit, got %s", w.History[0].Type)
	}
	if w.History[1].Type != model.TransactionDebit {
		t.Errorf("expected debit before refund, got %s", w.History[1].Type)
	}
}

func TestConfirm_ValidationErrors(t *testing.T) {
	f := newFixture(t, nil, 500)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*model.BookingRequest)
	}{
		{
			name:   "bad plate",
			mutate: func(r *model.BookingRequest) { r.NumberPlate = "x!" },
		},
		{
			name:   "unknown vehicle",
			mutate: func(r *model.BookingRequest) { r.VehicleType = "Boat" },
		},
		{
			name:   "checkout before checkin",
			mutate: func(r *model.BookingRequest) { r.CheckOutTime = r.CheckInTime.Add(-time.Hour) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := confirmRequest([]int{1}, 2)
			tt.mutate(req)

			_, err := f.svc.Confirm(ctx, req)
			appErr := apperrors.AsAppError(err)
			if appErr == nil || appErr.Code != apperrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestConfirm_TooManySlots(t *testing.T) {
	f := newFixture(t, nil, 5000)
	ctx := context.Background()

	_, err := f.svc.Confirm(ctx, confirmRequest([]int{1, 2, 3, 4, 5, 6}, 2))
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error for oversized selection, got %v", err)
	}
}

func TestConfirm_NormalizesPlate(t *testing.T) {
	f := newFixture(t, nil, 500)
	ctx := context.Background()

	req := confirmRequest([]int{1}, 1)
	req.NumberPlate = " mh 03 bh 5467 "

	booking, err := f.svc.Confirm(ctx, req)
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if booking.NumberPlate != "MH03BH5467" {
		t.Errorf("expected normalized plate, got %q", booking.NumberPlate)
	}
}

func TestAvailability_View(t *testing.T) {
	f := newFixture(t, nil, 500)
	ctx := context.Background()

	if _, err := f.svc.Confirm(ctx, confirmRequest([]int{3, 7}, 2)); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	view, err := f.svc.Availability(ctx, "spot-1")
	if err != nil {
		t.Fatalf("Availability failed: %v", err)
	}
	if len(view.ReservedSlots) != 2 || view.ReservedSlots[0] != 3 || view.ReservedSlots[1] != 7 {
		t.Errorf("expected reserved slots [3 7], got %v", view.ReservedSlots)
	}
	if view.AvailableCount != 18 {
		t.Errorf("expected 18 available, got %d", view.AvailableCount)
	}
	if view.SoldOut {
		t.Error("expected spot not sold out")
	}
}

func TestAvailability_UnknownSpot(t *testing.T) {
	f := newFixture(t, nil, 500)

	_, err := f.svc.Availability(context.Background(), "nope")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestLatest_NoSession(t *testing.T) {
	f := newFixture(t, nil, 500)

	_, err := f.svc.Latest(context.Background())
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestHistory_ActiveFilter(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Service: "test"})
	store := kv.NewMemoryStore()
	ledger := repository.NewBookingLedger(store, log)
	f := newFixture(t, ledger, 500)
	ctx := context.Background()
	now := time.Now()

	expired := model.Booking{
		ID:           "expired",
		SpotID:       "spot-1",
		CheckInTime:  now.Add(-3 * time.Hour),
		CheckOutTime: now.Add(-time.Hour),
	}
	if err := ledger.Append(ctx, expired); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	if _, err := f.svc.Confirm(ctx, confirmRequest([]int{1}, 2)); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	all, err := f.svc.History(ctx, false)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected full history of 2, got %d", len(all))
	}

	active, err := f.svc.History(ctx, true)
	if err != nil {
		t.Fatalf("History(active) failed: %v", err)
	}
	if len(active) != 1 || active[0].ID == "expired" {
		t.Fatalf("expected only the active booking, got %+v", active)
	}
}
