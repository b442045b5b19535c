package wallet

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"carpark/pkg/kv"
	"carpark/pkg/logger"
	"carpark/pkg/model"
)

func newTestService(store kv.Store) Service {
	log := logger.New(logger.Config{Level: "error", Service: "test"})
	return NewService(store, 50, log)
}

func TestDebit_InsufficientFunds(t *testing.T) {
	store := kv.NewMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Credit(ctx, 100, "top-up"); err != nil {
		t.Fatalf("Credit returned error: %v", err)
	}

	_, err := svc.Debit(ctx, 150, "booking")
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// Balance must be untouched after the rejected debit.
	balance, err := svc.Balance(ctx)
	if err != nil {
		t.Fatalf("Balance returned error: %v", err)
	}
	if balance != 100 {
		t.Errorf("balance after failed debit = %v, want 100", balance)
	}
}

func TestDebit_UpdatesBalanceAndHistory(t *testing.T) {
	store := kv.NewMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Credit(ctx, 500, "top-up"); err != nil {
		t.Fatalf("Credit returned error: %v", err)
	}

	w, err := svc.Debit(ctx, 200, "booking at City Center")
	if err != nil {
		t.Fatalf("Debit returned error: %v", err)
	}

	if w.Balance != 300 {
		t.Errorf("balance = %v, want 300", w.Balance)
	}
	if len(w.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(w.History))
	}
	// Most recent first.
	if w.History[0].Type != model.TransactionDebit || w.History[0].Amount != 200 {
		t.Errorf("latest entry = %+v, want debit of 200", w.History[0])
	}
	if w.History[1].Type != model.TransactionCredit {
		t.Errorf("older entry type = %q, want credit", w.History[1].Type)
	}
}

func TestDebit_ExactBalanceAllowed(t *testing.T) {
	store := kv.NewMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Credit(ctx, 250, "top-up"); err != nil {
		t.Fatalf("Credit returned error: %v", err)
	}

	w, err := svc.Debit(ctx, 250, "booking")
	if err != nil {
		t.Fatalf("Debit returned error: %v", err)
	}
	if w.Balance != 0 {
		t.Errorf("balance = %v, want 0", w.Balance)
	}
}

func TestCreditDebit_RejectNonPositiveAmounts(t *testing.T) {
	svc := newTestService(kv.NewMemoryStore())
	ctx := context.Background()

	for _, amount := range []float64{0, -5} {
		if _, err := svc.Credit(ctx, amount, "x"); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Credit(%v): expected ErrInvalidAmount, got %v", amount, err)
		}
		if _, err := svc.Debit(ctx, amount, "x"); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Debit(%v): expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestHistory_CappedAtLimit(t *testing.T) {
	store := kv.NewMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	for i := 0; i < 55; i++ {
		if _, err := svc.Credit(ctx, 1, fmt.Sprintf("top-up %d", i)); err != nil {
			t.Fatalf("Credit %d returned error: %v", i, err)
		}
	}

	w, err := svc.Wallet(ctx)
	if err != nil {
		t.Fatalf("Wallet returned error: %v", err)
	}
	if len(w.History) != 50 {
		t.Errorf("history length = %d, want 50", len(w.History))
	}
	if w.History[0].Note != "top-up 54" {
		t.Errorf("newest entry note = %q, want %q", w.History[0].Note, "top-up 54")
	}
	if w.Balance != 55 {
		t.Errorf("balance = %v, want 55", w.Balance)
	}
}

func TestWallet_EmptyStore(t *testing.T) {
	svc := newTestService(kv.NewMemoryStore())

	w, err := svc.Wallet(context.Background())
	if err != nil {
		t.Fatalf("Wallet returned error: %v", err)
	}
	if w.Balance != 0 {
		t.Errorf("fresh wallet balance = %v, want 0", w.Balance)
	}
	if len(w.History) != 0 {
		t.Errorf("fresh wallet history length = %d, want 0", len(w.History))
	}
}
