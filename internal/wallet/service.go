// Package wallet owns the in-app wallet: a single balance plus a capped,
// most-recent-first transaction history. Balance and history live under
// separate store keys but are always read and written together.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carpark/pkg/kv"
	"carpark/pkg/logger"
	"carpark/pkg/model"
	"carpark/pkg/sanitizer"

	"github.com/google/uuid"
)

const (
	balanceKey = "walletBalance"
	historyKey = "walletHistory"
)

type Service interface {
	Wallet(ctx context.Context) (*model.Wallet, error)
	Balance(ctx context.Context) (float64, error)
	Credit(ctx context.Context, amount float64, note string) (*model.Wallet, error)
	Debit(ctx context.Context, amount float64, note string) (*model.Wallet, error)
}

type service struct {
	store        kv.Store
	historyLimit int
	log          *logger.Logger
}

func NewService(store kv.Store, historyLimit int, log *logger.Logger) Service {
	return &service{
		store:        store,
		historyLimit: historyLimit,
		log:          log,
	}
}

func (s *service) Wallet(ctx context.Context) (*model.Wallet, error) {
	balance, history, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return &model.Wallet{Balance: balance, History: history}, nil
}

func (s *service) Balance(ctx context.Context) (float64, error) {
	balance, _, err := s.load(ctx)
	return balance, err
}

// Credit adds funds from a completed top-up. The payment gateway is an
// external collaborator; by the time Credit runs the charge already
// succeeded.
func (s *service) Credit(ctx context.Context, amount float64, note string) (*model.Wallet, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	balance, history, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := s.write(ctx, balance+amount, history, model.TransactionCredit, amount, note)
	if err != nil {
		return nil, err
	}

	s.log.Info("Wallet credited", "amount", amount, "balance", updated.Balance)
	return updated, nil
}

// Debit withdraws funds for a booking settlement. The debit is
// all-or-nothing: on ErrInsufficientFunds the stored state is untouched.
func (s *service) Debit(ctx context.Context, amount float64, note string) (*model.Wallet, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	balance, history, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if amount > balance {
		return nil, fmt.Errorf("%w: need %v, have %v", ErrInsufficientFunds, amount, balance)
	}

	updated, err := s.write(ctx, balance-amount, history, model.TransactionDebit, amount, note)
	if err != nil {
		return nil, err
	}

	s.log.Info("Wallet debited", "amount", amount, "balance", updated.Balance)
	return updated, nil
}

func (s *service) load(ctx context.Context) (float64, []model.WalletTransaction, error) {
	var balance float64
	if err := s.store.Get(ctx, balanceKey, &balance); err != nil && !errors.Is(err, kv.ErrKeyNotFound) {
		return 0, nil, fmt.Errorf("failed to read wallet balance: %w", err)
	}

	var history []model.WalletTransaction
	if err := s.store.Get(ctx, historyKey, &history); err != nil && !errors.Is(err, kv.ErrKeyNotFound) {
		return 0, nil, fmt.Errorf("failed to read wallet history: %w", err)
	}

	return balance, history, nil
}

func (s *service) write(ctx context.Context, newBalance float64, history []model.WalletTransaction, txType string, amount float64, note string) (*model.Wallet, error) {
	tx := model.WalletTransaction{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Type:      txType,
		Amount:    amount,
		Note:      sanitizer.NormalizeNote(note),
	}

	updated := append([]model.WalletTransaction{tx}, history...)
	if len(updated) > s.historyLimit {
		updated = updated[:s.historyLimit]
	}

	if err := s.store.Set(ctx, balanceKey, newBalance); err != nil {
		return nil, fmt.Errorf("failed to write wallet balance: %w", err)
	}
	if err := s.store.Set(ctx, historyKey, updated); err != nil {
		// Balance already moved; the history entry is lost but the
		// money is right. Surfaced so the caller can report it.
		return nil, fmt.Errorf("failed to write wallet history: %w", err)
	}

	return &model.Wallet{Balance: newBalance, History: updated}, nil
}
