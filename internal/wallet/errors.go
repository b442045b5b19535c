package wallet

import "errors"

var (
	// ErrInsufficientFunds means the debit would drive the balance
	// negative. The wallet is left untouched; no partial debit occurs.
	ErrInsufficientFunds = errors.New("insufficient wallet balance")

	// ErrInvalidAmount means a credit or debit amount was zero or
	// negative.
	ErrInvalidAmount = errors.New("amount must be positive")
)
