package model

import "time"

const (
	TransactionCredit = "credit"
	TransactionDebit  = "debit"
)

// WalletTransaction is one append-only history entry. Amount is always
// positive; Type carries the direction.
type WalletTransaction struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	Note      string    `json:"note"`
}

// Wallet is the read view served to the UI: current balance plus the
// capped, most-recent-first transaction history.
type Wallet struct {
	Balance float64             `json:"balance"`
	History []WalletTransaction `json:"history"`
}
