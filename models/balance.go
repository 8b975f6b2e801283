package models

import "github.com/google/uuid"

// ParticipantBalance is one row of the balances view, rounded for display.
type ParticipantBalance struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	Name          string    `json:"name"`
	Spent         float64   `json:"spent"`
	Paid          float64   `json:"paid"`
	Balance       float64   `json:"balance"` // positive = owed money, negative = owes money
}

// LedgerBalanceSummary is returned for GET /api/ledgers/:id/balances
type LedgerBalanceSummary struct {
	LedgerID   uuid.UUID            `json:"ledger_id"`
	LedgerName string               `json:"ledger_name"`
	Currency   string               `json:"currency"`
	Balances   []ParticipantBalance `json:"balances"`
	TotalSpent float64              `json:"total_spent"`
	TotalPaid  float64              `json:"total_paid"`
}

// TransferResponse is one settlement instruction: From pays To.
type TransferResponse struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// SettlementResponse is returned for GET /api/ledgers/:id/settlement
type SettlementResponse struct {
	LedgerID  uuid.UUID          `json:"ledger_id"`
	Transfers []TransferResponse `json:"transfers"`
}
