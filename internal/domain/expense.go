package domain

import (
	"time"

	"github.com/google/uuid"
)

// Expense represents one recorded spend event converted into the home currency.
//
// Rate is the effective conversion rate (HomeAmount / LocalAmount). It is a
// pointer because a rate cannot be derived when LocalAmount is not strictly
// positive; nil is rendered as "None" in the audit log.
//
// RemainingAfter snapshots the trip's remaining balance as observed at the end
// of this expense's recording attempt. For a trip's expenses in creation order,
// each entry's RemainingAfter equals the previous entry's RemainingAfter minus
// its own HomeAmount (first entry: budget minus HomeAmount).
type Expense struct {
	ID             uuid.UUID `json:"id"`
	TripID         uuid.UUID `json:"trip_id"`
	LocalAmount    float64   `json:"local_amount"`
	LocalCurrency  string    `json:"local_currency"`
	HomeAmount     float64   `json:"home_amount"`
	Rate           *float64  `json:"rate,omitempty"`
	RateSource     string    `json:"rate_source"`
	RateTimestamp  time.Time `json:"rate_timestamp"`
	Note           string    `json:"note,omitempty"`
	RemainingAfter float64   `json:"remaining_after"`
	CreatedAt      time.Time `json:"created_at"`
}

// Conversion is the result of asking an external provider for a currency
// conversion. It is ephemeral — never persisted on its own, only folded into
// the Expense built from it.
type Conversion struct {
	// HomeAmount is the converted amount in the home currency.
	HomeAmount float64
	// Rate is the effective rate, computed as HomeAmount / source amount.
	Rate float64
	// Provider identifies the exchange-rate service that produced the quote.
	Provider string
	// Timestamp is when the rate was obtained.
	Timestamp time.Time
}

// RecordingOutcome is the structured, partial-failure-aware result of one
// expense-recording attempt. The database write and the audit-log append are
// intentionally decoupled persistence mechanisms; each reports its own success
// so a caller can tell exactly which of the two took effect.
type RecordingOutcome struct {
	// Expense is the expense as computed for this attempt. When
	// DatabasePersisted is false it was never inserted and carries no ID.
	Expense Expense
	// DatabasePersisted reports whether the atomic trip-update + expense-insert
	// transaction committed.
	DatabasePersisted bool
	// FileLogged reports whether the audit line was appended to the trip's log file.
	FileLogged bool
	// ErrorDetail carries the database failure detail when DatabasePersisted is
	// false. Empty otherwise.
	ErrorDetail string
}
