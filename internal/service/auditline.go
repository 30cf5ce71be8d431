package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hyunwoo-p/tripbudget/internal/domain"
)

// auditLine renders the canonical audit entry for one recording attempt.
//
// The format is a compatibility contract with existing log tooling and must
// not drift:
//
//	<RFC3339 UTC> | trip=<id> | <CCY> <local:.2f> -> HOME <home:.2f> | rate=<rate:.6f|None> | note="<note>" | remaining=<remaining:.2f>
//
// A nil rate renders as the literal "None". The remaining value is whichever
// balance the attempt computed — post-decrement when the database write
// committed, the pre-failure projection when it did not.
func auditLine(ts time.Time, tripID uuid.UUID, e domain.Expense) string {
	rate := "None"
	if e.Rate != nil {
		rate = fmt.Sprintf("%.6f", *e.Rate)
	}
	return fmt.Sprintf("%s | trip=%s | %s %.2f -> HOME %.2f | rate=%s | note=%q | remaining=%.2f",
		ts.UTC().Format(time.RFC3339),
		tripID,
		e.LocalCurrency,
		e.LocalAmount,
		e.HomeAmount,
		rate,
		e.Note,
		e.RemainingAfter,
	)
}
