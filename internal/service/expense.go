package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hyunwoo-p/tripbudget/internal/audit"
	"github.com/hyunwoo-p/tripbudget/internal/domain"
	"github.com/hyunwoo-p/tripbudget/internal/fx"
	"github.com/hyunwoo-p/tripbudget/internal/repo"
)

// ExpenseService implements the expense-recording transaction.
// It orchestrates the exchange-rate client, the atomic database write, and the
// audit-log append, and reports the success of the two persistence mechanisms
// independently in the returned RecordingOutcome.
type ExpenseService struct {
	trips     repo.TripRepo
	expenses  repo.ExpenseRepo
	converter fx.Converter
	audit     audit.Logger
	log       *slog.Logger
}

// NewExpenseService constructs an ExpenseService wired to the given collaborators.
func NewExpenseService(trips repo.TripRepo, expenses repo.ExpenseRepo, converter fx.Converter, auditLog audit.Logger, log *slog.Logger) *ExpenseService {
	return &ExpenseService{
		trips:     trips,
		expenses:  expenses,
		converter: converter,
		audit:     auditLog,
		log:       log,
	}
}

// Record runs one expense-recording attempt against a trip.
//
// The attempt moves through five steps, terminal on the first failing path:
//
//  1. Validate: the trip must exist with an established currency and
//     localAmount must be strictly positive. A rejection here has zero side
//     effects — no conversion call, no store write, no log line.
//  2. Convert: ask the exchange-rate client for the home-currency amount.
//     A conversion failure is terminal and leaves all state untouched.
//  3. Persist: decrement trip.remaining and insert the expense row in one
//     atomic transaction. A failure here rolls the database back completely
//     but does NOT end the attempt — the failure detail is captured, the
//     would-be remaining balance is computed locally for reporting, and the
//     attempt continues.
//  4. Audit: append one line to the trip's log file. Runs regardless of step
//     3's outcome, using whichever remaining value step 3 produced. A failed
//     append is swallowed (logged via slog), it never rolls back or masks a
//     committed financial transaction.
//  5. Report: return the RecordingOutcome with both persistence flags.
//
// Validation and conversion failures come back as errors (domain.ErrNotFound,
// domain.ErrValidation, fx.ErrUnreachable, fx.ErrRateUnavailable). Once the
// conversion has succeeded the computed result is never lost: all later
// failures are reported inside the outcome value, not as errors.
func (s *ExpenseService) Record(ctx context.Context, tripID uuid.UUID, localAmount float64, note string) (domain.RecordingOutcome, error) {
	// Step 1: validate.
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.RecordingOutcome{}, fmt.Errorf("service.ExpenseService.Record: %w", err)
	}
	if trip.Currency == "" {
		return domain.RecordingOutcome{}, fmt.Errorf("%w: trip has no currency set", domain.ErrValidation)
	}
	if localAmount <= 0 {
		return domain.RecordingOutcome{}, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}

	// Step 2: convert.
	conv, err := s.converter.Convert(ctx, localAmount, trip.Currency, domain.HomeCurrency)
	if err != nil {
		return domain.RecordingOutcome{}, fmt.Errorf("service.ExpenseService.Record: convert: %w", err)
	}

	rate := conv.Rate
	expense := domain.Expense{
		TripID:        trip.ID,
		LocalAmount:   localAmount,
		LocalCurrency: trip.Currency,
		HomeAmount:    conv.HomeAmount,
		Rate:          &rate,
		RateSource:    conv.Provider,
		RateTimestamp: conv.Timestamp,
		Note:          note,
	}

	outcome := domain.RecordingOutcome{Expense: expense}

	// Step 3: persist. The two persistence mechanisms below are deliberately
	// caught separately — a database failure must still produce an auditable
	// record of the attempt, and an audit failure must never undo a commit.
	persisted, err := s.expenses.ApplyExpense(ctx, expense)
	if err != nil {
		outcome.DatabasePersisted = false
		outcome.ErrorDetail = err.Error()
		// Report the balance the decrement would have produced.
		outcome.Expense.RemainingAfter = trip.Remaining - conv.HomeAmount
		s.log.ErrorContext(ctx, "expense persistence failed",
			"trip_id", trip.ID,
			"error", err,
		)
	} else {
		outcome.DatabasePersisted = true
		outcome.Expense = persisted
	}

	// Step 4: audit, best-effort.
	line := auditLine(conv.Timestamp, trip.ID, outcome.Expense)
	if err := s.audit.Append(trip.ID, line); err != nil {
		outcome.FileLogged = false
		s.log.WarnContext(ctx, "audit append failed",
			"trip_id", trip.ID,
			"error", err,
		)
	} else {
		outcome.FileLogged = true
	}

	// Step 5: report.
	return outcome, nil
}

// ListByTripID returns a trip's expense history in creation order.
// Always returns a non-nil slice so callers can safely range over it.
// Returns domain.ErrNotFound when the trip itself does not exist.
func (s *ExpenseService) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.ExpenseService.ListByTripID: %w", err)
	}
	expenses, err := s.expenses.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExpenseService.ListByTripID: %w", err)
	}
	if expenses == nil {
		return []domain.Expense{}, nil
	}
	return expenses, nil
}
