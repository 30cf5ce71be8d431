package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunwoo-p/tripbudget/internal/audit"
	"github.com/hyunwoo-p/tripbudget/internal/domain"
	"github.com/hyunwoo-p/tripbudget/internal/fx"
	"github.com/hyunwoo-p/tripbudget/internal/repo"
	"github.com/hyunwoo-p/tripbudget/internal/service"
)

// ---- mocks -----------------------------------------------------------------

// mockExpenseRepo is a hand-written test double for repo.ExpenseRepo.
type mockExpenseRepo struct {
	applyExpense func(ctx context.Context, e domain.Expense) (domain.Expense, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)
	applied      int
}

func (m *mockExpenseRepo) ApplyExpense(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	m.applied++
	return m.applyExpense(ctx, e)
}
func (m *mockExpenseRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	return m.listByTripID(ctx, tripID)
}

var _ repo.ExpenseRepo = (*mockExpenseRepo)(nil)

// mockConverter is a test double for fx.Converter.
type mockConverter struct {
	convert func(ctx context.Context, amount float64, from, to string) (domain.Conversion, error)
	calls   int
}

func (m *mockConverter) Convert(ctx context.Context, amount float64, from, to string) (domain.Conversion, error) {
	m.calls++
	return m.convert(ctx, amount, from, to)
}

var _ fx.Converter = (*mockConverter)(nil)

// mockAuditLogger records appended lines; set fail to simulate an unwritable log.
type mockAuditLogger struct {
	fail  error
	lines []string
}

func (m *mockAuditLogger) Append(_ uuid.UUID, line string) error {
	if m.fail != nil {
		return m.fail
	}
	m.lines = append(m.lines, line)
	return nil
}

var _ audit.Logger = (*mockAuditLogger)(nil)

// ---- helpers ---------------------------------------------------------------

var rateTS = time.Date(2025, 8, 1, 9, 30, 0, 0, time.UTC)

// usdTrip returns the scenario trip: 100000 KRW budget, USD local currency.
func usdTrip() domain.Trip {
	return domain.Trip{
		ID:          uuid.New(),
		CountryCode: "US",
		Currency:    "USD",
		Budget:      100000,
		Remaining:   100000,
	}
}

// usdConverter converts USD to KRW at a fixed 1300 rate.
func usdConverter() *mockConverter {
	return &mockConverter{
		convert: func(_ context.Context, amount float64, from, to string) (domain.Conversion, error) {
			return domain.Conversion{
				HomeAmount: amount * 1300,
				Rate:       1300,
				Provider:   "frankfurter",
				Timestamp:  rateTS,
			}, nil
		},
	}
}

// applyingRepo simulates a healthy database: it decrements the trip's
// remaining and fills in the DB-generated fields.
func applyingRepo(trip *domain.Trip) *mockExpenseRepo {
	return &mockExpenseRepo{
		applyExpense: func(_ context.Context, e domain.Expense) (domain.Expense, error) {
			trip.Remaining -= e.HomeAmount
			e.ID = uuid.New()
			e.RemainingAfter = trip.Remaining
			e.CreatedAt = time.Now().UTC()
			return e, nil
		},
	}
}

func tripRepoFor(trip *domain.Trip) *mockTripRepo {
	return &mockTripRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			if id != trip.ID {
				return domain.Trip{}, domain.ErrNotFound
			}
			return *trip, nil
		},
	}
}

func newExpenseService(trips repo.TripRepo, expenses repo.ExpenseRepo, conv fx.Converter, log audit.Logger) *service.ExpenseService {
	return service.NewExpenseService(trips, expenses, conv, log, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// ---- Record: full success --------------------------------------------------

// TestExpenseService_Record_OK runs the canonical scenario: budget 100000 KRW,
// USD 50 converted at 1300 to KRW 65000.
func TestExpenseService_Record_OK(t *testing.T) {
	trip := usdTrip()
	auditLog := &mockAuditLogger{}
	svc := newExpenseService(tripRepoFor(&trip), applyingRepo(&trip), usdConverter(), auditLog)

	got, err := svc.Record(context.Background(), trip.ID, 50, "lunch")

	require.NoError(t, err)
	assert.True(t, got.DatabasePersisted)
	assert.True(t, got.FileLogged)
	assert.Empty(t, got.ErrorDetail)

	e := got.Expense
	assert.Equal(t, 50.0, e.LocalAmount)
	assert.Equal(t, "USD", e.LocalCurrency)
	assert.Equal(t, 65000.0, e.HomeAmount)
	require.NotNil(t, e.Rate)
	assert.Equal(t, 1300.0, *e.Rate)
	assert.Equal(t, "frankfurter", e.RateSource)
	assert.Equal(t, 35000.0, e.RemainingAfter)
	assert.Equal(t, 35000.0, trip.Remaining)

	require.Len(t, auditLog.lines, 1)
	line := auditLog.lines[0]
	assert.Contains(t, line, "trip="+trip.ID.String())
	assert.Contains(t, line, "USD 50.00 -> HOME 65000.00")
	assert.Contains(t, line, "rate=1300.000000")
	assert.Contains(t, line, `note="lunch"`)
	assert.Contains(t, line, "remaining=35000.00")
	assert.Contains(t, line, rateTS.Format(time.RFC3339))
}

// TestExpenseService_Record_rateMatchesRatio verifies the reported rate always
// equals homeAmount/localAmount to the provider's precision.
func TestExpenseService_Record_rateMatchesRatio(t *testing.T) {
	trip := usdTrip()
	svc := newExpenseService(tripRepoFor(&trip), applyingRepo(&trip), usdConverter(), &mockAuditLogger{})

	for _, amount := range []float64{0.01, 3.3, 50, 1234.56} {
		got, err := svc.Record(context.Background(), trip.ID, amount, "")
		require.NoError(t, err)
		require.NotNil(t, got.Expense.Rate)
		assert.InDelta(t, got.Expense.HomeAmount/got.Expense.LocalAmount, *got.Expense.Rate, 1e-9)
	}
}

// TestExpenseService_Record_sequenceDecrements verifies remaining after a
// sequence of expenses equals budget minus the sum of converted amounts, and
// each expense's RemainingAfter chains off the previous one.
func TestExpenseService_Record_sequenceDecrements(t *testing.T) {
	trip := usdTrip()
	svc := newExpenseService(tripRepoFor(&trip), applyingRepo(&trip), usdConverter(), &mockAuditLogger{})

	amounts := []float64{10, 20, 30} // KRW 13000, 26000, 39000
	want := trip.Budget
	for _, a := range amounts {
		got, err := svc.Record(context.Background(), trip.ID, a, "")
		require.NoError(t, err)
		want -= a * 1300
		assert.Equal(t, want, got.Expense.RemainingAfter)
	}
	assert.Equal(t, 22000.0, trip.Remaining)
}

// TestExpenseService_Record_overspendAllowed verifies a negative remaining is
// reported, not rejected.
func TestExpenseService_Record_overspendAllowed(t *testing.T) {
	trip := usdTrip()
	svc := newExpenseService(tripRepoFor(&trip), applyingRepo(&trip), usdConverter(), &mockAuditLogger{})

	got, err := svc.Record(context.Background(), trip.ID, 100, "splurge") // KRW 130000 > budget

	require.NoError(t, err)
	assert.True(t, got.DatabasePersisted)
	assert.Equal(t, -30000.0, got.Expense.RemainingAfter)
}

// ---- Record: validation ----------------------------------------------------

// TestExpenseService_Record_nonPositiveAmount verifies rejection happens
// before any external call or side effect.
func TestExpenseService_Record_nonPositiveAmount(t *testing.T) {
	trip := usdTrip()
	conv := usdConverter()
	expenses := applyingRepo(&trip)
	auditLog := &mockAuditLogger{}
	svc := newExpenseService(tripRepoFor(&trip), expenses, conv, auditLog)

	for _, amount := range []float64{0, -5} {
		_, err := svc.Record(context.Background(), trip.ID, amount, "nope")
		assert.ErrorIs(t, err, domain.ErrValidation, "amount %v", amount)
	}

	assert.Zero(t, conv.calls, "no conversion call on rejection")
	assert.Zero(t, expenses.applied, "no store write on rejection")
	assert.Empty(t, auditLog.lines, "no log line on rejection")
	assert.Equal(t, 100000.0, trip.Remaining)
}

func TestExpenseService_Record_tripNotFound(t *testing.T) {
	trip := usdTrip()
	conv := usdConverter()
	svc := newExpenseService(tripRepoFor(&trip), applyingRepo(&trip), conv, &mockAuditLogger{})

	_, err := svc.Record(context.Background(), uuid.New(), 50, "")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, conv.calls)
}

func TestExpenseService_Record_noCurrency(t *testing.T) {
	trip := usdTrip()
	trip.Currency = ""
	conv := usdConverter()
	svc := newExpenseService(tripRepoFor(&trip), applyingRepo(&trip), conv, &mockAuditLogger{})

	_, err := svc.Record(context.Background(), trip.ID, 50, "")

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, conv.calls)
}

// ---- Record: conversion failure --------------------------------------------

// TestExpenseService_Record_conversionFailed verifies a failed conversion is
// terminal: no expense row, no remaining change, no audit line.
func TestExpenseService_Record_conversionFailed(t *testing.T) {
	trip := usdTrip()
	expenses := applyingRepo(&trip)
	auditLog := &mockAuditLogger{}
	conv := &mockConverter{
		convert: func(_ context.Context, _ float64, _, _ string) (domain.Conversion, error) {
			return domain.Conversion{}, fmt.Errorf("%w: connection refused", fx.ErrUnreachable)
		},
	}
	svc := newExpenseService(tripRepoFor(&trip), expenses, conv, auditLog)

	_, err := svc.Record(context.Background(), trip.ID, 50, "")

	assert.ErrorIs(t, err, fx.ErrUnreachable)
	assert.Zero(t, expenses.applied, "no store write after conversion failure")
	assert.Empty(t, auditLog.lines, "no log line after conversion failure")
	assert.Equal(t, 100000.0, trip.Remaining)
}

// ---- Record: database failure ----------------------------------------------

// TestExpenseService_Record_persistenceFailed verifies the attempt survives a
// database failure: the outcome reports it, the audit line is still written
// with the projected balance, and no error is returned.
func TestExpenseService_Record_persistenceFailed(t *testing.T) {
	trip := usdTrip()
	auditLog := &mockAuditLogger{}
	expenses := &mockExpenseRepo{
		applyExpense: func(_ context.Context, _ domain.Expense) (domain.Expense, error) {
			return domain.Expense{}, errors.New("pq: connection reset by peer")
		},
	}
	svc := newExpenseService(tripRepoFor(&trip), expenses, usdConverter(), auditLog)

	got, err := svc.Record(context.Background(), trip.ID, 50, "dinner")

	require.NoError(t, err, "a database failure is reported in the outcome, not as an error")
	assert.False(t, got.DatabasePersisted)
	assert.True(t, got.FileLogged)
	assert.Contains(t, got.ErrorDetail, "connection reset")
	assert.Equal(t, 35000.0, got.Expense.RemainingAfter, "projected balance for reporting")
	assert.Equal(t, 100000.0, trip.Remaining, "financial state unchanged")

	require.Len(t, auditLog.lines, 1)
	assert.Contains(t, auditLog.lines[0], "USD 50.00 -> HOME 65000.00")
	assert.Contains(t, auditLog.lines[0], "remaining=35000.00")
}

// ---- Record: audit failure -------------------------------------------------

// TestExpenseService_Record_auditFailed verifies a failed append never rolls
// back or masks the committed transaction.
func TestExpenseService_Record_auditFailed(t *testing.T) {
	trip := usdTrip()
	auditLog := &mockAuditLogger{fail: errors.New("read-only file system")}
	svc := newExpenseService(tripRepoFor(&trip), applyingRepo(&trip), usdConverter(), auditLog)

	got, err := svc.Record(context.Background(), trip.ID, 50, "")

	require.NoError(t, err)
	assert.True(t, got.DatabasePersisted)
	assert.False(t, got.FileLogged)
	assert.Empty(t, got.ErrorDetail)
	assert.Equal(t, 35000.0, trip.Remaining, "decrement sticks despite audit failure")
}

// TestExpenseService_Record_bothFailed covers the double-failure corner:
// database down and log unwritable, conversion result still reported.
func TestExpenseService_Record_bothFailed(t *testing.T) {
	trip := usdTrip()
	expenses := &mockExpenseRepo{
		applyExpense: func(_ context.Context, _ domain.Expense) (domain.Expense, error) {
			return domain.Expense{}, errors.New("db down")
		},
	}
	auditLog := &mockAuditLogger{fail: errors.New("disk full")}
	svc := newExpenseService(tripRepoFor(&trip), expenses, usdConverter(), auditLog)

	got, err := svc.Record(context.Background(), trip.ID, 50, "")

	require.NoError(t, err)
	assert.False(t, got.DatabasePersisted)
	assert.False(t, got.FileLogged)
	assert.Contains(t, got.ErrorDetail, "db down")
	assert.Equal(t, 65000.0, got.Expense.HomeAmount, "conversion result is never lost")
}

// ---- ListByTripID ----------------------------------------------------------

func TestExpenseService_ListByTripID_OK(t *testing.T) {
	trip := usdTrip()
	expenses := &mockExpenseRepo{
		listByTripID: func(_ context.Context, _ uuid.UUID) ([]domain.Expense, error) {
			return []domain.Expense{{ID: uuid.New()}}, nil
		},
	}
	svc := newExpenseService(tripRepoFor(&trip), expenses, usdConverter(), &mockAuditLogger{})

	got, err := svc.ListByTripID(context.Background(), trip.ID)

	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestExpenseService_ListByTripID_tripNotFound(t *testing.T) {
	trip := usdTrip()
	svc := newExpenseService(tripRepoFor(&trip), &mockExpenseRepo{}, usdConverter(), &mockAuditLogger{})

	_, err := svc.ListByTripID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExpenseService_ListByTripID_nilBecomesEmpty(t *testing.T) {
	trip := usdTrip()
	expenses := &mockExpenseRepo{
		listByTripID: func(_ context.Context, _ uuid.UUID) ([]domain.Expense, error) {
			return nil, nil
		},
	}
	svc := newExpenseService(tripRepoFor(&trip), expenses, usdConverter(), &mockAuditLogger{})

	got, err := svc.ListByTripID(context.Background(), trip.ID)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
