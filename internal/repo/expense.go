package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/hyunwoo-p/tripbudget/internal/domain"
)

// ExpenseRepo defines the persistence operations for Expenses.
type ExpenseRepo interface {
	// ApplyExpense atomically decrements the owning trip's remaining balance by
	// expense.HomeAmount and inserts the expense row, in one transaction.
	//
	// The UPDATE takes a row lock on the trip, so two concurrent attempts
	// against the same trip are applied as a strictly ordered sequence of
	// decrements — neither can read a stale remaining value. The returned
	// expense carries the DB-generated id and created_at, plus RemainingAfter
	// read back from the decremented row. On any failure the transaction rolls
	// back entirely: no remaining change, no expense row.
	//
	// Returns domain.ErrNotFound if the trip does not exist.
	ApplyExpense(ctx context.Context, expense domain.Expense) (domain.Expense, error)

	// ListByTripID returns all expenses for a trip in creation order.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)
}

// pgExpenseRepo is the Postgres implementation of ExpenseRepo.
type pgExpenseRepo struct {
	db db
}

// NewExpenseRepo constructs an ExpenseRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx — ApplyExpense then
// runs inside a savepoint and rollback isolation still holds.
func NewExpenseRepo(db db) ExpenseRepo {
	return &pgExpenseRepo{db: db}
}

// ApplyExpense performs the atomic read-modify-write of the recording
// transaction's persistence step.
func (r *pgExpenseRepo) ApplyExpense(ctx context.Context, expense domain.Expense) (domain.Expense, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.ApplyExpense: begin: %w", err)
	}
	// Rollback is a no-op after a successful Commit.
	defer tx.Rollback(ctx)

	const decrement = `
		UPDATE trips
		SET remaining  = remaining - @home_amount,
		    updated_at = now()
		WHERE id = @trip_id
		RETURNING remaining`

	var remaining float64
	err = tx.QueryRow(ctx, decrement, pgx.NamedArgs{
		"trip_id":     expense.TripID,
		"home_amount": expense.HomeAmount,
	}).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.ApplyExpense: %w", domain.ErrNotFound)
		}
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.ApplyExpense: decrement: %w", err)
	}

	const insert = `
		INSERT INTO expenses
			(trip_id, local_amount, local_currency, home_amount, rate,
			 rate_source, rate_timestamp, note, remaining_after)
		VALUES
			(@trip_id, @local_amount, @local_currency, @home_amount, @rate,
			 @rate_source, @rate_timestamp, @note, @remaining_after)
		RETURNING id, created_at`

	var id pgtype.UUID
	result := expense
	result.RemainingAfter = remaining

	err = tx.QueryRow(ctx, insert, pgx.NamedArgs{
		"trip_id":         expense.TripID,
		"local_amount":    expense.LocalAmount,
		"local_currency":  expense.LocalCurrency,
		"home_amount":     expense.HomeAmount,
		"rate":            expense.Rate, // nil becomes NULL
		"rate_source":     expense.RateSource,
		"rate_timestamp":  expense.RateTimestamp,
		"note":            expense.Note,
		"remaining_after": remaining,
	}).Scan(&id, &result.CreatedAt)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.ApplyExpense: insert: %w", err)
	}
	result.ID = uuid.UUID(id.Bytes)

	if err := tx.Commit(ctx); err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.ApplyExpense: commit: %w", err)
	}
	return result, nil
}

// ListByTripID returns all expenses for a trip ordered by created_at ascending,
// so RemainingAfter values form the documented decrement chain.
func (r *pgExpenseRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	const q = `
		SELECT id, trip_id, local_amount, local_currency, home_amount, rate,
		       rate_source, rate_timestamp, note, remaining_after, created_at
		FROM expenses
		WHERE trip_id = @trip_id
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ExpenseRepo.ListByTripID: scan: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByTripID: rows: %w", err)
	}

	return expenses, nil
}

// scanExpense maps a single database row into a domain.Expense.
// It handles the UUID conversions and the nullable rate column.
func scanExpense(s scanner) (domain.Expense, error) {
	var (
		e      domain.Expense
		id     pgtype.UUID
		tripID pgtype.UUID
		rate   pgtype.Float8
	)

	err := s.Scan(&id, &tripID, &e.LocalAmount, &e.LocalCurrency, &e.HomeAmount, &rate,
		&e.RateSource, &e.RateTimestamp, &e.Note, &e.RemainingAfter, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Expense{}, domain.ErrNotFound
		}
		return domain.Expense{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.TripID = uuid.UUID(tripID.Bytes)
	if rate.Valid {
		v := rate.Float64
		e.Rate = &v
	}

	return e, nil
}
