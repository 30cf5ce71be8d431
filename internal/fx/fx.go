// Package fx provides the exchange-rate client used to convert local-currency
// expenses into the home currency.
//
// The core logic depends on the Converter interface, never on the concrete
// provider — any service that can turn (amount, from, to) into a converted
// amount is acceptable. Failures are values: every error returned here wraps
// either ErrUnreachable or ErrRateUnavailable so callers can branch on the
// failure kind without inspecting strings.
package fx

import (
	"context"
	"errors"

	"github.com/hyunwoo-p/tripbudget/internal/domain"
)

// ErrUnreachable indicates the provider could not be reached at all:
// network error, timeout, or a non-200 response.
var ErrUnreachable = errors.New("exchange rate service unreachable")

// ErrRateUnavailable indicates the provider answered but no usable rate for
// the requested pair could be extracted: malformed body, missing target
// currency, or a non-positive converted amount.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// Converter converts an amount from one currency to another.
//
// Implementations must validate that amount is strictly positive and that both
// currency codes are non-empty, and must not retry internally — retry policy
// belongs to the caller, and this system deliberately performs none.
type Converter interface {
	Convert(ctx context.Context, amount float64, from, to string) (domain.Conversion, error)
}
