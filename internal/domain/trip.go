// Package domain contains the core data types for the travel budget tracker.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// HomeCurrency is the fixed reporting currency. Budgets are committed in it
// and every expense is converted into it.
const HomeCurrency = "KRW"

// Trip represents one planned expenditure period scoped to a destination
// country, its local currency, and a budget in the home currency.
// A trip is the top-level aggregate; expenses belong to a trip.
//
// Budget is fixed at creation. Remaining starts equal to Budget and is
// decremented by each successfully recorded expense's converted amount.
// Remaining may go negative — overspending is reported, not rejected.
type Trip struct {
	ID          uuid.UUID `json:"id"`
	CountryCode string    `json:"country_code"`
	Currency    string    `json:"currency"`
	Budget      float64   `json:"budget"`
	Remaining   float64   `json:"remaining"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
