package domain

// ExportRow is a single row in the full-data export.
// It is a flat, denormalized view: one row per expense, with trip fields
// repeated for every expense on that trip. Trips with no expenses yield one
// row with zero values for all expense fields.
type ExportRow struct {
	// Trip fields — repeated for every expense on the trip.
	TripID        string  `json:"trip_id"`
	CountryCode   string  `json:"country_code"`
	Currency      string  `json:"currency"`
	Budget        float64 `json:"budget"`
	TripRemaining float64 `json:"trip_remaining"`
	TripCreatedAt string  `json:"trip_created_at"` // RFC 3339 formatted

	// Expense fields — zero values when the trip has no expenses.
	LocalAmount    float64 `json:"local_amount"`
	HomeAmount     float64 `json:"home_amount"`
	Note           string  `json:"note,omitempty"`
	RemainingAfter float64 `json:"remaining_after"`
	RecordedAt     string  `json:"recorded_at,omitempty"` // RFC 3339, empty when no expense
}
