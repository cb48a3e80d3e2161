package pass

import "time"

type Kind string

const (
	// KindTime passes are bounded by the start/end date window.
	KindTime Kind = "time"
	// KindEntries passes are bounded by the remaining-entries counter.
	KindEntries Kind = "entries"
)

// entryPassEndDate is the stored end date for entry passes. It must compare
// as always-valid under the date rule for any realistic current date.
var entryPassEndDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// Pass is a purchased gym pass. Offer and user fields are snapshots taken
// at purchase time, not live references.
type Pass struct {
	ID               int        `db:"id" json:"id"`
	OfferID          int        `db:"offer_id" json:"offer_id"`
	OfferTitle       string     `db:"offer_title" json:"offer_title"`
	PriceCents       int64      `db:"price_cents" json:"price_cents"`
	Currency         string     `db:"currency" json:"currency"`
	UserID           int        `db:"user_id" json:"user_id"`
	UserName         string     `db:"user_name" json:"user_name"`
	UserSurname      string     `db:"user_surname" json:"user_surname"`
	Kind             Kind       `db:"kind" json:"kind"`
	PurchasedAt      time.Time  `db:"purchased_at" json:"purchased_at"`
	StartDate        time.Time  `db:"start_date" json:"start_date"`
	EndDate          time.Time  `db:"end_date" json:"end_date"`
	EntriesRemaining int        `db:"entries_remaining" json:"entries_remaining"`
	SuspendedUntil   *time.Time `db:"suspended_until" json:"suspended_until,omitempty"`
	Version          int        `db:"version" json:"-"`
}

// Validity is the answer to "does this pass grant entry right now".
// EntriesRemaining is nil for time passes (unlimited entries).
type Validity struct {
	Valid            bool       `json:"valid"`
	EndDate          time.Time  `json:"end_date"`
	EntriesRemaining *int       `json:"entries_remaining,omitempty"`
	SuspendedUntil   *time.Time `json:"suspended_until,omitempty"`
}

type PassWithValidity struct {
	Pass
	Validity Validity `json:"validity"`
}

// Page is an admin listing slice filtered by purchase instant.
type Page struct {
	Items   []Pass `json:"items"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
}

type PurchaseRequest struct {
	OfferID   int    `json:"offer_id" binding:"required"`
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD
}

type SuspendRequest struct {
	SuspendedUntil string `json:"suspended_until" binding:"required"` // YYYY-MM-DD
}

const dateLayout = "2006-01-02"

// dateOnly truncates an instant to its UTC calendar date. All validity and
// lifecycle comparisons happen at day granularity.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole days from a to b; both must be dateOnly values.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
