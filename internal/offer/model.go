package offer

import (
	"time"

	"github.com/lib/pq"
)

type Kind string

const (
	// KindTime offers grant unlimited entries inside a calendar window.
	KindTime Kind = "time"
	// KindEntries offers grant a fixed number of entries with no real date bound.
	KindEntries Kind = "entries"
)

// Offer is a catalog entry. Purchases snapshot the title and price, so
// editing the catalog never rewrites already sold passes.
type Offer struct {
	ID           int            `db:"id" json:"id"`
	Title        string         `db:"title" json:"title"`
	Kind         Kind           `db:"kind" json:"kind"`
	PriceCents   int64          `db:"price_cents" json:"price_cents"`
	Currency     string         `db:"currency" json:"currency"`
	PeriodMonths int            `db:"period_months" json:"period_months,omitempty"`
	Entries      int            `db:"entries" json:"entries,omitempty"`
	Premium      bool           `db:"premium" json:"premium"`
	Synopsis     string         `db:"synopsis" json:"synopsis"`
	Features     pq.StringArray `db:"features" json:"features" swaggertype:"array,string"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

type CreateOfferRequest struct {
	Title        string   `json:"title" binding:"required"`
	Kind         string   `json:"kind" binding:"required,oneof=time entries"`
	PriceCents   int64    `json:"price_cents" binding:"required,gt=0"`
	Currency     string   `json:"currency" binding:"required,len=3"`
	PeriodMonths int      `json:"period_months"`
	Entries      int      `json:"entries"`
	Premium      bool     `json:"premium"`
	Synopsis     string   `json:"synopsis"`
	Features     []string `json:"features"`
}
