package offer

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, o *Offer) (*Offer, error) {
	query := `
		INSERT INTO offers (title, kind, price_cents, currency, period_months, entries, premium, synopsis, features)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, title, kind, price_cents, currency, period_months, entries, premium, synopsis, features, created_at
	`

	created := &Offer{}
	err := r.db.QueryRowxContext(ctx, query,
		o.Title, o.Kind, o.PriceCents, o.Currency, o.PeriodMonths, o.Entries, o.Premium, o.Synopsis, o.Features,
	).StructScan(created)
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Offer, error) {
	query := `
		SELECT id, title, kind, price_cents, currency, period_months, entries, premium, synopsis, features, created_at
		FROM offers
		WHERE id = $1
	`

	var o Offer
	err := r.db.GetContext(ctx, &o, query, id)
	if err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Offer, error) {
	query := `
		SELECT id, title, kind, price_cents, currency, period_months, entries, premium, synopsis, features, created_at
		FROM offers
		ORDER BY price_cents ASC
	`

	var offers []Offer
	err := r.db.SelectContext(ctx, &offers, query)
	if err != nil {
		return nil, err
	}

	return offers, nil
}
