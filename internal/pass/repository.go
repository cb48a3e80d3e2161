package pass

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const passColumns = `id, offer_id, offer_title, price_cents, currency, user_id, user_name, user_surname,
	       kind, purchased_at, start_date, end_date, entries_remaining, suspended_until, version`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Pass) (*Pass, error) {
	query := `
		INSERT INTO passes (offer_id, offer_title, price_cents, currency, user_id, user_name, user_surname,
		                    kind, purchased_at, start_date, end_date, entries_remaining)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + passColumns

	created := &Pass{}
	err := r.db.QueryRowxContext(ctx, query,
		p.OfferID, p.OfferTitle, p.PriceCents, p.Currency, p.UserID, p.UserName, p.UserSurname,
		p.Kind, p.PurchasedAt, p.StartDate, p.EndDate, p.EntriesRemaining,
	).StructScan(created)
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Pass, error) {
	query := `SELECT ` + passColumns + ` FROM passes WHERE id = $1`

	var p Pass
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPassNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) Update(ctx context.Context, p *Pass) (*Pass, error) {
	query := `
		UPDATE passes
		SET end_date = $1,
		    entries_remaining = $2,
		    suspended_until = $3,
		    version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING ` + passColumns

	updated := &Pass{}
	err := r.db.QueryRowxContext(ctx, query,
		p.EndDate, p.EntriesRemaining, p.SuspendedUntil, p.ID, p.Version,
	).StructScan(updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Either the pass vanished or the version moved under us.
			return nil, ErrVersionConflict
		}
		return nil, err
	}

	return updated, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM passes WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPassNotFound
	}

	return nil
}

func (r *repository) ListForUser(ctx context.Context, userID int, from, to *time.Time) ([]Pass, error) {
	query := `SELECT ` + passColumns + ` FROM passes WHERE user_id = $1`
	args := []interface{}{userID}

	if from != nil {
		args = append(args, *from)
		query += ` AND end_date >= $2`
	}
	if to != nil {
		args = append(args, *to)
		if from != nil {
			query += ` AND start_date <= $3`
		} else {
			query += ` AND start_date <= $2`
		}
	}

	query += ` ORDER BY start_date ASC, id ASC`

	passes := []Pass{}
	err := r.db.SelectContext(ctx, &passes, query, args...)
	if err != nil {
		return nil, err
	}

	return passes, nil
}

func (r *repository) LatestActiveForUser(ctx context.Context, userID int, now time.Time) (*Pass, error) {
	query := `
		SELECT ` + passColumns + `
		FROM passes
		WHERE user_id = $1
		  AND end_date >= $2
		ORDER BY end_date DESC, id DESC
		LIMIT 1
	`

	var p Pass
	err := r.db.GetContext(ctx, &p, query, userID, now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoPassesFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) ListByPurchaseWindow(ctx context.Context, from, to *time.Time, limit, offset int) ([]Pass, int, error) {
	where := ``
	args := []interface{}{}

	if from != nil {
		args = append(args, *from)
		where += ` AND purchased_at >= $1`
	}
	if to != nil {
		args = append(args, *to)
		if from != nil {
			where += ` AND purchased_at <= $2`
		} else {
			where += ` AND purchased_at <= $1`
		}
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM passes WHERE 1=1` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT `+passColumns+` FROM passes WHERE 1=1`+where+
		` ORDER BY purchased_at DESC, id DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, limit, offset)

	passes := []Pass{}
	if err := r.db.SelectContext(ctx, &passes, query, args...); err != nil {
		return nil, 0, err
	}

	return passes, total, nil
}
