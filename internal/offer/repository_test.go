package offer

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func setupOfferMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func offerColumns() []string {
	return []string{"id", "title", "kind", "price_cents", "currency", "period_months", "entries", "premium", "synopsis", "features", "created_at"}
}

func TestCreateOffer(t *testing.T) {
	repo, mock, close := setupOfferMock(t)
	defer close()

	features := pq.StringArray{"sauna", "pool"}

	mock.ExpectQuery(`INSERT INTO offers.*`).
		WithArgs("Monthly Gold", KindTime, int64(12000), "PLN", 1, 0, true, "Full access for a month", features).
		WillReturnRows(sqlmock.NewRows(offerColumns()).
			AddRow(1, "Monthly Gold", "time", int64(12000), "PLN", 1, 0, true, "Full access for a month", "{sauna,pool}", time.Now()))

	o, err := repo.Create(context.Background(), &Offer{
		Title:        "Monthly Gold",
		Kind:         KindTime,
		PriceCents:   12000,
		Currency:     "PLN",
		PeriodMonths: 1,
		Premium:      true,
		Synopsis:     "Full access for a month",
		Features:     features,
	})
	require.NoError(t, err)
	require.Equal(t, 1, o.ID)
	require.Equal(t, KindTime, o.Kind)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOfferByID(t *testing.T) {
	repo, mock, close := setupOfferMock(t)
	defer close()

	mock.ExpectQuery(`SELECT id, title, kind, price_cents, currency, period_months, entries, premium, synopsis, features, created_at\s+FROM offers\s+WHERE id = \$1`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(offerColumns()).
			AddRow(2, "10 Entries", "entries", int64(9000), "PLN", 0, 10, false, "Ten visits", "{}", time.Now()))

	o, err := repo.GetByID(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, KindEntries, o.Kind)
	require.Equal(t, 10, o.Entries)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOfferByID_NotFound(t *testing.T) {
	repo, mock, close := setupOfferMock(t)
	defer close()

	mock.ExpectQuery(`SELECT id, title, kind, price_cents, currency, period_months, entries, premium, synopsis, features, created_at\s+FROM offers\s+WHERE id = \$1`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(offerColumns()))

	o, err := repo.GetByID(context.Background(), 99)
	require.Error(t, err)
	require.Nil(t, o)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllOffers(t *testing.T) {
	repo, mock, close := setupOfferMock(t)
	defer close()

	mock.ExpectQuery(`SELECT id, title, kind, price_cents, currency, period_months, entries, premium, synopsis, features, created_at\s+FROM offers\s+ORDER BY price_cents ASC`).
		WillReturnRows(sqlmock.NewRows(offerColumns()).
			AddRow(1, "10 Entries", "entries", int64(9000), "PLN", 0, 10, false, "", "{}", time.Now()).
			AddRow(2, "Monthly Gold", "time", int64(12000), "PLN", 1, 0, true, "", "{}", time.Now()))

	offers, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, offers, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}
