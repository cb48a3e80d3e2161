package pass

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupPassMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func passDBColumns() []string {
	return []string{
		"id", "offer_id", "offer_title", "price_cents", "currency", "user_id",
		"user_name", "user_surname", "kind", "purchased_at", "start_date",
		"end_date", "entries_remaining", "suspended_until", "version",
	}
}

func passRow(id int) []driver.Value {
	return []driver.Value{
		id, 10, "Monthly Gold", int64(12000), "PLN", 1,
		"Jan", "Kowalski", "time", time.Now(), date(2025, time.June, 15),
		date(2025, time.July, 15), 0, nil, 1,
	}
}

func TestCreatePass(t *testing.T) {
	repo, mock, close := setupPassMock(t)
	defer close()

	mock.ExpectQuery(`INSERT INTO passes`).
		WillReturnRows(sqlmock.NewRows(passDBColumns()).AddRow(passRow(1)...))

	p, err := repo.Create(context.Background(), &Pass{
		OfferID:     10,
		OfferTitle:  "Monthly Gold",
		PriceCents:  12000,
		Currency:    "PLN",
		UserID:      1,
		UserName:    "Jan",
		UserSurname: "Kowalski",
		Kind:        KindTime,
		PurchasedAt: time.Now(),
		StartDate:   date(2025, time.June, 15),
		EndDate:     date(2025, time.July, 15),
	})
	require.NoError(t, err)
	require.Equal(t, 1, p.ID)
	require.Equal(t, 1, p.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPassByID(t *testing.T) {
	repo, mock, close := setupPassMock(t)
	defer close()

	mock.ExpectQuery(`FROM passes WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(passDBColumns()).AddRow(passRow(1)...))

	p, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, KindTime, p.Kind)
	require.Equal(t, "Kowalski", p.UserSurname)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPassByID_NotFound(t *testing.T) {
	repo, mock, close := setupPassMock(t)
	defer close()

	mock.ExpectQuery(`FROM passes WHERE id = \$1`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(passDBColumns()))

	p, err := repo.GetByID(context.Background(), 99)
	require.ErrorIs(t, err, ErrPassNotFound)
	require.Nil(t, p)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePass(t *testing.T) {
	repo, mock, close := setupPassMock(t)
	defer close()

	row := passRow(1)
	row[11] = date(2025, time.July, 17) // end_date
	row[13] = date(2025, time.June, 17) // suspended_until
	row[14] = 2                         // version

	mock.ExpectQuery(`WHERE id = \$4 AND version = \$5`).
		WithArgs(date(2025, time.July, 17), 0, date(2025, time.June, 17), 1, 1).
		WillReturnRows(sqlmock.NewRows(passDBColumns()).AddRow(row...))

	p, err := repo.Update(context.Background(), &Pass{
		ID:             1,
		EndDate:        date(2025, time.July, 17),
		SuspendedUntil: datePtr(2025, time.June, 17),
		Version:        1,
	})
	require.NoError(t, err)
	require.Equal(t, 2, p.Version)
	require.Equal(t, date(2025, time.July, 17), p.EndDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePass_VersionConflict(t *testing.T) {
	repo, mock, close := setupPassMock(t)
	defer close()

	mock.ExpectQuery(`WHERE id = \$4 AND version = \$5`).
		WillReturnRows(sqlmock.NewRows(passDBColumns()))

	p, err := repo.Update(context.Background(), &Pass{ID: 1, Version: 1})
	require.ErrorIs(t, err, ErrVersionConflict)
	require.Nil(t, p)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePass(t *testing.T) {
	repo, mock, close := setupPassMock(t)
	defer close()

	mock.ExpectExec(`DELETE FROM passes WHERE id = \$1`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePass_NotFound(t *testing.T) {
	repo, mock, close := setupPassMock(t)
	defer close()

	mock.ExpectExec(`DELETE FROM passes WHERE id = \$1`).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, repo.Delete(context.Background(), 99), ErrPassNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListPassesForUser(t *testing.T) {
	repo, mock, close := setupPassMock(t)
	defer close()

	mock.ExpectQuery(`FROM passes WHERE user_id = \$1 ORDER BY start_date ASC, id ASC`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(passDBColumns()).
			AddRow(passRow(1)...).
			AddRow(passRow(2)...))

	passes, err := repo.ListForUser(context.Background(), 1, nil, nil)
	require.NoError(t, err)
	require.Len(t, passes, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListPassesForUser_OverlapWindow(t *testing.T) {
	repo, mock, close := setupPassMock(t)
	defer close()

	from := date(2025, time.June, 1)
	to := date(2025, time.June, 30)

	mock.ExpectQuery(`FROM passes WHERE user_id = \$1 AND end_date >= \$2 AND start_date <= \$3`).
		WithArgs(1, from, to).
		WillReturnRows(sqlmock.NewRows(passDBColumns()).AddRow(passRow(1)...))

	passes, err := repo.ListForUser(context.Background(), 1, &from, &to)
	require.NoError(t, err)
	require.Len(t, passes, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestActiveForUser(t *testing.T) {
	repo, mock, close := setupPassMock(t)
	defer close()

	now := date(2025, time.June, 15)
	mock.ExpectQuery(`FROM passes\s+WHERE user_id = \$1\s+AND end_date >= \$2\s+ORDER BY end_date DESC, id DESC\s+LIMIT 1`).
		WithArgs(1, now).
		WillReturnRows(sqlmock.NewRows(passDBColumns()).AddRow(passRow(3)...))

	p, err := repo.LatestActiveForUser(context.Background(), 1, now)
	require.NoError(t, err)
	require.Equal(t, 3, p.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestActiveForUser_None(t *testing.T) {
	repo, mock, close := setupPassMock(t)
	defer close()

	mock.ExpectQuery(`FROM passes`).
		WillReturnRows(sqlmock.NewRows(passDBColumns()))

	p, err := repo.LatestActiveForUser(context.Background(), 1, date(2025, time.June, 15))
	require.ErrorIs(t, err, ErrNoPassesFound)
	require.Nil(t, p)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByPurchaseWindow(t *testing.T) {
	repo, mock, close := setupPassMock(t)
	defer close()

	from := date(2025, time.June, 1)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM passes WHERE 1=1 AND purchased_at >= \$1`).
		WithArgs(from).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(`FROM passes WHERE 1=1 AND purchased_at >= \$1 ORDER BY purchased_at DESC, id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(from, 20, 0).
		WillReturnRows(sqlmock.NewRows(passDBColumns()).AddRow(passRow(1)...))

	passes, total, err := repo.ListByPurchaseWindow(context.Background(), &from, nil, 20, 0)
	require.NoError(t, err)
	require.Equal(t, 42, total)
	require.Len(t, passes, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
