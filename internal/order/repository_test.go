package order

import (
	"context"
	"testing"
	"time"

	"passhub/internal/product"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupOrderMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func orderColumns() []string {
	return []string{
		"id", "external_id", "user_id", "product_id", "payment_source", "source_id",
		"status", "amount_cents", "currency", "coupon_code", "user_timezone_location", "created_at",
	}
}

func TestCreate_DuplicateConfirmedOrder(t *testing.T) {
	repo, mock, close := setupOrderMock(t)
	defer close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(1, 7).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := repo.Create(context.Background(), CreateParams{
		UserID:      1,
		ProductID:   7,
		ProductKind: product.KindVideo,
	})
	require.EqualError(t, err, "user already has a confirmed order for this video")

	code, ok := CodeOf(err)
	require.True(t, ok)
	require.Equal(t, CodeDuplicateProductOrder, code)
}

func TestCreate_NormalizesCurrency(t *testing.T) {
	repo, mock, close := setupOrderMock(t)
	defer close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(1, 7).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(sqlmock.AnyArg(), 1, 7, "SUBSCRIPTION", "sub-1", "confirmed", int64(0), "usd", nil, nil).
		WillReturnRows(sqlmock.NewRows(orderColumns()).
			AddRow(10, "ord-1", 1, 7, "SUBSCRIPTION", "sub-1", "confirmed", 0, "usd", nil, nil, time.Now()))

	sourceID := "sub-1"
	created, err := repo.Create(context.Background(), CreateParams{
		UserID:        1,
		ProductID:     7,
		ProductKind:   product.KindVideo,
		PaymentSource: SourceSubscription,
		SourceID:      &sourceID,
		Status:        StatusConfirmed,
		Currency:      "USD",
	})
	require.NoError(t, err)
	require.Equal(t, "usd", created.Currency)
	require.Equal(t, StatusConfirmed, created.Status)
}

func TestConfirm_NotFound(t *testing.T) {
	repo, mock, close := setupOrderMock(t)
	defer close()

	mock.ExpectQuery("UPDATE orders").
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows(orderColumns()))

	_, err := repo.Confirm(context.Background(), 1, "missing")
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestConfirm_FiltersOnCaller(t *testing.T) {
	repo, mock, close := setupOrderMock(t)
	defer close()

	// The caller id is part of the UPDATE's WHERE clause, so confirming a
	// stranger's pending order matches no rows and flips nothing.
	mock.ExpectQuery("UPDATE orders SET status = 'confirmed' WHERE external_id = (.+) AND user_id = (.+) AND status = 'pending_payment'").
		WithArgs("ord-1", 99).
		WillReturnRows(sqlmock.NewRows(orderColumns()))

	_, err := repo.Confirm(context.Background(), 99, "ord-1")
	require.ErrorIs(t, err, ErrOrderNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
