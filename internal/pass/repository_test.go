package pass

import (
	"context"
	"regexp"
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

func ownedPassRow(classesRemaining int, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "external_id", "pass_id", "user_id", "status",
		"classes_remaining", "expires_at", "follow_up_product_id", "created_at",
	}).AddRow(3, "po-1", 9, 20, status, classesRemaining, time.Now().Add(24*time.Hour), nil, time.Now())
}

func TestRedeemCredit_DecrementsLimitedPass(t *testing.T) {
	repo, mock, close := setupPassMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM pass_orders po WHERE po.external_id = (.+) FOR UPDATE").
		WithArgs("po-1").
		WillReturnRows(ownedPassRow(2, "confirmed"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT limited FROM passes WHERE id = $1")).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"limited"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE pass_orders SET classes_remaining = classes_remaining - 1 WHERE id = $1")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.RedeemCredit(context.Background(), "po-1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemCredit_UnlimitedPassSkipsDecrement(t *testing.T) {
	repo, mock, close := setupPassMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM pass_orders po WHERE po.external_id = (.+) FOR UPDATE").
		WithArgs("po-1").
		WillReturnRows(ownedPassRow(0, "confirmed"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT limited FROM passes WHERE id = $1")).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"limited"}).AddRow(false))
	mock.ExpectCommit()

	err := repo.RedeemCredit(context.Background(), "po-1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemCredit_NoCreditsLeft(t *testing.T) {
	repo, mock, close := setupPassMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM pass_orders po WHERE po.external_id = (.+) FOR UPDATE").
		WithArgs("po-1").
		WillReturnRows(ownedPassRow(0, "confirmed"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT limited FROM passes WHERE id = $1")).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"limited"}).AddRow(true))
	mock.ExpectRollback()

	err := repo.RedeemCredit(context.Background(), "po-1")
	require.ErrorIs(t, err, ErrNoCreditsLeft)
}

func TestRedeemCredit_PendingPassRejected(t *testing.T) {
	repo, mock, close := setupPassMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM pass_orders po WHERE po.external_id = (.+) FOR UPDATE").
		WithArgs("po-1").
		WillReturnRows(ownedPassRow(2, "pending_payment"))
	mock.ExpectRollback()

	err := repo.RedeemCredit(context.Background(), "po-1")
	require.ErrorIs(t, err, ErrPassNotConfirmed)
}

func TestConfirmOwnedPass_FiltersOnCaller(t *testing.T) {
	repo, mock, close := setupPassMock(t)
	defer close()

	// The caller id is part of the UPDATE's WHERE clause, so confirming a
	// stranger's pending pass order matches no rows and flips nothing.
	mock.ExpectQuery("UPDATE pass_orders SET status = 'confirmed' WHERE external_id = (.+) AND user_id = (.+) AND status = 'pending_payment'").
		WithArgs("po-1", 99).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "external_id", "pass_id", "user_id", "status",
			"classes_remaining", "expires_at", "follow_up_product_id", "created_at",
		}))

	_, err := repo.ConfirmOwnedPass(context.Background(), 99, "po-1")
	require.ErrorIs(t, err, ErrPassNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHasConfirmedOwnedPass(t *testing.T) {
	repo, mock, close := setupPassMock(t)
	defer close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(20, 9).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.HasConfirmedOwnedPass(context.Background(), 20, 9)
	require.NoError(t, err)
	require.True(t, exists)
}
