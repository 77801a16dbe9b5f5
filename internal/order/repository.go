package order

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrOrderNotFound = errors.New("order not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, params CreateParams) (*Order, error) {
	exists, err := r.UserHasConfirmedOrder(ctx, params.UserID, params.ProductID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, DuplicateOrderError(params.ProductKind)
	}

	query := `
		INSERT INTO orders (external_id, user_id, product_id, payment_source, source_id, status, amount_cents, currency, coupon_code, user_timezone_location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, external_id, user_id, product_id, payment_source, source_id, status, amount_cents, currency, coupon_code, user_timezone_location, created_at
	`

	// Currency is normalized to lower case on the wire.
	currency := strings.ToLower(params.Currency)
	if currency == "" {
		currency = "usd"
	}

	var created Order
	err = r.db.GetContext(ctx, &created, query,
		uuid.NewString(), params.UserID, params.ProductID, params.PaymentSource,
		params.SourceID, params.Status, params.AmountCents, currency,
		params.CouponCode, params.TimezoneLocation,
	)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByExternalID(ctx context.Context, externalID string) (*Order, error) {
	query := `
		SELECT id, external_id, user_id, product_id, payment_source, source_id, status, amount_cents, currency, coupon_code, user_timezone_location, created_at
		FROM orders
		WHERE external_id = $1
	`

	var o Order
	err := r.db.GetContext(ctx, &o, query, externalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	return &o, nil
}

// Confirm flips a pending order to confirmed. The user filter lives in the
// UPDATE itself so a stranger's order id never mutates anything.
func (r *repository) Confirm(ctx context.Context, userID int, externalID string) (*Order, error) {
	query := `
		UPDATE orders
		SET status = 'confirmed'
		WHERE external_id = $1 AND user_id = $2 AND status = 'pending_payment'
		RETURNING id, external_id, user_id, product_id, payment_source, source_id, status, amount_cents, currency, coupon_code, user_timezone_location, created_at
	`

	var o Order
	err := r.db.GetContext(ctx, &o, query, externalID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	return &o, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]Order, error) {
	query := `
		SELECT id, external_id, user_id, product_id, payment_source, source_id, status, amount_cents, currency, coupon_code, user_timezone_location, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var orders []Order
	err := r.db.SelectContext(ctx, &orders, query, userID)
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *repository) UserHasConfirmedOrder(ctx context.Context, userID, productID int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM orders
			WHERE user_id = $1 AND product_id = $2 AND status = 'confirmed'
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID, productID)
	if err != nil {
		return false, err
	}

	return exists, nil
}
