package pass

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrPassNotFound     = errors.New("pass not found")
	ErrNoCreditsLeft    = errors.New("no pass credits remaining")
	ErrPassNotConfirmed = errors.New("pass order is not confirmed")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePass(ctx context.Context, p *Pass, productInternalIDs []int) (*Pass, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}

	var created Pass
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO passes (external_id, creator_id, name, price_cents, currency, class_count, limited, validity_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, external_id, creator_id, name, price_cents, currency, class_count, limited, validity_days, created_at
	`, uuid.NewString(), p.CreatorID, p.Name, p.PriceCents, currency, p.ClassCount, p.Limited, p.ValidityDays).StructScan(&created)
	if err != nil {
		return nil, err
	}

	for _, productID := range productInternalIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pass_products (pass_id, product_id) VALUES ($1, $2)`,
			created.ID, productID,
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByExternalID(ctx context.Context, externalID string) (*Pass, error) {
	var p Pass
	err := r.db.GetContext(ctx, &p, `
		SELECT id, external_id, creator_id, name, price_cents, currency, class_count, limited, validity_days, created_at
		FROM passes
		WHERE external_id = $1
	`, externalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPassNotFound
		}
		return nil, err
	}

	if err := r.loadProductIDs(ctx, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) loadProductIDs(ctx context.Context, p *Pass) error {
	return r.db.SelectContext(ctx, &p.ProductIDs, `
		SELECT pr.external_id
		FROM pass_products pp
		JOIN products pr ON pr.id = pp.product_id
		WHERE pp.pass_id = $1
	`, p.ID)
}

func (r *repository) ListByCreator(ctx context.Context, creatorID int) ([]Pass, error) {
	var passes []Pass
	err := r.db.SelectContext(ctx, &passes, `
		SELECT id, external_id, creator_id, name, price_cents, currency, class_count, limited, validity_days, created_at
		FROM passes
		WHERE creator_id = $1
		ORDER BY created_at DESC
	`, creatorID)
	return passes, err
}

func (r *repository) ListForProduct(ctx context.Context, productID int) ([]Pass, error) {
	var passes []Pass
	err := r.db.SelectContext(ctx, &passes, `
		SELECT p.id, p.external_id, p.creator_id, p.name, p.price_cents, p.currency, p.class_count, p.limited, p.validity_days, p.created_at
		FROM passes p
		JOIN pass_products pp ON pp.pass_id = p.id
		WHERE pp.product_id = $1
		ORDER BY p.price_cents ASC
	`, productID)
	return passes, err
}

func (r *repository) CreateOwnedPass(ctx context.Context, passID, userID int, status OwnedPassStatus, followUpProductID *int) (*OwnedPass, error) {
	query := `
		INSERT INTO pass_orders (external_id, pass_id, user_id, status, classes_remaining, expires_at, follow_up_product_id)
		SELECT $1, p.id, $2, $3, p.class_count, NOW() + (p.validity_days || ' days')::interval, $4
		FROM passes p
		WHERE p.id = $5
		RETURNING id, external_id, pass_id, user_id, status, classes_remaining, expires_at, follow_up_product_id, created_at
	`

	var owned OwnedPass
	err := r.db.GetContext(ctx, &owned, query, uuid.NewString(), userID, status, followUpProductID, passID)
	if err != nil {
		return nil, err
	}

	return &owned, nil
}

// ConfirmOwnedPass flips a pending pass order to confirmed. The user filter
// lives in the UPDATE itself so a stranger's pass order id never mutates
// anything.
func (r *repository) ConfirmOwnedPass(ctx context.Context, userID int, passOrderID string) (*OwnedPass, error) {
	query := `
		UPDATE pass_orders
		SET status = 'confirmed'
		WHERE external_id = $1 AND user_id = $2 AND status = 'pending_payment'
		RETURNING id, external_id, pass_id, user_id, status, classes_remaining, expires_at, follow_up_product_id, created_at
	`

	var owned OwnedPass
	err := r.db.GetContext(ctx, &owned, query, passOrderID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPassNotFound
		}
		return nil, err
	}

	return &owned, nil
}

func (r *repository) GetOwnedByOrderID(ctx context.Context, passOrderID string) (*OwnedPass, error) {
	var owned OwnedPass
	err := r.db.GetContext(ctx, &owned, `
		SELECT po.id, po.external_id, po.pass_id, po.user_id, po.status, po.classes_remaining, po.expires_at, po.follow_up_product_id, po.created_at,
		       p.name AS pass_name, p.class_count, p.limited
		FROM pass_orders po
		JOIN passes p ON p.id = po.pass_id
		WHERE po.external_id = $1
	`, passOrderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPassNotFound
		}
		return nil, err
	}

	return &owned, nil
}

func (r *repository) ListOwnedByUser(ctx context.Context, userID int) ([]OwnedPass, error) {
	var owned []OwnedPass
	err := r.db.SelectContext(ctx, &owned, `
		SELECT po.id, po.external_id, po.pass_id, po.user_id, po.status, po.classes_remaining, po.expires_at, po.follow_up_product_id, po.created_at,
		       p.name AS pass_name, p.class_count, p.limited
		FROM pass_orders po
		JOIN passes p ON p.id = po.pass_id
		WHERE po.user_id = $1
		ORDER BY po.created_at DESC
	`, userID)
	return owned, err
}

// UsableForProduct returns confirmed, unexpired owned passes that still have
// credits and whose pass allow-list includes the product.
func (r *repository) UsableForProduct(ctx context.Context, userID, productID int) ([]OwnedPass, error) {
	var owned []OwnedPass
	err := r.db.SelectContext(ctx, &owned, `
		SELECT po.id, po.external_id, po.pass_id, po.user_id, po.status, po.classes_remaining, po.expires_at, po.follow_up_product_id, po.created_at,
		       p.name AS pass_name, p.class_count, p.limited
		FROM pass_orders po
		JOIN passes p ON p.id = po.pass_id
		JOIN pass_products pp ON pp.pass_id = p.id
		WHERE po.user_id = $1
		  AND pp.product_id = $2
		  AND po.status = 'confirmed'
		  AND (po.expires_at IS NULL OR po.expires_at >= NOW())
		  AND (NOT p.limited OR po.classes_remaining > 0)
		ORDER BY po.created_at ASC
	`, userID, productID)
	return owned, err
}

func (r *repository) HasConfirmedOwnedPass(ctx context.Context, userID, passID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM pass_orders
			WHERE user_id = $1 AND pass_id = $2 AND status = 'confirmed'
			  AND (expires_at IS NULL OR expires_at >= NOW())
		)
	`, userID, passID)
	return exists, err
}

// RedeemCredit decrements classes_remaining on a confirmed owned pass.
// Unlimited passes skip the decrement.
func (r *repository) RedeemCredit(ctx context.Context, passOrderID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var owned OwnedPass
	err = tx.QueryRowxContext(ctx, `
		SELECT po.id, po.external_id, po.pass_id, po.user_id, po.status, po.classes_remaining, po.expires_at, po.follow_up_product_id, po.created_at
		FROM pass_orders po
		WHERE po.external_id = $1
		FOR UPDATE
	`, passOrderID).StructScan(&owned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPassNotFound
		}
		return err
	}

	if owned.Status != StatusConfirmed {
		return ErrPassNotConfirmed
	}

	var limited bool
	if err := tx.GetContext(ctx, &limited, `SELECT limited FROM passes WHERE id = $1`, owned.PassID); err != nil {
		return err
	}

	if limited {
		if owned.ClassesRemaining <= 0 {
			return ErrNoCreditsLeft
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE pass_orders
			SET classes_remaining = classes_remaining - 1
			WHERE id = $1
		`, owned.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}
