package subscription

import (
	"context"
	"database/sql"
	"errors"

	"passhub/internal/product"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrNoUsableSubscription = errors.New("no usable subscription")
	ErrCreditsExhausted     = errors.New("subscription credits exhausted")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(
	ctx context.Context,
	userID int,
	plan string,
	months int,
	credits []CreditLine,
	allowedProductIDs map[product.Kind][]int,
) (*Subscription, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	sub := &Subscription{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO subscriptions (external_id, user_id, plan, status, valid_from, valid_until)
		VALUES ($1, $2, $3, 'active', NOW(), NOW() + ($4 || ' months')::interval)
		RETURNING id, external_id, user_id, plan, status, valid_from, valid_until, created_at, updated_at
	`, uuid.NewString(), userID, plan, months).StructScan(sub)
	if err != nil {
		return nil, err
	}

	for _, line := range credits {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO subscription_credits (subscription_id, product_kind, product_credits, product_credits_used)
			VALUES ($1, $2, $3, 0)
		`, sub.ID, line.ProductKind, line.ProductCredits); err != nil {
			return nil, err
		}

		for _, productID := range allowedProductIDs[line.ProductKind] {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO subscription_allowed_products (subscription_id, product_kind, product_id)
				VALUES ($1, $2, $3)
			`, sub.ID, line.ProductKind, productID); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return sub, nil
}

// UsableForProduct finds the active subscription usable for a product: the
// credit line for the product's type exists with credits remaining, and the
// type's allow-list includes the product.
func (r *repository) UsableForProduct(ctx context.Context, userID int, kind product.Kind, productID int) (*UsableSubscription, error) {
	usable := &UsableSubscription{}
	err := r.db.QueryRowxContext(ctx, `
		SELECT s.id, s.external_id, s.user_id, s.plan, s.status, s.valid_from, s.valid_until, s.created_at, s.updated_at,
		       sc.subscription_id, sc.product_kind, sc.product_credits, sc.product_credits_used
		FROM subscriptions s
		JOIN subscription_credits sc ON sc.subscription_id = s.id AND sc.product_kind = $2
		JOIN subscription_allowed_products sap
		  ON sap.subscription_id = s.id AND sap.product_kind = $2 AND sap.product_id = $3
		WHERE s.user_id = $1
		  AND s.status = 'active'
		  AND s.valid_from <= NOW()
		  AND s.valid_until >= NOW()
		  AND sc.product_credits_used < sc.product_credits
		ORDER BY s.created_at ASC
		LIMIT 1
	`, userID, kind, productID).StructScan(usable)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoUsableSubscription
		}
		return nil, err
	}

	return usable, nil
}

func (r *repository) ConsumeCredit(ctx context.Context, subscriptionID int, kind product.Kind) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var line CreditLine
	err = tx.QueryRowxContext(ctx, `
		SELECT subscription_id, product_kind, product_credits, product_credits_used
		FROM subscription_credits
		WHERE subscription_id = $1 AND product_kind = $2
		FOR UPDATE
	`, subscriptionID, kind).StructScan(&line)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoUsableSubscription
		}
		return err
	}

	if line.Exhausted() {
		return ErrCreditsExhausted
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE subscription_credits
		SET product_credits_used = product_credits_used + 1
		WHERE subscription_id = $1 AND product_kind = $2
	`, subscriptionID, kind); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE subscriptions SET updated_at = NOW() WHERE id = $1
	`, subscriptionID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) ListActiveByUser(ctx context.Context, userID int) ([]Subscription, error) {
	subs := []Subscription{}
	err := r.db.SelectContext(ctx, &subs, `
		SELECT id, external_id, user_id, plan, status, valid_from, valid_until, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1
		  AND status = 'active'
		  AND valid_from <= NOW()
		  AND valid_until >= NOW()
		ORDER BY created_at DESC
	`, userID)
	return subs, err
}

func (r *repository) CreditsFor(ctx context.Context, subscriptionID int) ([]CreditLine, error) {
	lines := []CreditLine{}
	err := r.db.SelectContext(ctx, &lines, `
		SELECT subscription_id, product_kind, product_credits, product_credits_used
		FROM subscription_credits
		WHERE subscription_id = $1
		ORDER BY product_kind
	`, subscriptionID)
	return lines, err
}
