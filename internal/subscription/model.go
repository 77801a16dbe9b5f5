package subscription

import (
	"time"

	"passhub/internal/product"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

type Subscription struct {
	ID         int       `db:"id" json:"id"`
	ExternalID string    `db:"external_id" json:"subscription_order_id"`
	UserID     int       `db:"user_id" json:"user_id"`
	Plan       string    `db:"plan" json:"plan"`
	Status     Status    `db:"status" json:"status"`
	ValidFrom  time.Time `db:"valid_from" json:"valid_from"`
	ValidUntil time.Time `db:"valid_until" json:"valid_until"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// CreditLine is the per-product-type credit allowance of a subscription.
type CreditLine struct {
	SubscriptionID     int          `db:"subscription_id" json:"-"`
	ProductKind        product.Kind `db:"product_kind" json:"product_kind"`
	ProductCredits     int          `db:"product_credits" json:"product_credits"`
	ProductCreditsUsed int          `db:"product_credits_used" json:"product_credits_used"`
}

func (c CreditLine) Exhausted() bool {
	return c.ProductCreditsUsed >= c.ProductCredits
}

// UsableSubscription is a subscription confirmed usable for a specific product.
type UsableSubscription struct {
	Subscription
	CreditLine
}

type CreateSubscriptionRequest struct {
	Plan       string   `json:"plan" binding:"required"`
	ProductIDs []string `json:"product_ids" binding:"required,min=1"`
}

type CreateSubscriptionResponse struct {
	Subscription *Subscription `json:"subscription"`
	Credits      []CreditLine  `json:"credits"`
}
