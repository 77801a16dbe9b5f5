package pass

import "time"

type OwnedPassStatus string

const (
	StatusPendingPayment OwnedPassStatus = "pending_payment"
	StatusConfirmed      OwnedPassStatus = "confirmed"
)

// Pass is a creator-defined credit bundle available for purchase.
type Pass struct {
	ID           int       `db:"id" json:"id"`
	ExternalID   string    `db:"external_id" json:"external_id"`
	CreatorID    int       `db:"creator_id" json:"creator_id"`
	Name         string    `db:"name" json:"name"`
	PriceCents   int64     `db:"price_cents" json:"price_cents"`
	Currency     string    `db:"currency" json:"currency"`
	ClassCount   int       `db:"class_count" json:"class_count"`
	Limited      bool      `db:"limited" json:"limited"`
	ValidityDays int       `db:"validity_days" json:"validity_days"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`

	// External ids of products the pass can be redeemed against.
	ProductIDs []string `json:"product_ids,omitempty"`
}

// OwnedPass is a pass purchased by a user, tracked by its pass order.
type OwnedPass struct {
	ID               int             `db:"id" json:"id"`
	PassOrderID      string          `db:"external_id" json:"pass_order_id"`
	PassID           int             `db:"pass_id" json:"pass_id"`
	UserID           int             `db:"user_id" json:"user_id"`
	Status           OwnedPassStatus `db:"status" json:"status"`
	ClassesRemaining int             `db:"classes_remaining" json:"classes_remaining"`
	ExpiresAt        *time.Time      `db:"expires_at" json:"expires_at,omitempty"`
	FollowUpProduct  *int            `db:"follow_up_product_id" json:"-"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`

	PassName   string `db:"pass_name" json:"pass_name"`
	ClassCount int    `db:"class_count" json:"class_count"`
	Limited    bool   `db:"limited" json:"limited"`
}

type CreatePassRequest struct {
	Name         string   `json:"name" binding:"required"`
	PriceCents   int64    `json:"price_cents" binding:"min=0"`
	Currency     string   `json:"currency"`
	ClassCount   int      `json:"class_count" binding:"min=0"`
	Limited      bool     `json:"limited"`
	ValidityDays int      `json:"validity_days" binding:"min=1"`
	ProductIDs   []string `json:"product_ids" binding:"required,min=1"`
}
