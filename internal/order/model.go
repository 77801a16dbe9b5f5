package order

import (
	"time"

	"passhub/internal/product"
)

type PaymentSource string

const (
	SourceGateway      PaymentSource = "GATEWAY"
	SourcePass         PaymentSource = "PASS"
	SourceSubscription PaymentSource = "SUBSCRIPTION"
)

type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusConfirmed      Status = "confirmed"
)

type Order struct {
	ID               int           `db:"id" json:"id"`
	ExternalID       string        `db:"external_id" json:"order_id"`
	UserID           int           `db:"user_id" json:"user_id"`
	ProductID        int           `db:"product_id" json:"product_id"`
	PaymentSource    PaymentSource `db:"payment_source" json:"payment_source"`
	SourceID         *string       `db:"source_id" json:"source_id,omitempty"`
	Status           Status        `db:"status" json:"status"`
	AmountCents      int64         `db:"amount_cents" json:"amount_cents"`
	Currency         string        `db:"currency" json:"currency"`
	CouponCode       *string       `db:"coupon_code" json:"coupon_code,omitempty"`
	TimezoneLocation *string       `db:"user_timezone_location" json:"user_timezone_location,omitempty"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
}

// FollowUpBookingInfo describes the dependent booking a pass purchase must
// trigger once the pass itself is paid for.
type FollowUpBookingInfo struct {
	ProductType product.Kind `json:"product_type"`
	ProductID   string       `json:"product_id"`
}

type CreateParams struct {
	UserID           int
	ProductID        int
	ProductKind      product.Kind
	PaymentSource    PaymentSource
	SourceID         *string
	Status           Status
	AmountCents      int64
	Currency         string
	CouponCode       *string
	TimezoneLocation *string
}
