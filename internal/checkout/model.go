package checkout

import (
	"passhub/internal/order"
	"passhub/internal/pass"
	"passhub/internal/subscription"
)

// Inventory is the buyer's usable instruments for one product.
type Inventory struct {
	Passes       []pass.OwnedPass                 `json:"passes"`
	Subscription *subscription.UsableSubscription `json:"subscription,omitempty"`
}

// CheckoutRequest is the checkout body. Instrument picks the explicit
// selection; pass_order_id accompanies OWNED_PASS and pass_id accompanies
// PASS_TO_BUY. Omitting the instrument lets the selector apply its defaults.
type CheckoutRequest struct {
	Instrument       ChoiceKind `json:"instrument,omitempty"`
	PassOrderID      string     `json:"pass_order_id,omitempty"`
	PassID           string     `json:"pass_id,omitempty"`
	CouponCode       string     `json:"coupon_code,omitempty"`
	AmountCents      *int64     `json:"amount_cents,omitempty"`
	TimezoneLocation string     `json:"user_timezone_location,omitempty"`
}

// Result is the terminal outcome of a checkout attempt. PaymentOrderID and
// PaymentOrderType are set only when payment collection is still pending and
// hand the attempt off to the external payment flow.
type Result struct {
	State             State                      `json:"state"`
	IsSuccessfulOrder bool                       `json:"is_successful_order"`
	Instrument        InstrumentKind             `json:"instrument,omitempty"`
	PaymentRequired   bool                       `json:"payment_required"`
	OrderID           string                     `json:"order_id,omitempty"`
	PassOrderID       string                     `json:"pass_order_id,omitempty"`
	PaymentOrderID    string                     `json:"payment_order_id,omitempty"`
	PaymentOrderType  string                     `json:"payment_order_type,omitempty"`
	Notice            Notice                     `json:"notice,omitempty"`
	Failure           *Failure                   `json:"failure,omitempty"`
	FollowUp          *order.FollowUpBookingInfo `json:"follow_up_booking_info,omitempty"`

	// PassPurchase is what the payment flow charges when a pass order is
	// pending; set only for paid buy-pass-then-redeem attempts.
	PassPurchase *PassPurchasePayload `json:"pass_purchase,omitempty"`
}
