package checkout

import (
	"strings"

	"passhub/internal/order"
	"passhub/internal/pass"
	"passhub/internal/product"
)

// OrderPayload is the create-order request body. Shape varies by instrument:
// gateway orders carry timezone, coupon and (for pay-what-you-want products)
// an explicit amount; pass and subscription orders carry the source id of the
// instrument paying for them.
type OrderPayload struct {
	ProductID        string              `json:"product_id"`
	PaymentSource    order.PaymentSource `json:"payment_source"`
	SourceID         string              `json:"source_id,omitempty"`
	TimezoneLocation string              `json:"user_timezone_location,omitempty"`
	CouponCode       string              `json:"coupon_code,omitempty"`
	AmountCents      *int64              `json:"amount,omitempty"`
	Currency         string              `json:"currency,omitempty"`
}

// PassPurchasePayload is step A of a buy-pass-then-redeem checkout.
type PassPurchasePayload struct {
	PassID     string `json:"pass_id"`
	PriceCents int64  `json:"price"`
	Currency   string `json:"currency"`
	CouponCode string `json:"coupon_code,omitempty"`
}

// PayloadOptions carries the buyer-provided extras that only some payloads use.
type PayloadOptions struct {
	CouponCode       string
	TimezoneLocation string
	AmountCents      *int64 // pay-what-you-want amount, when offered
}

// BuildOrderPayload constructs the order body for the selected instrument.
// Currency is always lower-cased on the wire; everything else keeps its
// original casing. For buy-pass-then-redeem this builds step B — the redeem
// call issued with the freshly bought pass order as source — so the caller
// must fill Selection.OwnedPass with the new pass order first.
func BuildOrderPayload(p *product.Product, sel Selection, opts PayloadOptions) OrderPayload {
	switch sel.Kind {
	case InstrumentSubscription:
		return OrderPayload{
			ProductID:     p.ExternalID,
			PaymentSource: order.SourceSubscription,
			SourceID:      sel.Subscription.Subscription.ExternalID,
		}
	case InstrumentOwnedPass, InstrumentBuyPassThenRedeem:
		return OrderPayload{
			ProductID:        p.ExternalID,
			PaymentSource:    order.SourcePass,
			SourceID:         sel.OwnedPass.PassOrderID,
			TimezoneLocation: opts.TimezoneLocation,
		}
	default:
		payload := OrderPayload{
			ProductID:        p.ExternalID,
			PaymentSource:    order.SourceGateway,
			TimezoneLocation: opts.TimezoneLocation,
			CouponCode:       opts.CouponCode,
			Currency:         strings.ToLower(p.Currency),
		}
		if p.PayWhatYouWant {
			payload.AmountCents = opts.AmountCents
		}
		return payload
	}
}

// BuildPassPurchasePayload constructs step A of buy-pass-then-redeem.
func BuildPassPurchasePayload(ps *pass.Pass, couponCode string) PassPurchasePayload {
	return PassPurchasePayload{
		PassID:     ps.ExternalID,
		PriceCents: ps.PriceCents,
		Currency:   strings.ToLower(ps.Currency),
		CouponCode: couponCode,
	}
}
