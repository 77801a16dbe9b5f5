package checkout

import (
	"passhub/internal/pass"
	"passhub/internal/subscription"
)

// InstrumentKind is the payment method a checkout attempt resolves to.
type InstrumentKind string

const (
	InstrumentDirect            InstrumentKind = "DIRECT"
	InstrumentOwnedPass         InstrumentKind = "OWNED_PASS"
	InstrumentSubscription      InstrumentKind = "SUBSCRIPTION"
	InstrumentBuyPassThenRedeem InstrumentKind = "BUY_PASS_THEN_REDEEM"
)

// ChoiceKind is the buyer's explicit instrument selection. At most one of the
// two pass selections can be active; the single discriminator makes holding an
// owned pass and a pass-to-buy at the same time impossible.
type ChoiceKind string

const (
	ChoiceNone      ChoiceKind = "NONE"
	ChoiceOwnedPass ChoiceKind = "OWNED_PASS"
	ChoicePassToBuy ChoiceKind = "PASS_TO_BUY"
)

// Choice is the buyer's selection, resolved against loaded inventory. OwnedPass
// is set only when Kind is OWNED_PASS, PassToBuy only when Kind is PASS_TO_BUY.
type Choice struct {
	Kind      ChoiceKind
	OwnedPass *pass.OwnedPass
	PassToBuy *pass.Pass
}

// Selection is the resolved instrument for one checkout attempt.
type Selection struct {
	Kind         InstrumentKind
	Subscription *subscription.UsableSubscription
	OwnedPass    *pass.OwnedPass
	PassToBuy    *pass.Pass

	// FreeWithSelectedPass marks the free-item edge case: the buyer had an
	// owned pass selected but the product costs nothing, so no credit is
	// spent and a dedicated notice replaces the pass-redemption one.
	FreeWithSelectedPass bool
}

// SelectInstrument decides which instrument pays for the product. The order of
// the checks is load-bearing: subscription beats an owned pass, an owned pass
// beats buying a new one, and anything free short-circuits to direct payment
// without spending a credit. A deliberate pass purchase is the one exception
// to the free short-circuit: the buyer is buying the pass itself, so the
// purchase still runs even when the product costs nothing. When no pass is
// explicitly selected the first usable owned pass is the default.
func SelectInstrument(sub *subscription.UsableSubscription, ownedPasses []pass.OwnedPass, choice Choice, priceCents int64) Selection {
	if priceCents <= 0 {
		if choice.Kind == ChoicePassToBuy && choice.PassToBuy != nil {
			return Selection{Kind: InstrumentBuyPassThenRedeem, PassToBuy: choice.PassToBuy}
		}
		return Selection{
			Kind:                 InstrumentDirect,
			FreeWithSelectedPass: choice.Kind == ChoiceOwnedPass,
		}
	}

	if sub != nil {
		return Selection{Kind: InstrumentSubscription, Subscription: sub}
	}

	if choice.Kind == ChoiceOwnedPass && choice.OwnedPass != nil {
		return Selection{Kind: InstrumentOwnedPass, OwnedPass: choice.OwnedPass}
	}
	if choice.Kind == ChoiceNone && len(ownedPasses) > 0 {
		return Selection{Kind: InstrumentOwnedPass, OwnedPass: &ownedPasses[0]}
	}

	if choice.Kind == ChoicePassToBuy && choice.PassToBuy != nil {
		return Selection{Kind: InstrumentBuyPassThenRedeem, PassToBuy: choice.PassToBuy}
	}

	return Selection{Kind: InstrumentDirect}
}
