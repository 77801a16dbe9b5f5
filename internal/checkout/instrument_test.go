package checkout

import (
	"testing"

	"passhub/internal/pass"
	"passhub/internal/subscription"

	"github.com/stretchr/testify/assert"
)

func usableSub(creditsUsed, credits int) *subscription.UsableSubscription {
	return &subscription.UsableSubscription{
		Subscription: subscription.Subscription{ID: 1, ExternalID: "sub-1", Status: subscription.StatusActive},
		CreditLine:   subscription.CreditLine{ProductCredits: credits, ProductCreditsUsed: creditsUsed},
	}
}

func ownedPass(orderID string) pass.OwnedPass {
	return pass.OwnedPass{PassOrderID: orderID, Status: pass.StatusConfirmed, ClassesRemaining: 3}
}

func TestSelectInstrument_FreeNeverSpendsCredit(t *testing.T) {
	passes := []pass.OwnedPass{ownedPass("po-1")}

	tests := []struct {
		name   string
		choice Choice
	}{
		{"no selection", Choice{Kind: ChoiceNone}},
		{"owned pass selected", Choice{Kind: ChoiceOwnedPass, OwnedPass: &passes[0]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := SelectInstrument(usableSub(0, 5), passes, tt.choice, 0)
			assert.Equal(t, InstrumentDirect, sel.Kind)
			assert.Nil(t, sel.OwnedPass)
			assert.Nil(t, sel.Subscription)
		})
	}
}

func TestSelectInstrument_FreeProductStillBuysSelectedPass(t *testing.T) {
	passes := []pass.OwnedPass{ownedPass("po-1")}
	toBuy := &pass.Pass{ID: 2, ExternalID: "pass-2", PriceCents: 2000}

	sel := SelectInstrument(usableSub(0, 5), passes, Choice{Kind: ChoicePassToBuy, PassToBuy: toBuy}, 0)

	assert.Equal(t, InstrumentBuyPassThenRedeem, sel.Kind)
	assert.Equal(t, "pass-2", sel.PassToBuy.ExternalID)
	assert.False(t, sel.FreeWithSelectedPass)
}

func TestSelectInstrument_FreeWithSelectedPassFlagged(t *testing.T) {
	passes := []pass.OwnedPass{ownedPass("po-1")}

	sel := SelectInstrument(nil, passes, Choice{Kind: ChoiceOwnedPass, OwnedPass: &passes[0]}, 0)

	assert.Equal(t, InstrumentDirect, sel.Kind)
	assert.True(t, sel.FreeWithSelectedPass)

	sel = SelectInstrument(nil, nil, Choice{Kind: ChoiceNone}, 0)
	assert.False(t, sel.FreeWithSelectedPass)
}

func TestSelectInstrument_SubscriptionWinsOverEverything(t *testing.T) {
	sub := usableSub(3, 5)
	passes := []pass.OwnedPass{ownedPass("po-1")}
	toBuy := &pass.Pass{ID: 2, ExternalID: "pass-2"}

	sel := SelectInstrument(sub, passes, Choice{Kind: ChoicePassToBuy, PassToBuy: toBuy}, 1000)

	assert.Equal(t, InstrumentSubscription, sel.Kind)
	assert.Equal(t, "sub-1", sel.Subscription.Subscription.ExternalID)
}

func TestSelectInstrument_OwnedPassBeatsPassToBuy(t *testing.T) {
	passes := []pass.OwnedPass{ownedPass("po-1"), ownedPass("po-2")}

	sel := SelectInstrument(nil, passes, Choice{Kind: ChoiceOwnedPass, OwnedPass: &passes[1]}, 500)

	assert.Equal(t, InstrumentOwnedPass, sel.Kind)
	assert.Equal(t, "po-2", sel.OwnedPass.PassOrderID)
}

func TestSelectInstrument_FirstOwnedPassIsDefault(t *testing.T) {
	passes := []pass.OwnedPass{ownedPass("po-1"), ownedPass("po-2")}

	sel := SelectInstrument(nil, passes, Choice{Kind: ChoiceNone}, 500)

	assert.Equal(t, InstrumentOwnedPass, sel.Kind)
	assert.Equal(t, "po-1", sel.OwnedPass.PassOrderID)
}

func TestSelectInstrument_PassToBuyOverridesOwnedDefault(t *testing.T) {
	passes := []pass.OwnedPass{ownedPass("po-1")}
	toBuy := &pass.Pass{ID: 2, ExternalID: "pass-2"}

	sel := SelectInstrument(nil, passes, Choice{Kind: ChoicePassToBuy, PassToBuy: toBuy}, 500)

	assert.Equal(t, InstrumentBuyPassThenRedeem, sel.Kind)
	assert.Equal(t, "pass-2", sel.PassToBuy.ExternalID)
}

func TestSelectInstrument_NothingAvailableGoesDirect(t *testing.T) {
	sel := SelectInstrument(nil, nil, Choice{Kind: ChoiceNone}, 500)

	assert.Equal(t, InstrumentDirect, sel.Kind)
	assert.False(t, sel.FreeWithSelectedPass)
}
