package checkout

import (
	"errors"
	"fmt"
	"testing"

	"passhub/internal/order"
	"passhub/internal/pass"
	"passhub/internal/product"

	"github.com/stretchr/testify/assert"
)

func TestSuccessNotice_EveryCombinationMapped(t *testing.T) {
	kinds := []product.Kind{product.KindSession, product.KindVideo, product.KindCourse}
	instruments := []InstrumentKind{InstrumentDirect, InstrumentOwnedPass, InstrumentSubscription, InstrumentBuyPassThenRedeem}

	seen := map[Notice]bool{}
	for _, k := range kinds {
		for _, in := range instruments {
			notice := SuccessNotice(k, Selection{Kind: in})
			assert.NotEmpty(t, notice, "no notice for %s/%s", k, in)
			assert.False(t, seen[notice], "notice %s mapped twice", notice)
			seen[notice] = true
		}
	}
}

func TestSuccessNotice_Lookup(t *testing.T) {
	assert.Equal(t, NoticeVideoWithSubscription, SuccessNotice(product.KindVideo, Selection{Kind: InstrumentSubscription}))
	assert.Equal(t, NoticeSessionWithPass, SuccessNotice(product.KindSession, Selection{Kind: InstrumentOwnedPass}))
	assert.Equal(t, NoticeBuyPassAndBookSession, SuccessNotice(product.KindSession, Selection{Kind: InstrumentBuyPassThenRedeem}))
	assert.Equal(t, NoticeBuyVideo, SuccessNotice(product.KindVideo, Selection{Kind: InstrumentDirect}))
}

func TestSuccessNotice_FreeWithSelectedPassOverrides(t *testing.T) {
	sel := Selection{Kind: InstrumentDirect, FreeWithSelectedPass: true}

	assert.Equal(t, NoticeGotItFree, SuccessNotice(product.KindVideo, sel))
	assert.Equal(t, NoticeGotItFree, SuccessNotice(product.KindSession, sel))
}

func TestClassifyFailure_LegacyMessagesRouteToAlreadyBooked(t *testing.T) {
	f := ClassifyFailure(errors.New("user already has a confirmed order for this video"))
	assert.Equal(t, ErrorAlreadyBookedProduct, f.Kind)
	assert.Equal(t, "user already has a confirmed order for this video", f.Message)

	f = ClassifyFailure(errors.New("user already has a confirmed order for this session"))
	assert.Equal(t, ErrorAlreadyBookedProduct, f.Kind)

	f = ClassifyFailure(errors.New("user already has a confirmed order for this pass"))
	assert.Equal(t, ErrorAlreadyBookedPass, f.Kind)
}

func TestClassifyFailure_CodedErrors(t *testing.T) {
	f := ClassifyFailure(order.DuplicateOrderError(product.KindVideo))
	assert.Equal(t, ErrorAlreadyBookedProduct, f.Kind)

	f = ClassifyFailure(order.ErrDuplicatePassOrder)
	assert.Equal(t, ErrorAlreadyBookedPass, f.Kind)

	f = ClassifyFailure(fmt.Errorf("checkout: %w", order.ErrUnapprovedUser))
	assert.Equal(t, ErrorSuppressed, f.Kind)
	assert.Empty(t, f.Message)
}

func TestClassifyFailure_ExhaustedInstruments(t *testing.T) {
	f := ClassifyFailure(pass.ErrNoCreditsLeft)
	assert.Equal(t, ErrorInsufficientCredit, f.Kind)
}

func TestClassifyFailure_GenericKeepsServerMessage(t *testing.T) {
	f := ClassifyFailure(errors.New("gateway timeout"))
	assert.Equal(t, ErrorGeneric, f.Kind)
	assert.Equal(t, "gateway timeout", f.Message)

	f = ClassifyFailure(nil)
	assert.Equal(t, ErrorGeneric, f.Kind)
	assert.Equal(t, "something went wrong, please try again", f.Message)
}
