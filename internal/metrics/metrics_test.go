package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCheckout(t *testing.T) {
	before := testutil.ToFloat64(CheckoutsTotal.WithLabelValues("SUBSCRIPTION", "completed"))
	RecordCheckout("SUBSCRIPTION", "completed")
	after := testutil.ToFloat64(CheckoutsTotal.WithLabelValues("SUBSCRIPTION", "completed"))
	assert.Equal(t, before+1, after)
}

func TestRecordFollowUpBooking(t *testing.T) {
	before := testutil.ToFloat64(FollowUpBookingsTotal)
	RecordFollowUpBooking()
	RecordFollowUpBooking()
	assert.Equal(t, before+2, testutil.ToFloat64(FollowUpBookingsTotal))
}

func TestRecordNotice(t *testing.T) {
	before := testutil.ToFloat64(NoticesTotal.WithLabelValues("buy_pass_and_book_session"))
	RecordNotice("buy_pass_and_book_session")
	assert.Equal(t, before+1, testutil.ToFloat64(NoticesTotal.WithLabelValues("buy_pass_and_book_session")))
}
