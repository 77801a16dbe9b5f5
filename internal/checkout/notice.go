package checkout

import (
	"errors"

	"passhub/internal/order"
	"passhub/internal/pass"
	"passhub/internal/product"
	"passhub/internal/subscription"
)

// Notice names the post-purchase message shown to the buyer. Exactly one
// notice exists per (product kind, instrument) combination reachable from the
// selector, plus the free-item variant when a selected pass was not consumed.
type Notice string

const (
	NoticeBuyVideo                Notice = "buy_video"
	NoticeVideoWithPass           Notice = "video_with_pass"
	NoticeVideoWithSubscription   Notice = "video_with_subscription"
	NoticeBuyPassAndGetVideo      Notice = "buy_pass_and_get_video"
	NoticeBookSession             Notice = "book_session"
	NoticeSessionWithPass         Notice = "session_with_pass"
	NoticeSessionWithSubscription Notice = "session_with_subscription"
	NoticeBuyPassAndBookSession   Notice = "buy_pass_and_book_session"
	NoticeBuyCourse               Notice = "buy_course"
	NoticeCourseWithPass          Notice = "course_with_pass"
	NoticeCourseWithSubscription  Notice = "course_with_subscription"
	NoticeBuyPassAndGetCourse     Notice = "buy_pass_and_get_course"

	// NoticeGotItFree fires when a free item was acquired while the buyer
	// had a pass selected: the item was granted without spending a credit.
	NoticeGotItFree Notice = "got_it_free_no_credit_spent"
)

var successNotices = map[product.Kind]map[InstrumentKind]Notice{
	product.KindVideo: {
		InstrumentDirect:            NoticeBuyVideo,
		InstrumentOwnedPass:         NoticeVideoWithPass,
		InstrumentSubscription:      NoticeVideoWithSubscription,
		InstrumentBuyPassThenRedeem: NoticeBuyPassAndGetVideo,
	},
	product.KindSession: {
		InstrumentDirect:            NoticeBookSession,
		InstrumentOwnedPass:         NoticeSessionWithPass,
		InstrumentSubscription:      NoticeSessionWithSubscription,
		InstrumentBuyPassThenRedeem: NoticeBuyPassAndBookSession,
	},
	product.KindCourse: {
		InstrumentDirect:            NoticeBuyCourse,
		InstrumentOwnedPass:         NoticeCourseWithPass,
		InstrumentSubscription:      NoticeCourseWithSubscription,
		InstrumentBuyPassThenRedeem: NoticeBuyPassAndGetCourse,
	},
}

// SuccessNotice maps a completed checkout to its notice. The free-item case
// with a selected pass overrides the per-instrument lookup.
func SuccessNotice(kind product.Kind, sel Selection) Notice {
	if sel.FreeWithSelectedPass {
		return NoticeGotItFree
	}
	return successNotices[kind][sel.Kind]
}

// ErrorKind classifies a failed checkout for the caller.
type ErrorKind string

const (
	ErrorAlreadyBookedProduct ErrorKind = "already_booked_product"
	ErrorAlreadyBookedPass    ErrorKind = "already_booked_pass"
	ErrorInsufficientCredit   ErrorKind = "insufficient_credit"
	ErrorSuppressed           ErrorKind = "suppressed"
	ErrorGeneric              ErrorKind = "generic"
)

// Failure is the terminal error outcome of a checkout attempt.
type Failure struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message,omitempty"`
}

const genericFailureMessage = "something went wrong, please try again"

// Exact server messages recognized when an error arrives without a stable
// code attached. Kept for compatibility with pre-code clients.
var legacyAlreadyBooked = map[string]ErrorKind{
	"user already has a confirmed order for this video":   ErrorAlreadyBookedProduct,
	"user already has a confirmed order for this session": ErrorAlreadyBookedProduct,
	"user already has a confirmed order for this course":  ErrorAlreadyBookedProduct,
	"user already has a confirmed order for this pass":    ErrorAlreadyBookedPass,
}

// ClassifyFailure routes a checkout error to its notice branch. Unapproved
// users are suppressed entirely, duplicate orders get the already-booked
// variant (product vs pass), exhausted instruments report insufficient
// credit, and everything else surfaces the server message verbatim with a
// fallback when absent.
func ClassifyFailure(err error) Failure {
	if err == nil {
		return Failure{Kind: ErrorGeneric, Message: genericFailureMessage}
	}

	if order.IsUnapproved(err) {
		return Failure{Kind: ErrorSuppressed}
	}

	if code, ok := order.CodeOf(err); ok {
		switch code {
		case order.CodeDuplicateProductOrder:
			return Failure{Kind: ErrorAlreadyBookedProduct, Message: err.Error()}
		case order.CodeDuplicatePassOrder:
			return Failure{Kind: ErrorAlreadyBookedPass, Message: err.Error()}
		case order.CodeInsufficientCredit:
			return Failure{Kind: ErrorInsufficientCredit, Message: err.Error()}
		}
	}

	if kind, ok := legacyAlreadyBooked[err.Error()]; ok {
		return Failure{Kind: kind, Message: err.Error()}
	}

	if errors.Is(err, pass.ErrNoCreditsLeft) || errors.Is(err, subscription.ErrCreditsExhausted) {
		return Failure{Kind: ErrorInsufficientCredit, Message: err.Error()}
	}

	msg := err.Error()
	if msg == "" {
		msg = genericFailureMessage
	}
	return Failure{Kind: ErrorGeneric, Message: msg}
}
