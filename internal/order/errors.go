package order

import (
	"errors"

	"passhub/internal/product"
)

// Code is a stable, machine-readable order error classification. The
// human-readable messages below are part of the upstream contract and must
// not change.
type Code string

const (
	CodeDuplicateProductOrder Code = "duplicate_product_order"
	CodeDuplicatePassOrder    Code = "duplicate_pass_order"
	CodeUnapprovedUser        Code = "unapproved_user"
	CodeInsufficientCredit    Code = "insufficient_credit"
)

type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

var ErrUnapprovedUser = &Error{
	Code:    CodeUnapprovedUser,
	Message: "user is pending approval",
}

var ErrDuplicatePassOrder = &Error{
	Code:    CodeDuplicatePassOrder,
	Message: "user already has a confirmed order for this pass",
}

// DuplicateOrderError builds the duplicate error for a product kind, keeping
// the exact legacy wording per kind.
func DuplicateOrderError(kind product.Kind) *Error {
	return &Error{
		Code:    CodeDuplicateProductOrder,
		Message: "user already has a confirmed order for this " + kind.Noun(),
	}
}

// IsUnapproved reports whether the error is the suppressed unapproved-user
// condition.
func IsUnapproved(err error) bool {
	var oerr *Error
	if errors.As(err, &oerr) {
		return oerr.Code == CodeUnapprovedUser
	}
	return false
}

// CodeOf extracts the stable code from an error, if it carries one.
func CodeOf(err error) (Code, bool) {
	var oerr *Error
	if errors.As(err, &oerr) {
		return oerr.Code, true
	}
	return "", false
}
