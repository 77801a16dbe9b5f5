package order

import (
	"errors"
	"fmt"
	"testing"

	"passhub/internal/product"

	"github.com/stretchr/testify/assert"
)

func TestDuplicateOrderError_LegacyMessages(t *testing.T) {
	assert.Equal(t, "user already has a confirmed order for this video",
		DuplicateOrderError(product.KindVideo).Error())
	assert.Equal(t, "user already has a confirmed order for this session",
		DuplicateOrderError(product.KindSession).Error())
	assert.Equal(t, "user already has a confirmed order for this pass",
		ErrDuplicatePassOrder.Error())
}

func TestIsUnapproved(t *testing.T) {
	assert.True(t, IsUnapproved(ErrUnapprovedUser))
	assert.True(t, IsUnapproved(fmt.Errorf("create order: %w", ErrUnapprovedUser)))
	assert.False(t, IsUnapproved(DuplicateOrderError(product.KindVideo)))
	assert.False(t, IsUnapproved(errors.New("boom")))
}

func TestCodeOf(t *testing.T) {
	code, ok := CodeOf(DuplicateOrderError(product.KindSession))
	assert.True(t, ok)
	assert.Equal(t, CodeDuplicateProductOrder, code)

	_, ok = CodeOf(errors.New("plain"))
	assert.False(t, ok)
}
