package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs(t *testing.T) {
	wrapped := fmt.Errorf("delete account: %w", AlreadyDeleting)
	assert.True(t, Is(wrapped, AlreadyDeleting))
	assert.False(t, Is(wrapped, UserNotFound))
	assert.False(t, Is(errors.New("plain"), InvalidUser))
	assert.False(t, Is(nil, InvalidUser))
	assert.False(t, Is(wrapped, nil))

	// SetMsg keeps the code
	assert.True(t, Is(InvalidUser.SetMsg("uid=-5"), InvalidUser))
	assert.Equal(t, "30001:uid=-5", InvalidUser.SetMsg("uid=-5").Error())
	assert.Equal(t, "invalid user id", InvalidUser.Msg())
}

func TestWrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := GuardUnavailable.Wrap(cause)

	assert.True(t, Is(err, GuardUnavailable))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "30004:deletion guard unavailable: dial tcp: connection refused", err.Error())
	assert.ErrorIs(t, err.SetMsg("uid 42"), cause)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, int32(30003), CodeOf(fmt.Errorf("x: %w", UserNotFound)))
	assert.Equal(t, int32(0), CodeOf(errors.New("plain")))
	assert.Equal(t, int32(0), CodeOf(nil))
}
