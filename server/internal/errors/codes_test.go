package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoutingError_Error(t *testing.T) {
	plain := InvalidModule("warehouse")
	assert.Equal(t, "[INVALID_MODULE] unknown module: warehouse", plain.Error())

	cause := stderrors.New("disk full")
	wrapped := StoreUnavailable("insert failed", cause)
	assert.Equal(t, "[STORE_UNAVAILABLE] insert failed: disk full", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestIsCode(t *testing.T) {
	err := Timeout("classification took too long")
	assert.True(t, IsCode(err, ErrCodeTimeout))
	assert.False(t, IsCode(err, ErrCodeInternal))
	assert.False(t, IsCode(stderrors.New("plain"), ErrCodeTimeout))
}

func TestGetCodeFromError(t *testing.T) {
	assert.Equal(t, ErrCodeRateLimitExceeded, GetCodeFromError(RateLimitExceeded("slow down"), ErrCodeInternal))
	assert.Equal(t, ErrCodeInternal, GetCodeFromError(stderrors.New("plain"), ErrCodeInternal))
}

func TestWithContext(t *testing.T) {
	err := InvalidArgument("message is required").
		WithContext("field", "message").
		WithContext("conversation_id", "conv-1")
	assert.Equal(t, "message", err.Context["field"])
	assert.Equal(t, "conv-1", err.Context["conversation_id"])
}
