package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "code and message",
			err:  NewError(ErrDescriptor, "union has no alternatives"),
			want: "[DESCRIPTOR] union has no alternatives",
		},
		{
			name: "with field",
			err:  NewError(ErrTypeCoercion, "not an integer").WithField("response.count"),
			want: "[TYPE_COERCION] response.count: not an integer",
		},
		{
			name: "with cause",
			err:  NewError(ErrTypeCoercion, "bad float").WithCause(errors.New("boom")),
			want: "[TYPE_COERCION] bad float: boom",
		},
		{
			name: "with field and cause",
			err:  NewError(ErrTypeCoercion, "bad float").WithField("score").WithCause(errors.New("boom")),
			want: "[TYPE_COERCION] score: bad float: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_UnwrapAndCodes(t *testing.T) {
	t.Parallel()

	cause := errors.New("strconv failure")
	err := NewError(ErrTypeCoercion, "bad int").WithCause(cause)

	require.ErrorIs(t, err, cause)
	assert.True(t, IsErrorCode(err, ErrTypeCoercion))
	assert.False(t, IsErrorCode(err, ErrDescriptor))
	assert.Equal(t, ErrTypeCoercion, GetErrorCode(err))

	wrapped := fmt.Errorf("parse failed: %w", err)
	assert.True(t, IsErrorCode(wrapped, ErrTypeCoercion))
	assert.Equal(t, ErrTypeCoercion, GetErrorCode(wrapped))

	assert.Equal(t, ErrorCode(""), GetErrorCode(errors.New("plain")))
	assert.False(t, IsErrorCode(nil, ErrTypeCoercion))
}
