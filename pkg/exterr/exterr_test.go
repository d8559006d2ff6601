package exterr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	assert.Equal(t, "RETRY_FAILED: operation failed", New(CodeRetryFailed, "operation failed", nil).Error())
	assert.Equal(t, "UNKNOWN", New(CodeUnknown, "", nil).Error())
}

func TestError_UnwrapAndIs(t *testing.T) {
	cause := errors.New("boom")
	err := New(CodeRetryFailed, "operation failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, &Error{Code: CodeRetryFailed})
	assert.NotErrorIs(t, err, &Error{Code: CodeInvalidPath})

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, HasCode(wrapped, CodeRetryFailed))
	assert.Equal(t, CodeRetryFailed, Code(wrapped))
}

func TestError_UnwrapNonErrorDetails(t *testing.T) {
	err := New(CodeInvalidConfig, "bad", map[string]string{"field": "command"})
	assert.Nil(t, err.Unwrap())
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(CodeUnknown, nil))

	cause := errors.New("disk gone")
	err := Wrap(CodeInvalidPath, cause)
	require.NotNil(t, err)
	assert.Equal(t, "disk gone", err.Message)
	assert.Equal(t, CodeInvalidPath, err.Code)
	assert.Same(t, cause, err.Details)
}

func TestSafe(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantSame bool
	}{
		{name: "nil stays nil", err: nil},
		{name: "plain error is wrapped", err: errors.New("test error"), wantCode: "TEST_ERROR"},
		{name: "coded error passes through", err: New(CodeMissingEnvVar, "x", nil), wantCode: CodeMissingEnvVar, wantSame: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Safe(tt.err, "TEST_ERROR")
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tt.wantCode, Code(got))
			if tt.wantSame {
				assert.Same(t, tt.err, got)
			}
		})
	}
}

func TestCode_NotCoded(t *testing.T) {
	assert.Equal(t, "", Code(errors.New("plain")))
	assert.False(t, HasCode(errors.New("plain"), CodeUnknown))
}
