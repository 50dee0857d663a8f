package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_WrapAndTraceCarriesLocation(t *testing.T) {
	err := New("my error")
	wrapped := WrapAndTrace(err)

	assert.True(t, Is(wrapped, err))
	assert.Contains(t, wrapped.Error(), "[error]")
	assert.Contains(t, wrapped.Error(), "errors_test.go")
}

func Test_WrapAndTraceExtraMessages(t *testing.T) {
	err := New("my error")
	wrapped := WrapAndTrace(err, "while loading", "config")

	assert.Contains(t, wrapped.Error(), "while loading config")
}

func Test_InvalidRequestError(t *testing.T) {
	err := NewInvalidRequestError("missing required field: host")
	assert.Equal(t, "missing required field: host", err.Error())

	wrapped := Wrap(err, "dispatch")
	target := &InvalidRequestError{}
	assert.True(t, As(wrapped, &target))
	assert.Equal(t, err.Message, target.Message)
}

func Test_MethodNotFoundError(t *testing.T) {
	var err error = &MethodNotFoundError{Method: "reboot-host"}
	assert.Equal(t, "method not found: reboot-host", err.Error())

	target := &MethodNotFoundError{}
	assert.True(t, As(err, &target))
	assert.Equal(t, "reboot-host", target.Method)
}

func Test_ExecutionFailedErrorUnwraps(t *testing.T) {
	cause := New("connection refused")
	var err error = &ExecutionFailedError{Message: "failed to execute ssh", Err: cause}

	assert.Equal(t, "failed to execute ssh: connection refused", err.Error())
	assert.True(t, Is(err, cause))

	bare := &ExecutionFailedError{Message: "scp upload failed"}
	assert.Equal(t, "scp upload failed", bare.Error())
	assert.Nil(t, Unwrap(bare))
}

func Test_TimeoutError(t *testing.T) {
	var err error = &TimeoutError{Seconds: 30}
	assert.Equal(t, "command timed out after 30 seconds", err.Error())

	target := &TimeoutError{}
	assert.True(t, As(err, &target))
	assert.Equal(t, 30, target.Seconds)
}

func Test_TaxonomyTypesAreDistinct(t *testing.T) {
	var timeout error = &TimeoutError{Seconds: 5}
	execTarget := &ExecutionFailedError{}
	assert.False(t, As(timeout, &execTarget))

	var invalid error = NewInvalidRequestError("bad")
	notFoundTarget := &MethodNotFoundError{}
	assert.False(t, As(invalid, &notFoundTarget))
}

func Test_MakeErrorMessageFormat(t *testing.T) {
	msg := MakeErrorMessage("boom")
	assert.True(t, strings.HasPrefix(msg, "[error] "))
	assert.True(t, strings.HasSuffix(msg, "\n\t"))
}
