package derrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(cause, CodeUnavailable, "storage unreachable")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "service_unavailable")
	assert.Contains(t, err.Error(), "storage unreachable")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestHasCode(t *testing.T) {
	inner := New(CodeNotFound, "no such record")
	outer := Wrap(inner, CodeUnavailable, "lookup failed")

	assert.True(t, HasCode(outer, CodeUnavailable))
	assert.True(t, HasCode(outer, CodeNotFound), "inner codes are visible through the chain")
	assert.False(t, HasCode(outer, CodeConflict))
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))

	// A coded error surviving a plain fmt wrap is still found.
	wrapped := fmt.Errorf("handling request: %w", inner)
	assert.True(t, HasCode(wrapped, CodeNotFound))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeConflict, CodeOf(New(CodeConflict, "taken")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("uncoded")))

	outer := Wrap(New(CodeNotFound, "gone"), CodeUnavailable, "lookup failed")
	assert.Equal(t, CodeUnavailable, CodeOf(outer), "outermost code wins")
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:   http.StatusBadRequest,
		CodeInvalidInput: http.StatusBadRequest,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeForbidden:    http.StatusForbidden,
		CodeNotFound:     http.StatusNotFound,
		CodeConflict:     http.StatusConflict,
		CodeUnavailable:  http.StatusServiceUnavailable,
		CodeInternal:     http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), string(code))
	}
}
