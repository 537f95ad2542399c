package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsFindsTypedErrorInChain(t *testing.T) {
	t.Parallel()

	base := New(CodeRejected, "invalid email").WithStatus(http.StatusBadRequest)
	wrapped := fmt.Errorf("submitting order: %w", base)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeRejected, typed.Code())
	assert.Equal(t, http.StatusBadRequest, typed.Status())
}

func TestAsReturnsNilForPlainError(t *testing.T) {
	t.Parallel()

	assert.Nil(t, As(fmt.Errorf("plain")))
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("connection refused")
	err := Wrap(CodeTransport, cause, "posting submission")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "posting submission: connection refused", err.Error())
}

func TestIsCode(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("load: %w", New(CodeAuthExpired, "session expired"))
	assert.True(t, IsCode(err, CodeAuthExpired))
	assert.False(t, IsCode(err, CodeTransport))
	assert.False(t, IsCode(nil, CodeTransport))
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("NO_SUCH_CODE"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestDumpCollectsChain(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("outer: %w", New(CodeNotConfigured, "database endpoint not configured"))
	d := Dump(err)

	assert.Equal(t, CodeNotConfigured, d.Code)
	assert.Len(t, d.Chain, 2)
	assert.Contains(t, d.TopMessage, "database endpoint not configured")
}
