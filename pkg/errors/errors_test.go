package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataForKnownCodes(t *testing.T) {
	assert.Equal(t, http.StatusConflict, MetadataFor(CodeConflict).HTTPStatus)
	assert.Equal(t, http.StatusUnprocessableEntity, MetadataFor(CodeStateConflict).HTTPStatus)
	assert.Equal(t, http.StatusNotFound, MetadataFor(CodeNotFound).HTTPStatus)
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_ELSE"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "gateway call failed")

	require.NotNil(t, err)
	assert.Equal(t, CodeDependency, err.Code())
	assert.ErrorIs(t, err, cause)
}

func TestAsUnwrapsNestedTypedError(t *testing.T) {
	inner := New(CodeStateConflict, "order can no longer be cancelled")
	wrapped := Wrap(CodeInternal, inner, "outer")

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeInternal, typed.Code())

	typed = As(inner)
	require.NotNil(t, typed)
	assert.Equal(t, CodeStateConflict, typed.Code())
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("reference missing")
	err := Wrap(CodeNotFound, cause, "payment not found")

	dump := Dump(err)
	assert.Equal(t, CodeNotFound, dump.Code)
	assert.Len(t, dump.Chain, 2)
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "validation failed").WithDetails(map[string]string{"quantity": "must be at least 1"})
	require.NotNil(t, err.Details())
}
