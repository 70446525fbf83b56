package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIs_MatchesByCode(t *testing.T) {
	err := Network("fetch categories failed")
	assert.True(t, Is(err, ErrNetwork))
	assert.False(t, Is(err, ErrNotFound))
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := New("connection refused")
	err := WrapNetwork(cause, "fetch books")

	assert.True(t, Is(err, ErrNetwork))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWrap_NilReturnsNil(t *testing.T) {
	require.Nil(t, Wrap(nil, CodeInternal, "should vanish"))
}

func TestErrorThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("download audio: %w", EmptyFile("file has size 0"))
	assert.True(t, Is(err, ErrEmptyFile))

	var domainErr *Error
	require.True(t, As(err, &domainErr))
	assert.Equal(t, CodeEmptyFile, domainErr.Code)
}
