package rag

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorKindRoundTrip(t *testing.T) {
	err := NewError(ErrKindFetch, "unexpected status 500")
	require.Equal(t, ErrKindFetch, KindOf(err))
	require.True(t, IsKind(err, ErrKindFetch))
	require.False(t, IsKind(err, ErrKindExtraction))
	require.Equal(t, "fetch_error: unexpected status 500", err.Error())
}

func TestWrapErrorPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(ErrKindUnavailable, "generation request failed", cause)

	require.True(t, errors.Is(err, cause))
	require.Equal(t, ErrKindUnavailable, KindOf(err))
	require.Contains(t, err.Error(), "connection refused")
}

func TestKindSurvivesFurtherWrapping(t *testing.T) {
	inner := NewError(ErrKindNotFound, "document missing")
	outer := fmt.Errorf("query failed: %w", inner)

	require.Equal(t, ErrKindNotFound, KindOf(outer))
	require.True(t, IsKind(outer, ErrKindNotFound))
}

func TestKindOfPlainError(t *testing.T) {
	require.Equal(t, ErrKindUnknown, KindOf(errors.New("plain")))
	require.Equal(t, ErrKindUnknown, KindOf(nil))
}
