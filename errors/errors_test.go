package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errFirst    = errors.New("first")
	errSecond   = errors.New("second")
	errSentinel = errors.New("sentinel")
)

func TestCollection_Add(t *testing.T) {
	t.Parallel()

	t.Run("ignores nil errors", func(t *testing.T) {
		t.Parallel()

		c := &Collection{}
		c.Add(nil)

		assert.False(t, c.HasError())
		assert.Equal(t, 0, c.Len())
	})

	t.Run("keeps non-nil errors in order", func(t *testing.T) {
		t.Parallel()

		c := &Collection{}
		c.Add(errFirst)
		c.Add(nil)
		c.Add(errSecond)

		assert.True(t, c.HasError())
		assert.Equal(t, []error{errFirst, errSecond}, c.errors)
	})
}

func TestCollection_Addf(t *testing.T) {
	t.Parallel()

	c := &Collection{}
	c.Addf("state %q: %w", "S9", errFirst)

	err := c.GetError()
	require.Error(t, err)
	require.ErrorIs(t, err, errFirst)
	assert.Equal(t, `state "S9": first`, err.Error())
}

func TestCollection_GetError(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		c := &Collection{}
		require.NoError(t, c.GetError())
	})

	t.Run("single error is returned as is", func(t *testing.T) {
		t.Parallel()

		c := &Collection{}
		c.Add(errFirst)

		assert.Equal(t, errFirst, c.GetError()) //nolint:testifylint
	})

	t.Run("multiple errors are joined", func(t *testing.T) {
		t.Parallel()

		c := &Collection{}
		c.Add(errFirst)
		c.Add(errSecond)

		err := c.GetError()
		require.ErrorIs(t, err, errFirst)
		require.ErrorIs(t, err, errSecond)
		assert.Equal(t, "first\nsecond", err.Error())
	})
}

func TestCollection_WrapWith(t *testing.T) {
	t.Parallel()

	c := &Collection{}
	require.NoError(t, c.WrapWith(errSentinel))

	c.Add(errFirst)
	c.Add(errSecond)

	err := c.WrapWith(errSentinel)
	require.ErrorIs(t, err, errSentinel)
	require.ErrorIs(t, err, errFirst)
	require.ErrorIs(t, err, errSecond)
}

func TestCollection_Clear(t *testing.T) {
	t.Parallel()

	c := &Collection{}
	c.Add(errFirst)
	c.Clear()

	assert.False(t, c.HasError())
	require.NoError(t, c.GetError())
}
