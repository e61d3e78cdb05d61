package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventItems(t *testing.T) {
	t.Parallel()

	items := eventItems([]string{"e10", "e2", "e1", "e2"})
	assert.Equal(t, []string{ChoiceQuit, "e1", "e2", "e10", ChoiceOther}, items)

	assert.Equal(t, []string{ChoiceQuit, ChoiceOther}, eventItems(nil))
}

func TestPrefixSearcher(t *testing.T) {
	t.Parallel()

	items := []string{ChoiceQuit, "start", "stop", "reset"}
	search := prefixSearcher(items, 1)

	assert.False(t, search("[", 0), "skipped entries never match")
	assert.True(t, search("st", 1))
	assert.True(t, search("st", 2))
	assert.False(t, search("st", 3))
	assert.False(t, search("", 1))
}

func TestSelectWithoutChoices(t *testing.T) {
	t.Parallel()

	_, err := Select("Pick")
	require.ErrorIs(t, err, ErrNoChoices)
}

func TestValidateNonEmpty(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, validateNonEmpty("  "), ErrEmptyInput)
	require.NoError(t, validateNonEmpty("go"))
}
