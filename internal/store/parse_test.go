package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbvault/dbvault/internal/store"
)

func TestParsePairs(t *testing.T) {
	t.Run("row data", func(t *testing.T) {
		pairs, err := store.ParsePairs([]string{"name:alice", "age:30"}, ":")
		require.NoError(t, err)
		assert.Equal(t, []store.Pair{
			{Column: "name", Value: "alice"},
			{Column: "age", Value: "30"},
		}, pairs)
	})

	t.Run("value contains separator", func(t *testing.T) {
		pairs, err := store.ParsePairs([]string{"time:12:30:00"}, ":")
		require.NoError(t, err)
		assert.Equal(t, []store.Pair{{Column: "time", Value: "12:30:00"}}, pairs)
	})

	t.Run("assignments", func(t *testing.T) {
		pairs, err := store.ParsePairs([]string{"city=New York"}, "=")
		require.NoError(t, err)
		assert.Equal(t, []store.Pair{{Column: "city", Value: "New York"}}, pairs)
	})

	t.Run("empty value", func(t *testing.T) {
		pairs, err := store.ParsePairs([]string{"note:"}, ":")
		require.NoError(t, err)
		assert.Equal(t, []store.Pair{{Column: "note", Value: ""}}, pairs)
	})

	t.Run("missing separator", func(t *testing.T) {
		_, err := store.ParsePairs([]string{"noseparator"}, ":")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed argument")
	})

	t.Run("empty column", func(t *testing.T) {
		_, err := store.ParsePairs([]string{":value"}, ":")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty column name")
	})

	t.Run("empty input", func(t *testing.T) {
		pairs, err := store.ParsePairs(nil, ":")
		require.NoError(t, err)
		assert.Empty(t, pairs)
	})
}
