package types

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_InsertionOrder(t *testing.T) {
	tests := []struct {
		name     string
		items    []string
		expected []string
	}{
		{
			name:     "preserves insertion order",
			items:    []string{"c", "a", "b"},
			expected: []string{"c", "a", "b"},
		},
		{
			name:     "drops duplicates keeping first position",
			items:    []string{"a", "b", "a", "c", "b"},
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "empty input",
			items:    []string{},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := NewSet(tt.items...)

			assert.Equal(t, len(tt.expected), set.Len(), "Set length should match unique items")
			assert.ElementsMatch(t, tt.expected, set.Array(), "Array should contain all unique items")
			if len(tt.expected) > 0 {
				assert.Equal(t, tt.expected, set.Array(), "Array should preserve insertion order")
			}
		})
	}
}

func TestSet_Exists(t *testing.T) {
	set := NewSet(FULLREFRESH)

	assert.True(t, set.Exists(FULLREFRESH), "Should contain full_refresh")
	assert.False(t, set.Exists(INCREMENTAL), "Should not contain incremental")

	var nilSet *Set[SyncMode]
	assert.False(t, nilSet.Exists(FULLREFRESH), "Nil set should contain nothing")
	assert.Equal(t, 0, nilSet.Len(), "Nil set should have zero length")
}

func TestSet_Difference(t *testing.T) {
	left := NewSet("id", "updated_at", "created_at")
	right := NewSet("id")

	diff := left.Difference(right)

	assert.Equal(t, []string{"updated_at", "created_at"}, diff.Array(), "Difference should keep left order")
	assert.Equal(t, 0, right.Difference(left).Len(), "Right minus left should be empty")
}

func TestSet_ProperSubsetOf(t *testing.T) {
	small := NewSet(FULLREFRESH)
	big := NewSet(FULLREFRESH, INCREMENTAL)

	assert.True(t, small.ProperSubsetOf(big), "Strict subset should be reported")
	assert.False(t, big.ProperSubsetOf(small), "Superset is not a subset")
	assert.False(t, big.ProperSubsetOf(NewSet(FULLREFRESH, INCREMENTAL)), "Equal sets are not proper subsets")
}

func TestSet_JSONRoundTrip(t *testing.T) {
	t.Run("marshals as plain array", func(t *testing.T) {
		set := NewSet(FULLREFRESH, INCREMENTAL)

		data, err := json.Marshal(set)
		require.NoError(t, err)
		assert.JSONEq(t, `["full_refresh","incremental"]`, string(data))
	})

	t.Run("unmarshals into zero value", func(t *testing.T) {
		var set Set[SyncMode]

		err := json.Unmarshal([]byte(`["incremental","full_refresh","incremental"]`), &set)
		require.NoError(t, err)

		assert.Equal(t, 2, set.Len(), "Duplicates in payload should collapse")
		assert.True(t, set.Exists(INCREMENTAL), "Should contain incremental")
		assert.True(t, set.Exists(FULLREFRESH), "Should contain full_refresh")
	})

	t.Run("nil set marshals as empty array", func(t *testing.T) {
		var set *Set[string]

		data, err := json.Marshal(set)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
	})
}

func TestSet_Range(t *testing.T) {
	set := NewSet("a", "b", "c")

	visited := []string{}
	set.Range(func(item string) bool {
		visited = append(visited, item)
		return item != "b"
	})

	assert.Equal(t, []string{"a", "b"}, visited, "Range should stop when the callback returns false")
}
