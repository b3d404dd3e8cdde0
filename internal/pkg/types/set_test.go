package types

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSet(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		set := NewSet[int]()
		assert.Empty(t, set)
		assert.Equal(t, 0, set.Len())
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		set := NewSet(1, 2, 2, 3, 3, 3)
		assert.Equal(t, 3, set.Len())
		assert.True(t, set.Has(2))
		assert.False(t, set.Has(4))
	})
}

func TestSet_Add(t *testing.T) {
	set := NewSet[string]()
	set.Add("a", "b", "a")

	assert.True(t, set.Has("a"))
	assert.True(t, set.Has("b"))
	assert.ElementsMatch(t, []string{"a", "b"}, slices.Collect(maps.Keys(set)))
}

func TestSorted(t *testing.T) {
	set := NewSet[uint64](30, 10, 20, 10)
	assert.Equal(t, []uint64{10, 20, 30}, Sorted(set))
}
