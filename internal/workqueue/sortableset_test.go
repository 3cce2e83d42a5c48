package workqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortableSet_AddIsIdempotent(t *testing.T) {
	s := NewSortableSet[string]()
	assert.True(t, s.Add("a"))
	assert.False(t, s.Add("a"))
	assert.Equal(t, 1, s.Len())
}

func TestSortableSet_PreservesInsertionOrder(t *testing.T) {
	s := NewSortableSet[string]()
	s.Add("c")
	s.Add("a")
	s.Add("b")
	assert.Equal(t, []string{"c", "a", "b"}, s.Items())
}

func TestSortableSet_RemovePreservesRemainingOrder(t *testing.T) {
	s := NewSortableSet[string]()
	s.Add("a")
	s.Add("b")
	s.Add("c")

	assert.True(t, s.Remove("b"))
	assert.False(t, s.Remove("b"))
	assert.Equal(t, []string{"a", "c"}, s.Items())
}

func TestSortableSet_SortByReordersItemsNotMembership(t *testing.T) {
	s := NewSortableSet[int]()
	s.Add(3)
	s.Add(1)
	s.Add(2)

	s.SortBy(func(a, b int) bool { return a < b })
	assert.Equal(t, []int{1, 2, 3}, s.Items())
	assert.True(t, s.Has(2))
}
