package util

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack(t *testing.T) {
	var s Stack[int]
	_, ok := s.Pop()
	assert.False(t, ok)

	s.Push(1)
	s.Push(2)
	s.Push(3)
	assert.Equal(t, []int{1, 2, 3}, s.Items())
	assert.Equal(t, []int{3, 2, 1}, slices.Collect(Reverse(s.Items())))

	top, ok := s.Pop()
	assert.True(t, ok)
	assert.Equal(t, 3, top)
	assert.Equal(t, 2, s.Len())
}
