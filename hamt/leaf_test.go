package hamt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intEq(a, b int) bool { return a == b }

func TestNewLeafHoldsOneValue(t *testing.T) {
	var l = newLeaf(uint64(42), 42)
	assert.EqualValues(t, 42, l.hash)
	assert.Equal(t, []int{42}, l.values)
	assert.True(t, l.find(42, intEq))
	assert.False(t, l.find(7, intEq))
}

func TestWithAppendedValueGrowsWithoutMutatingReceiver(t *testing.T) {
	var l0 = newLeaf(uint64(9), 1)
	var l1 = l0.withAppendedValue(2)

	require.Equal(t, []int{1}, l0.values, "receiver is unchanged")
	assert.Equal(t, []int{1, 2}, l1.values)
	assert.Equal(t, l0.hash, l1.hash)
}

func TestLeafFindScansAllCollisionMembers(t *testing.T) {
	var l = newLeaf(uint64(1), "a")
	l = l.withAppendedValue("b")
	l = l.withAppendedValue("c")

	eq := func(a, b string) bool { return a == b }
	assert.True(t, l.find("c", eq))
	assert.False(t, l.find("z", eq))
}
