package hamt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityHash(v int) uint64 { return uint64(v) }

func newIntTrie() Trie[int] {
	return New[int](identityHash, intEq)
}

func TestEmptyTrie(t *testing.T) {
	var trie = newIntTrie()
	defer trie.Release()

	assert.Equal(t, 0, trie.Size())
	assert.True(t, trie.Empty())

	_, ok := trie.Find(1)
	assert.False(t, ok)
}

func TestSimpleInsert(t *testing.T) {
	DebugRefcounts = true
	defer func() { DebugRefcounts = false }()

	var trie = newIntTrie()

	inserted := trie.Insert(42)
	require.True(t, inserted)
	assert.Equal(t, 1, trie.Size())

	v, ok := trie.Find(42)
	require.True(t, ok)
	assert.Equal(t, 42, v)

	trie.Release()
	assert.Zero(t, LiveNodeCount(), "every node must be reclaimed once the only handle drops")
}

func TestRedundantInsert(t *testing.T) {
	var trie = newIntTrie()
	defer trie.Release()

	require.True(t, trie.Insert(42))
	assert.False(t, trie.Insert(42), "second insert of the same value is a no-op")
	assert.Equal(t, 1, trie.Size())
}

func TestIdempotentInsertSize(t *testing.T) {
	var a = newIntTrie()
	defer a.Release()
	a.Insert(7)

	var b = a.Clone()
	defer b.Release()
	b.Insert(7)

	assert.Equal(t, a.Size(), b.Size())
}

func TestMembershipAfterInsert(t *testing.T) {
	var trie = newIntTrie()
	defer trie.Release()

	for _, v := range []int{1, 2, 10, 33, 64, 1000} {
		trie.Insert(v)
	}
	for _, v := range []int{1, 2, 10, 33, 64, 1000} {
		_, ok := trie.Find(v)
		assert.True(t, ok, "expected %d to be found", v)
	}
	_, ok := trie.Find(999)
	assert.False(t, ok)
}

func TestImmutabilityAcrossInsert(t *testing.T) {
	var a = newIntTrie()
	defer a.Release()
	a.Insert(1)
	a.Insert(2)

	var b = a.Clone()
	b.Insert(3)
	defer b.Release()

	// a must still see exactly {1, 2}, unaffected by b's extra insert.
	assert.Equal(t, 2, a.Size())
	_, ok := a.Find(3)
	assert.False(t, ok)

	assert.Equal(t, 3, b.Size())
	_, ok = b.Find(3)
	assert.True(t, ok)
}

// collidingKey carries an explicit 16-bit hash so tests can force the
// collision shapes described in spec §8 scenario 4.
type collidingKey struct {
	id   int
	hash uint64
}

func collidingKeyHash(k collidingKey) uint64 { return k.hash }
func collidingKeyEqual(a, b collidingKey) bool { return a.id == b.id }

func TestCollisionShape(t *testing.T) {
	DebugRefcounts = true
	defer func() { DebugRefcounts = false }()

	// differ only in the third 5-bit digit: 0b01000'00010'00001 vs
	// 0b00100'00010'00001. Digits (least-significant chunk first):
	// digit0 = 00001 = 1, digit1 = 00010 = 2, digit2 differs (01000=8 vs 00100=4).
	var kA = collidingKey{id: 1, hash: 0b01000_00010_00001}
	var kB = collidingKey{id: 2, hash: 0b00100_00010_00001}

	var trie = New[collidingKey](collidingKeyHash, collidingKeyEqual)
	trie.Insert(kA)
	trie.Insert(kB)

	assert.Equal(t, 2, trie.Size())

	root := trie.root
	require.Equal(t, 1, root.size(), "root has one child at digit 1")

	lvl1, ok := root.children[0].(*branch[collidingKey])
	require.True(t, ok, "level 1 must be a branch, not a leaf, since both keys share digit0")
	require.Equal(t, 1, lvl1.size(), "level 1 has one child at digit 2")

	lvl2, ok := lvl1.children[0].(*branch[collidingKey])
	require.True(t, ok, "level 2 must be a branch: this is where the digits diverge")
	assert.Equal(t, 2, lvl2.size(), "level 2 holds both leaves, one per diverging digit")

	for _, c := range lvl2.children {
		_, isLeaf := c.(*leaf[collidingKey])
		assert.True(t, isLeaf)
	}

	trie.Release()
	assert.Zero(t, LiveNodeCount())
}

func TestIteration(t *testing.T) {
	var trie = newIntTrie()
	defer trie.Release()

	const n = 1000
	for i := 0; i < n; i++ {
		trie.Insert(i)
	}
	assert.Equal(t, n, trie.Size())

	var seen = make(map[int]bool, n)
	for it := trie.Iterator(); !it.Done(); it.Next() {
		seen[it.Value()] = true
	}

	assert.Len(t, seen, n)
	for i := 0; i < n; i++ {
		assert.True(t, seen[i], "expected %d in iteration output", i)
	}
}

func TestIterationVisitsCollisionLeafFully(t *testing.T) {
	var sameHash uint64 = 0x1234
	var kA = collidingKey{id: 1, hash: sameHash}
	var kB = collidingKey{id: 2, hash: sameHash}
	var kC = collidingKey{id: 3, hash: sameHash}

	var trie = New[collidingKey](collidingKeyHash, collidingKeyEqual)
	defer trie.Release()
	trie.Insert(kA)
	trie.Insert(kB)
	trie.Insert(kC)

	var got = trie.Iterator().Collect()
	assert.Len(t, got, 3, "the fixed iterator must yield every member of a collision leaf")
}

func TestCommutativeInsertOrder(t *testing.T) {
	var forward = newIntTrie()
	defer forward.Release()
	var backward = newIntTrie()
	defer backward.Release()

	for i := 0; i < 200; i++ {
		forward.Insert(i)
	}
	for i := 199; i >= 0; i-- {
		backward.Insert(i)
	}

	for i := 0; i < 200; i++ {
		_, okF := forward.Find(i)
		_, okB := backward.Find(i)
		assert.Equal(t, okF, okB)
		assert.True(t, okF)
	}
	assert.Equal(t, forward.Size(), backward.Size())
}
