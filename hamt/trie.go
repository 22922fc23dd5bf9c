package hamt

// Trie is the façade of spec §4.D: it owns exactly one root descriptor
// (root, size) and exposes the read/write operations of a persistent hash
// set. The interior nodes reachable from root are immutable and may be
// shared with any number of other Trie or Handle values; Trie itself is a
// small mutable handle over whichever version is current, modeling the
// same "mutate this object's descriptor in place" semantics as the
// reference implementation (see DESIGN.md Open Questions for why this
// differs from the teacher's pure value-returning Put).
//
// The zero value of Trie is not usable directly; construct one with New.
type Trie[T any] struct {
	root *branch[T]
	size int
	hash Hasher[T]
	eq   Equaler[T]
}

// New returns an empty trie: a fresh branch sentinel (bitmap 0, size 0)
// owning its own reference, per spec §3 Lifecycle.
func New[T any](hash Hasher[T], eq Equaler[T]) Trie[T] {
	return Trie[T]{
		root: newEmptyBranch[T](),
		size: 0,
		hash: hash,
		eq:   eq,
	}
}

// Size returns the number of distinct elements reachable from the root.
func (t *Trie[T]) Size() int { return t.size }

// Empty reports whether the trie holds no elements.
func (t *Trie[T]) Empty() bool { return t.size == 0 }

// Find borrows the trie's current root descriptor and reports whether
// value is present, returning the stored copy on success (useful when T
// carries data beyond what equality compares). Find never mutates any
// reference count.
func (t *Trie[T]) Find(value T) (T, bool) {
	var p = findPath[T](t.root, t.hash(value))
	if p.leaf != nil {
		for _, v := range p.leaf.values {
			if t.eq(v, value) {
				return v, true
			}
		}
	}
	var zero T
	return zero, false
}

// Contains is a convenience wrapper over Find.
func (t *Trie[T]) Contains(value T) bool {
	_, ok := t.Find(value)
	return ok
}

// Insert runs the insertion algorithm of spec §4.C. If value was not
// already present, the trie's descriptor is replaced in place: the old
// root is released and a new root with size+1 is installed, and Insert
// reports true. If value was already present, Insert is a no-op and
// reports false (spec §8 "Idempotent insert").
//
// Insert mutates the receiver. To keep an independent handle on the
// pre-insert version, Clone it first.
func (t *Trie[T]) Insert(value T) bool {
	var newRoot = insertValue[T](t.root, value, t.hash, t.eq)
	if newRoot == nil {
		return false
	}
	release[T](t.root)
	t.root = newRoot
	t.size++
	return true
}

// Clone returns an independent Trie handle on the same version: the root
// gains one more reference (spec §4.D "Copy increments the root's
// refcount"). Subsequent Insert calls on either handle do not affect the
// other.
func (t *Trie[T]) Clone() Trie[T] {
	addref[T](t.root)
	return Trie[T]{root: t.root, size: t.size, hash: t.hash, eq: t.eq}
}

// Release drops this handle's reference to its root (spec §4.D
// "destruction releases the root once"). The receiver must not be used
// again afterwards. Release is optional: the Go garbage collector reclaims
// unreachable nodes regardless, but tests that assert the "Reference
// balance" invariant (spec §8) via LiveNodeCount need every handle that was
// constructed to be explicitly released.
func (t *Trie[T]) Release() {
	release[T](t.root)
	t.root = nil
}

// Iterator returns a forward, single-pass iterator over the trie's
// elements (component E), beginning at the leftmost leaf. The iterator
// borrows the trie's current structure; it must not outlive an Insert or
// Release on the same handle.
func (t *Trie[T]) Iterator() *Iterator[T] {
	return newIterator[T](t.root)
}
