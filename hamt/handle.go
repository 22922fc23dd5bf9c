package hamt

import "sync/atomic"

// descriptor is the trivially-copyable (root, size) pair spec §3 calls the
// Root descriptor. It is always handled through a pointer so Handle can
// publish it with a single-word atomic compare-and-swap; see DESIGN.md's
// Open Questions for why that is the faithful Go rendition of CAS'ing a
// two-machine-word value directly.
type descriptor[T any] struct {
	root *branch[T]
	size int
}

// Handle is the lock-free shared root cell of spec §4.E: one atomic cell
// holding a descriptor, published and swapped only via compare-and-swap.
// A Handle is safe for concurrent use by any number of goroutines; the
// Trie values it hands out through Get are not (spec §5).
type Handle[T any] struct {
	cell atomic.Pointer[descriptor[T]]
	hash Hasher[T]
	eq   Equaler[T]
}

// NewHandle returns a Handle wrapping a fresh, empty trie.
func NewHandle[T any](hash Hasher[T], eq Equaler[T]) *Handle[T] {
	var h = &Handle[T]{hash: hash, eq: eq}
	h.cell.Store(&descriptor[T]{root: newEmptyBranch[T](), size: 0})
	return h
}

// NewHandleFrom wraps the current version of an existing Trie. The root
// gains an addref: the handle and the Trie now each own an independent
// reference to it.
func NewHandleFrom[T any](t *Trie[T]) *Handle[T] {
	addref[T](t.root)
	var h = &Handle[T]{hash: t.hash, eq: t.eq}
	h.cell.Store(&descriptor[T]{root: t.root, size: t.size})
	return h
}

// Get materializes a Trie façade over the handle's currently published
// version, taking its own reference.
func (h *Handle[T]) Get() Trie[T] {
	var d = h.cell.Load()
	addref[T](d.root)
	return Trie[T]{root: d.root, size: d.size, hash: h.hash, eq: h.eq}
}

// IsLockFree always reports true: atomic.Pointer is lock-free on every
// platform the Go runtime supports (spec §4.E, §6, §7 of SPEC_FULL.md).
func (h *Handle[T]) IsLockFree() bool { return true }

// Release drops the handle's own reference to its currently published
// root. The handle must not be used again afterwards. Like Trie.Release,
// this exists for the debug refcount ledger; the Go garbage collector
// reclaims unreachable nodes regardless.
func (h *Handle[T]) Release() {
	release[T](h.cell.Load().root)
}

// reset is the low-level CAS primitive of spec §4.E: atomically swap the
// cell from expected to proposed. On success the root that was published
// in expected is released and the root now published in proposed is
// addref'd (it is now owned by the cell in addition to whatever caller
// holds proposed). On failure nothing changes and reset returns false;
// it does not attempt to report the cell's current value, unlike the
// C++ original's compare_exchange_strong out-parameter - callers reload
// via Get or Transaction.Rebase instead.
func (h *Handle[T]) reset(expected, proposed *descriptor[T]) bool {
	if !h.cell.CompareAndSwap(expected, proposed) {
		return false
	}
	release[T](expected.root)
	addref[T](proposed.root)
	return true
}

// Transaction is a snapshot of a Handle's cell plus a commit attempt via
// CAS (spec §4.E). StartTransaction addrefs the snapshot's root; the
// transaction holds that reference until it commits or is released.
type Transaction[T any] struct {
	handle *Handle[T]
	base   *descriptor[T]
}

// StartTransaction captures a snapshot of the handle's current cell.
func (h *Handle[T]) StartTransaction() *Transaction[T] {
	var d = h.cell.Load()
	addref[T](d.root)
	return &Transaction[T]{handle: h, base: d}
}

// Get materializes a working Trie from the transaction's base snapshot.
func (tx *Transaction[T]) Get() Trie[T] {
	addref[T](tx.base.root)
	return Trie[T]{root: tx.base.root, size: tx.base.size, hash: tx.handle.hash, eq: tx.handle.eq}
}

// TryCommit attempts to publish t as the handle's new version, CAS'ing
// from the transaction's base. On success the transaction's own snapshot
// reference is released (the cell's fresh reference, acquired inside
// reset, now accounts for that root) and the transaction's base is left
// as-is - start a new transaction (or Rebase) to build further on the
// result. On failure nothing is released; call Rebase or UpdateWith.
func (tx *Transaction[T]) TryCommit(t *Trie[T]) bool {
	var proposed = &descriptor[T]{root: t.root, size: t.size}
	if !tx.handle.reset(tx.base, proposed) {
		return false
	}
	release[T](tx.base.root)
	return true
}

// Rebase refreshes the transaction's base snapshot from the handle's
// current published version, releasing the stale snapshot's reference.
func (tx *Transaction[T]) Rebase() {
	var d = tx.handle.cell.Load()
	addref[T](d.root)
	release[T](tx.base.root)
	tx.base = d
}

// Release drops the transaction's snapshot reference without committing.
// Use this to abandon a transaction.
func (tx *Transaction[T]) Release() {
	release[T](tx.base.root)
}

// UpdateWith repeatedly clones the transaction's base, lets updateFn
// mutate the clone, and tries to commit it, rebasing and retrying on CAS
// failure, until the commit succeeds or updateFn made no change (spec
// §4.E). updateFn must be a pure function of the base snapshot it is
// handed: a retry may discard any side effect it performed on an
// intermediate state that was superseded by another committer (spec §9).
func (tx *Transaction[T]) UpdateWith(updateFn func(t *Trie[T])) {
	for {
		var working = tx.Get()
		updateFn(&working)

		if working.root == tx.base.root {
			working.Release()
			release[T](tx.base.root)
			return
		}

		if tx.TryCommit(&working) {
			working.Release()
			return
		}

		working.Release()
		tx.Rebase()
	}
}

// UpdateWith is the handle-level convenience of spec §4.E: start a
// transaction and immediately drive it to completion.
func (h *Handle[T]) UpdateWith(updateFn func(t *Trie[T])) {
	var tx = h.StartTransaction()
	tx.UpdateWith(updateFn)
}
