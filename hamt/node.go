package hamt

import "sync/atomic"

// node is the common interface implemented by *branch[T] and *leaf[T]. Every
// node is immutable after it is published into a trie; the only mutation
// performed on a node after construction is on its reference count.
type node[T any] interface {
	isLeaf() bool
}

// refcounted is embedded in both branch and leaf records. It holds the
// atomic reference count described in spec §3: created at 1, incremented
// with relaxed addref, decremented with release-ordered release. The last
// releaser is responsible for releasing the node's own children (for a
// branch) in turn.
type refcounted struct {
	refs atomic.Int64
}

// liveNodes is the debug-build reference-count ledger: the total number of
// nodes currently reachable from any live Trie/Handle, when DebugRefcounts
// is enabled. It stands in for hash_trie.hpp's HAMT_DEBUG_RC total-refs
// counter, without requiring a build tag.
var liveNodes atomic.Int64

// LiveNodeCount returns the current value of the debug refcount ledger. It
// is only meaningful while DebugRefcounts is true; tests use it to assert
// the "Reference balance" invariant (spec §8) returns to zero once every
// Trie and Handle derived from a starting point has been dropped.
func LiveNodeCount() int64 {
	return liveNodes.Load()
}

func (r *refcounted) init() {
	if DebugRefcounts {
		liveNodes.Add(1)
	}
	r.refs.Store(1)
}

// addref records an additional owner of n. Used whenever a rewrite
// operation retains a child pointer cloned from an existing parent, rather
// than transferring the one reference the caller already held.
func addref[T any](n node[T]) {
	if n == nil {
		return
	}
	switch v := any(n).(type) {
	case *branch[T]:
		v.refs.Add(1)
	case *leaf[T]:
		v.refs.Add(1)
	default:
		invariant(false, "addref: unknown node type %T", n)
	}
}

// release drops one reference to n. On the transition to zero it recurses
// into a branch's children (each of which loses the reference the branch
// held) and, in debug mode, decrements the live-node ledger.
func release[T any](n node[T]) {
	if n == nil {
		return
	}
	switch v := any(n).(type) {
	case *branch[T]:
		if v.refs.Add(-1) == 0 {
			if DebugRefcounts {
				liveNodes.Add(-1)
			}
			for _, child := range v.children {
				release[T](child)
			}
		}
	case *leaf[T]:
		if v.refs.Add(-1) == 0 {
			if DebugRefcounts {
				liveNodes.Add(-1)
			}
		}
	default:
		invariant(false, "release: unknown node type %T", n)
	}
}
