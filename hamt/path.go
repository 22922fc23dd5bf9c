package hamt

import "log"

// pathEntry records one (branch, digit) pair recorded above the
// terminal slot of a descent, used to rebuild the spine after a rewrite.
type pathEntry[T any] struct {
	parent *branch[T]
	digit  hashDigit
}

// path captures a descent from the root for a given value (spec §4.C). It
// is a pure function of the root and the value's hash: constructing one
// never mutates anything.
type path[T any] struct {
	entries    []pathEntry[T]
	lastBranch *branch[T]
	ch         chunkedHash
	leaf       *leaf[T] // nil iff the terminal slot was empty
}

// findPath descends root, consulting one digit per level, until it reaches
// an empty slot or a leaf.
func findPath[T any](root *branch[T], hash uint64) path[T] {
	var ch = newChunkedHash(hash)
	var lastBranch = root
	var entries []pathEntry[T]

	for {
		var child = lastBranch.get(ch.digit)
		if child == nil {
			return path[T]{entries: entries, lastBranch: lastBranch, ch: ch, leaf: nil}
		}
		if lf, ok := child.(*leaf[T]); ok {
			return path[T]{entries: entries, lastBranch: lastBranch, ch: ch, leaf: lf}
		}
		entries = append(entries, pathEntry[T]{parent: lastBranch, digit: ch.digit})
		lastBranch = child.(*branch[T])
		ch = ch.advance()
	}
}

// rewrite stitches a new spine from current (the replacement for
// lastBranch's slot) back up to the root, applying withReplaced at every
// recorded level. The result is the new root.
func (p path[T]) rewrite(current *branch[T]) *branch[T] {
	for i := len(p.entries) - 1; i >= 0; i-- {
		var e = p.entries[i]
		current = e.parent.withReplaced(e.digit, current)
	}
	return current
}

// extend walks two diverging hashes one digit at a time, wrapping the pair
// under single-child branches as long as they keep sharing a digit, and
// producing the two-child branch at the first point of divergence (spec
// §4.C case 3). existingCh/newCh must already be advanced one level past
// the slot the two leaves collided in. existingLf gains one addref when it
// becomes a child of the new subtree; newLf's reference is transferred.
func extend[T any](existingCh chunkedHash, existingLf *leaf[T], newCh chunkedHash, newLf *leaf[T]) *branch[T] {
	if existingCh.digit == newCh.digit {
		var child = extend[T](existingCh.advance(), existingLf, newCh.advance(), newLf)
		return createSingle[T](newCh.digit, child)
	}
	addref[T](existingLf)
	return createPair[T](existingCh.digit, existingLf, newCh.digit, newLf)
}

// insertAtLeaf implements spec §4.C case 2: the terminal slot already holds
// a leaf. Returns nil to signal "unchanged" if value is already present.
func insertAtLeaf[T any](p path[T], value T, eq Equaler[T]) *branch[T] {
	var existing = p.leaf

	if existing.find(value, eq) {
		return nil
	}

	if existing.hash == p.ch.hash {
		log.Printf("insertAtLeaf: hash collision at hash=%#016x; leaf now holds %d values", existing.hash, len(existing.values)+1)
		var newLf = existing.withAppendedValue(value)
		var newLast = p.lastBranch.withReplaced(p.ch.digit, newLf)
		return p.rewrite(newLast)
	}

	// Hashes diverge at some digit below the current level.
	var existingCh = newChunkedHash(existing.hash).advanceBy(uint(len(p.entries)) + 1)
	var newCh = p.ch.advance()
	var newLf = newLeaf(p.ch.hash, value)

	var subtree = extend[T](existingCh, existing, newCh, newLf)
	var newLast = p.lastBranch.withReplaced(p.ch.digit, subtree)
	return p.rewrite(newLast)
}

// insertValue implements the full insertion algorithm of spec §4.C: find
// the path for value, then dispatch on whether the terminal slot was empty
// or held a leaf. Returns nil if value was already present (no-op).
func insertValue[T any](root *branch[T], value T, hash Hasher[T], eq Equaler[T]) *branch[T] {
	var p = findPath[T](root, hash(value))

	if p.leaf == nil {
		var newLf = newLeaf(p.ch.hash, value)
		var newLast = p.lastBranch.withInserted(p.ch.digit, newLf)
		return p.rewrite(newLast)
	}

	return insertAtLeaf(p, value, eq)
}
