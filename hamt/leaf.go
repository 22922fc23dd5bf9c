package hamt

import "fmt"

// leaf is the immutable, variable-length record holding every element that
// shares one full hash value (spec §3 Leaf record). size()==1 is the common
// case; size()>1 only arises from a hash collision.
type leaf[T any] struct {
	refcounted
	hash   uint64
	values []T
}

func (l *leaf[T]) isLeaf() bool { return true }

// newLeaf allocates a one-element leaf for value under hash.
func newLeaf[T any](hash uint64, value T) *leaf[T] {
	var l = &leaf[T]{
		hash:   hash,
		values: []T{value},
	}
	l.refcounted.init()
	return l
}

// find reports whether value is already present in this leaf, using eq to
// compare against the stored elements (all of which share l.hash).
func (l *leaf[T]) find(value T, eq Equaler[T]) bool {
	for _, v := range l.values {
		if eq(v, value) {
			return true
		}
	}
	return false
}

// withAppendedValue allocates a new leaf of size n+1 holding every existing
// element plus value. The caller must have already established that value
// is not present and that l.hash equals hash(value); this is the
// collision-chain growth path (spec §4.B).
func (l *leaf[T]) withAppendedValue(value T) *leaf[T] {
	var values = make([]T, len(l.values)+1)
	copy(values, l.values)
	values[len(l.values)] = value
	var nl = &leaf[T]{
		hash:   l.hash,
		values: values,
	}
	nl.refcounted.init()
	return nl
}

func (l *leaf[T]) String() string {
	return fmt.Sprintf("leaf{hash:%#016x, values:%v}", l.hash, l.values)
}
