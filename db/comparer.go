package db

import "bytes"

// Comparer defines a total, deterministic ordering over user keys
// (§4.A). Additional comparators (reverse-bytewise, BedrockLE) can be
// added later by implementing this interface; call sites never switch
// on a concrete type.
type Comparer interface {
	// Compare returns a negative number, zero, or a positive number
	// depending on whether a is less than, equal to, or greater than b.
	Compare(a, b []byte) int
	// Name identifies the comparator on disk. The manifest's recorded
	// comparator name must match this value exactly (§4.F Validation).
	Name() string
}

// BytewiseComparer is the comparator used by every fixture this read
// path targets: plain lexicographic ordering of raw bytes, with a
// shorter prefix sorting before a longer string that starts with it.
type BytewiseComparer struct{}

// Compare implements Comparer.
func (BytewiseComparer) Compare(a, b []byte) int {
	return bytes.Compare(a, b)
}

// Name implements Comparer.
func (BytewiseComparer) Name() string {
	return "leveldb.BytewiseComparator"
}

// DefaultComparer is the bytewise comparator used when Options.Comparer
// is left unset.
var DefaultComparer Comparer = BytewiseComparer{}
