package cache

import "strings"

// Key identifies a cached result set. Keys are structured: a list of
// segments, e.g. {"products", "<canonical filter string>"}. Two keys with
// equal segments address the same entry.
type Key []string

// NewKey builds a key from its segments.
func NewKey(segments ...string) Key {
	return Key(segments)
}

// String returns the canonical form used for entry addressing. Segments are
// joined with a separator that cannot appear inside a segment produced by
// the models in this module (filters escape their values).
func (k Key) String() string {
	return strings.Join(k, "\x1f")
}

// HasPrefix reports whether k starts with the segments of prefix.
// Invalidation uses prefix matching: invalidating {"products"} hits
// {"products"}, {"products", "page=2"}, and every other descendant.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, seg := range prefix {
		if k[i] != seg {
			return false
		}
	}
	return true
}

// Equal reports segment-wise equality.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}
