package domain

// Kind identifies the structural role of a module for policy matching.
// Kinds are open string tags, not a closed enumeration: callers may
// introduce their own kinds and extend the policy sets with them.
type Kind string

// Well-known kinds used by the default policy and the reference adapter.
const (
	KindLinear     Kind = "linear"
	KindEmbedding  Kind = "embedding"
	KindAttention  Kind = "attention"
	KindSequential Kind = "sequential"

	// KindList and KindDict are pure containers. They hold children but
	// have no executable semantics of their own.
	KindList Kind = "list"
	KindDict Kind = "dict"

	// KindShard marks modules produced by the reference sharding adapter.
	KindShard Kind = "shard"
)

// KindSet is a set of kinds, used for policy bucket membership.
type KindSet map[Kind]struct{}

// NewKindSet builds a set from the given kinds.
func NewKindSet(kinds ...Kind) KindSet {
	s := make(KindSet, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether k is in the set.
func (s KindSet) Has(k Kind) bool {
	_, ok := s[k]
	return ok
}

// Union returns a new set containing the members of both s and other.
// Neither input is modified, so the package-level default sets can be
// extended safely.
func (s KindSet) Union(other KindSet) KindSet {
	out := make(KindSet, len(s)+len(other))
	for k := range s {
		out[k] = struct{}{}
	}
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}

// Intersect returns the kinds present in both sets.
func (s KindSet) Intersect(other KindSet) KindSet {
	out := make(KindSet)
	for k := range s {
		if other.Has(k) {
			out[k] = struct{}{}
		}
	}
	return out
}
