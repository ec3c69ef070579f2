package policy

import "github.com/aretw0/shardtree/pkg/domain"

// CountUnwrapped returns the number of trainable scalar elements owned by
// m and its descendants, skipping any subtree rooted at a module for which
// isWrapped reports true. A nil predicate counts everything.
//
// Parameters shared by reference inside the measured subtree are counted
// once (identity-based deduplication). The count is recomputed fresh on
// every call; the tree may mutate between calls, so nothing is memoized.
func CountUnwrapped(m domain.Module, isWrapped func(domain.Module) bool) int64 {
	return NewTally().Count(m, isWrapped)
}

// Tally measures subtree sizes while carrying the parameter identity set
// across measurements. Counting two sibling subtrees through one Tally
// deduplicates parameters they share, which a caller may want when
// aggregating at an ancestor; independent CountUnwrapped calls do not.
type Tally struct {
	seen map[*domain.Parameter]struct{}
}

// NewTally creates an empty tally.
func NewTally() *Tally {
	return &Tally{seen: make(map[*domain.Parameter]struct{})}
}

// Count adds m's subtree to the tally and returns the elements newly
// counted by this call.
func (t *Tally) Count(m domain.Module, isWrapped func(domain.Module) bool) int64 {
	if isWrapped != nil && isWrapped(m) {
		return 0
	}
	var n int64
	for _, p := range m.Parameters() {
		if p == nil || p.Frozen {
			continue
		}
		if _, dup := t.seen[p]; dup {
			continue
		}
		t.seen[p] = struct{}{}
		n += p.Numel
	}
	for _, c := range m.Children() {
		n += t.Count(c.Module, isWrapped)
	}
	return n
}
