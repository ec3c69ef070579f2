package policy

import (
	"fmt"
	"sort"

	"github.com/aretw0/shardtree/pkg/domain"
)

// DefaultMinParams is the wrap threshold used when none is configured.
// The default is intentionally large: without explicit tuning only very
// big subtrees become shard boundaries.
const DefaultMinParams = 100_000_000

// DefaultExclude holds the container-only kinds that are descended but
// never wrapped themselves, regardless of size.
var DefaultExclude = domain.NewKindSet(domain.KindList, domain.KindDict)

// DefaultForceLeaf holds the kinds whose internal substructure must remain
// a single unit: the traversal never descends below them.
var DefaultForceLeaf = domain.NewKindSet(domain.KindAttention)

// SizePolicy is the default wrap policy. The zero value is not valid; use
// Size to construct one.
type SizePolicy struct {
	// MinParams is the minimum unwrapped parameter count that makes a
	// module a wrap boundary. Zero wraps every eligible module, including
	// empty leaves.
	MinParams int64

	// ForceLeaf and Exclude extend or replace the package defaults.
	ForceLeaf domain.KindSet
	Exclude   domain.KindSet
}

// Option adjusts a SizePolicy.
type Option func(*SizePolicy)

// WithForceLeaf replaces the force-leaf set. Use DefaultForceLeaf.Union to
// extend rather than replace the defaults.
func WithForceLeaf(s domain.KindSet) Option {
	return func(p *SizePolicy) { p.ForceLeaf = s }
}

// WithExclude replaces the excluded (never-wrap) set.
func WithExclude(s domain.KindSet) Option {
	return func(p *SizePolicy) { p.Exclude = s }
}

// Size creates a SizePolicy with the given threshold and the package
// default kind sets.
func Size(minParams int64, opts ...Option) *SizePolicy {
	p := &SizePolicy{
		MinParams: minParams,
		ForceLeaf: DefaultForceLeaf,
		Exclude:   DefaultExclude,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Default returns the policy used by auto-wrap when the caller supplies
// none.
func Default() *SizePolicy {
	return Size(DefaultMinParams)
}

// Decide implements ports.Policy.
//
// Precedence: excluded kinds are descended but never wrapped; force-leaf
// kinds are opaque and wrap as a unit when large enough; everything else
// is descended and wraps when the remaining unwrapped count reaches
// MinParams.
func (p *SizePolicy) Decide(m domain.Module, recursing bool, unwrapped int64) (domain.Decision, error) {
	if err := p.validate(); err != nil {
		return domain.Decision{}, err
	}
	large := unwrapped >= p.MinParams
	switch {
	case p.Exclude.Has(m.Kind()):
		return domain.Decision{Recurse: true, Wrap: false}, nil
	case p.ForceLeaf.Has(m.Kind()):
		return domain.Decision{Recurse: false, Wrap: large}, nil
	default:
		return domain.Decision{Recurse: true, Wrap: large}, nil
	}
}

func (p *SizePolicy) validate() error {
	if p.MinParams < 0 {
		return fmt.Errorf("size policy: min params must be >= 0, got %d", p.MinParams)
	}
	if both := p.ForceLeaf.Intersect(p.Exclude); len(both) > 0 {
		kinds := make([]string, 0, len(both))
		for k := range both {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		return fmt.Errorf("size policy: kinds %v are both force-leaf and excluded", kinds)
	}
	return nil
}
