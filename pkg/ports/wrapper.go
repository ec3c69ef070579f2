package ports

import (
	"context"

	"github.com/aretw0/shardtree/pkg/domain"
)

// Wrapper is the sharding capability. Implementations own the adapter
// mechanics (parameter flattening, process groups, offload); the engine
// only needs construction and recognition.
type Wrapper interface {
	// Wrap builds a wrapped module around m, non-recursively. opts is the
	// merged option map of the active scope and call-site overrides;
	// unknown keys are the implementation's to reject.
	Wrap(ctx context.Context, m domain.Module, opts map[string]any) (domain.Module, error)

	// IsWrapped reports whether m was produced by this wrap family.
	// Wrapped modules are opaque to the traversal: they are neither
	// descended into nor wrapped again.
	IsWrapped(m domain.Module) bool
}

// Policy decides, per module, whether the traversal descends into children
// and whether the module becomes a wrap boundary.
//
// The engine consults a policy twice per module: once before children are
// processed (recursing=true, unwrapped = the module's full unwrapped
// parameter count) and, if it descended, once after (recursing=false,
// unwrapped = the count remaining after wrapped children are excluded).
// The Recurse field of the first answer and the Wrap field of the last
// answer are the ones that take effect.
//
// Implementations must be pure: no side effects, and argument validation
// errors surface immediately rather than falling back silently.
type Policy interface {
	Decide(m domain.Module, recursing bool, unwrapped int64) (domain.Decision, error)
}

// PolicyFunc adapts a plain function to the Policy interface.
type PolicyFunc func(m domain.Module, recursing bool, unwrapped int64) (domain.Decision, error)

func (f PolicyFunc) Decide(m domain.Module, recursing bool, unwrapped int64) (domain.Decision, error) {
	return f(m, recursing, unwrapped)
}
