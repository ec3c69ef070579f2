package testutils

import (
	"testing"

	"github.com/aretw0/shardtree/pkg/domain"
	"github.com/aretw0/shardtree/pkg/dsl"
)

// NestedSequential builds the canonical fixture used across the engine
// tests: a sequential of two 5x5 linears plus an inner sequential of two
// more. Each linear owns 30 trainable elements (25 weight + 5 bias), so
// with a threshold of 40 the inner sequential (60) and the root leftover
// (60) are wrap-eligible while no single linear is.
func NestedSequential(t *testing.T) domain.Module {
	t.Helper()
	return dsl.Sequential(
		dsl.Linear(5, 5),
		dsl.Linear(5, 5),
		dsl.Sequential(
			dsl.Linear(5, 5),
			dsl.Linear(5, 5),
		),
	).Build()
}

// ChildModule returns the named direct child of m, failing the test when
// it does not exist.
func ChildModule(t *testing.T, m domain.Module, name string) domain.Module {
	t.Helper()
	for _, c := range m.Children() {
		if c.Name == name {
			return c.Module
		}
	}
	t.Fatalf("module [kind=%s] has no child %q", m.Kind(), name)
	return nil
}
