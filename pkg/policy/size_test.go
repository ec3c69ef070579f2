package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shardtree/pkg/domain"
	"github.com/aretw0/shardtree/pkg/dsl"
	"github.com/aretw0/shardtree/pkg/policy"
)

func TestSizePolicy_Decide(t *testing.T) {
	linear := dsl.Linear(5, 5).Build()
	list := dsl.List(dsl.Linear(5, 5)).Build()
	attention := dsl.Attention(10, 1).Build()

	t.Run("Excluded Kinds Recurse But Never Wrap", func(t *testing.T) {
		d, err := policy.Size(0).Decide(list, true, 1_000_000)
		require.NoError(t, err)
		assert.True(t, d.Recurse)
		assert.False(t, d.Wrap)
	})

	t.Run("Force Leaf Is Opaque", func(t *testing.T) {
		d, err := policy.Size(40).Decide(attention, true, 440)
		require.NoError(t, err)
		assert.False(t, d.Recurse)
		assert.True(t, d.Wrap)

		d, err = policy.Size(1000).Decide(attention, true, 440)
		require.NoError(t, err)
		assert.False(t, d.Recurse)
		assert.False(t, d.Wrap)
	})

	t.Run("Threshold On Remaining Count", func(t *testing.T) {
		d, err := policy.Size(40).Decide(linear, false, 60)
		require.NoError(t, err)
		assert.True(t, d.Wrap)

		d, err = policy.Size(40).Decide(linear, false, 30)
		require.NoError(t, err)
		assert.False(t, d.Wrap)
	})

	t.Run("Zero Threshold Wraps Empty Modules", func(t *testing.T) {
		empty := dsl.Module(domain.KindLinear).Build()
		d, err := policy.Size(0).Decide(empty, false, 0)
		require.NoError(t, err)
		assert.True(t, d.Wrap)
	})

	t.Run("Custom Sets Extend Defaults", func(t *testing.T) {
		p := policy.Size(40,
			policy.WithForceLeaf(policy.DefaultForceLeaf.Union(domain.NewKindSet(domain.KindLinear))))
		d, err := p.Decide(linear, true, 110)
		require.NoError(t, err)
		assert.False(t, d.Recurse)
		assert.True(t, d.Wrap)

		// The original default is still present after Union.
		d, err = p.Decide(attention, true, 440)
		require.NoError(t, err)
		assert.False(t, d.Recurse)
	})
}

func TestSizePolicy_Validation(t *testing.T) {
	linear := dsl.Linear(5, 5).Build()

	t.Run("Negative Threshold", func(t *testing.T) {
		_, err := policy.Size(-1).Decide(linear, true, 30)
		assert.ErrorContains(t, err, "min params must be >= 0")
	})

	t.Run("Conflicting Sets", func(t *testing.T) {
		p := policy.Size(40,
			policy.WithForceLeaf(domain.NewKindSet(domain.KindLinear)),
			policy.WithExclude(domain.NewKindSet(domain.KindLinear, domain.KindList)))
		_, err := p.Decide(linear, true, 30)
		assert.ErrorContains(t, err, "both force-leaf and excluded")
	})
}
