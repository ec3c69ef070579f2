package plan_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/shardtree/internal/testutils"
	"github.com/aretw0/shardtree/pkg/domain"
	"github.com/aretw0/shardtree/pkg/plan"
	"github.com/aretw0/shardtree/pkg/policy"
)

func TestBuild(t *testing.T) {
	model := testutils.NestedSequential(t)

	p, err := plan.Build(context.Background(), model, policy.Size(40))
	require.NoError(t, err)

	require.Len(t, p.Entries, 2)
	assert.Equal(t, "2", p.Entries[0].Path, "children are chosen before parents")
	assert.Equal(t, domain.KindSequential, p.Entries[0].Kind)
	assert.Equal(t, int64(60), p.Entries[0].Params)

	assert.Equal(t, "", p.Entries[1].Path)
	assert.Equal(t, int64(60), p.Entries[1].Params, "the root boundary claims only the leftover")

	assert.Equal(t, int64(120), p.TotalParams)
	assert.Equal(t, int64(120), p.WrappedParams)
}

func TestBuild_LeavesTreeUntouched(t *testing.T) {
	model := testutils.NestedSequential(t)

	_, err := plan.Build(context.Background(), model, policy.Size(40))
	require.NoError(t, err)

	// The dry run must not leave placeholders behind.
	inner := testutils.ChildModule(t, model, "2")
	assert.Equal(t, domain.KindSequential, inner.Kind())
	assert.IsType(t, &domain.Group{}, inner)
}

func TestBuild_NoBoundaries(t *testing.T) {
	model := testutils.NestedSequential(t)

	p, err := plan.Build(context.Background(), model, policy.Size(1_000_000))
	require.NoError(t, err)
	assert.Empty(t, p.Entries)
	assert.Equal(t, int64(120), p.TotalParams)
	assert.Zero(t, p.WrappedParams)
}

func TestBuild_ThresholdMonotonicity(t *testing.T) {
	// Raising the threshold never increases the number of boundaries.
	prev := -1
	for _, min := range []int64{0, 10, 40, 70, 1000} {
		p, err := plan.Build(context.Background(), testutils.NestedSequential(t), policy.Size(min))
		require.NoError(t, err)
		if prev >= 0 {
			assert.LessOrEqualf(t, len(p.Entries), prev, "min_params=%d grew the boundary set", min)
		}
		prev = len(p.Entries)
	}
}
