package pathfinder

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain(t *testing.T, ids []string, strengths []int, verified []bool) Path {
	t.Helper()
	require.Equal(t, len(ids)-1, len(strengths))
	p := Path{}
	for i, id := range ids {
		tier := TierOwned
		if i == 0 {
			tier = TierSelf
		}
		n, err := NewNode(id, tier, NodeInfo{})
		require.NoError(t, err)
		p.Nodes = append(p.Nodes, n)
		if i > 0 {
			kind := KindPeer
			if i == 1 {
				kind = KindDirect
			}
			e, err := NewEdge(ids[i-1], id, strengths[i-1], kind, verified == nil || verified[i-1])
			require.NoError(t, err)
			p.Edges = append(p.Edges, e)
		}
	}
	return p
}

func TestLinkScore(t *testing.T) {
	assert.InDelta(t, 1.0, LinkScore(Edge{Strength: 5, Verified: true}), 1e-12)
	assert.InDelta(t, 0.6, LinkScore(Edge{Strength: 3, Verified: true}), 1e-12)
	assert.InDelta(t, 0.42, LinkScore(Edge{Strength: 3, Verified: false}), 1e-12)
}

func TestScore_DecayPerHop(t *testing.T) {
	direct := Score(chain(t, []string{"self", "t"}, []int{3}, nil))
	assert.InDelta(t, 0.6, direct.Strength, 1e-12)
	assert.Equal(t, 60, direct.SuccessRate)

	long := Score(chain(t, []string{"self", "a", "b", "t"}, []int{5, 5, 5}, nil))
	assert.InDelta(t, 1.0/3.0, long.Strength, 1e-12)
	assert.Equal(t, 33, long.SuccessRate)

	assert.Greater(t, direct.Strength, long.Strength, "a strength-3 direct link outranks a 3-hop chain of strength-5 links")
}

func TestScore_SuccessRateBounds(t *testing.T) {
	best := Score(chain(t, []string{"self", "t"}, []int{5}, nil))
	assert.Equal(t, 100, best.SuccessRate)

	weakest := Score(chain(t,
		[]string{"self", "a", "b", "c", "d", "e", "t"},
		[]int{1, 1, 1, 1, 1, 1},
		[]bool{false, false, false, false, false, false}))
	assert.Equal(t, 1, weakest.SuccessRate, "an existing path is never reported as 0%")
}

func TestRank_DirectDominatesWeakerLongerPaths(t *testing.T) {
	for strength := MinStrength; strength <= MaxStrength; strength++ {
		direct := Score(chain(t, []string{"self", "t"}, []int{strength}, nil))
		for s1 := MinStrength; s1 <= strength; s1++ {
			for s2 := MinStrength; s2 <= strength; s2++ {
				two := Score(chain(t, []string{"self", "m", "t"}, []int{s1, s2}, nil))
				assert.Greater(t, direct.Strength, two.Strength)
			}
		}
	}
}

func TestRank_OrderingAndTieBreaks(t *testing.T) {
	paths := []Path{
		chain(t, []string{"self", "b", "t"}, []int{4, 4}, nil),         // 0.32
		chain(t, []string{"self", "t"}, []int{2}, nil),                 // 0.40
		chain(t, []string{"self", "a", "t"}, []int{4, 4}, nil),         // 0.32, same as b: id order
		chain(t, []string{"self", "c", "t"}, []int{5, 4}, nil),         // 0.40 but two hops
		chain(t, []string{"self", "d", "t"}, []int{2, 5}, nil),         // 0.20 weakest link 0.4
		chain(t, []string{"self", "e", "t"}, []int{5, 2}, nil),         // 0.20 weakest link 0.4, id after d
		chain(t, []string{"self", "f", "g", "t"}, []int{5, 5, 3}, nil), // 0.20, three hops
	}

	ranked := Rank(paths, 10)
	require.Len(t, ranked, len(paths))

	var order [][]string
	for _, r := range ranked {
		order = append(order, r.NodeIDs())
	}
	assert.Equal(t, [][]string{
		{"self", "t"},
		{"self", "c", "t"},
		{"self", "a", "t"},
		{"self", "b", "t"},
		{"self", "d", "t"},
		{"self", "e", "t"},
		{"self", "f", "g", "t"},
	}, order)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Strength, ranked[i].Strength)
	}
}

func TestRank_MinLinkTieBreak(t *testing.T) {
	// Both paths score 0.8*0.7/2; the one whose weakest link is stronger wins
	// even though its node ids sort later.
	lopsided := chain(t, []string{"self", "a", "t"}, []int{4, 5}, []bool{false, true})
	even := chain(t, []string{"self", "z", "t"}, []int{4, 5}, []bool{true, false})

	ranked := Rank([]Path{lopsided, even}, 2)
	require.Len(t, ranked, 2)
	assert.InDelta(t, ranked[0].Strength, ranked[1].Strength, 1e-12)
	assert.Equal(t, []string{"self", "z", "t"}, ranked[0].NodeIDs())
	assert.InDelta(t, 0.7, ranked[0].MinLinkScore, 1e-12)
}

func TestRank_TopKAndEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil, 5))

	var paths []Path
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		paths = append(paths, chain(t, []string{"self", id, "t"}, []int{3, 3}, nil))
	}
	assert.Len(t, Rank(paths, 0), DefaultTopK)
	assert.Len(t, Rank(paths, 3), 3)
	assert.Len(t, Rank(paths[:2], 5), 2)
}

func TestRank_IdempotentAndPure(t *testing.T) {
	g := denseGraph(t, 10, 7)
	paths, err := g.EnumeratePaths(context.Background(), "c-03", 4)
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	before := pathIDs(paths)
	first := Rank(paths, 10)
	second := Rank(paths, 10)
	assert.Equal(t, first, second)
	assert.Equal(t, before, pathIDs(paths), "ranking does not reorder its input")

	for _, r := range first {
		assert.GreaterOrEqual(t, r.SuccessRate, 1)
		assert.LessOrEqual(t, r.SuccessRate, 100)
		assert.False(t, math.IsNaN(r.Strength))
	}
	assert.Equal(t, []string{SelfNodeID, "c-03"}, first[0].NodeIDs())
}

func TestRank_EqualProductsTieOnIDs(t *testing.T) {
	// Same factors multiplied in different orders score exactly the same, so
	// the weakest link and then the node ids decide.
	paths := []Path{
		chain(t, []string{"self", "e", "f", "t"}, []int{3, 4, 2}, nil),
		chain(t, []string{"self", "a", "b", "t"}, []int{4, 3, 2}, nil),
		chain(t, []string{"self", "c", "d", "t"}, []int{2, 3, 4}, nil),
	}

	ranked := Rank(paths, 3)
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"self", "a", "b", "t"}, ranked[0].NodeIDs())
	assert.Equal(t, []string{"self", "c", "d", "t"}, ranked[1].NodeIDs())
	assert.Equal(t, []string{"self", "e", "f", "t"}, ranked[2].NodeIDs())
	assert.Equal(t, ranked[0].Strength, ranked[2].Strength)
	assert.InDelta(t, 0.8*0.6*0.4/3, ranked[0].Strength, 1e-12)
}

func TestClampTopK(t *testing.T) {
	assert.Equal(t, DefaultTopK, ClampTopK(0))
	assert.Equal(t, DefaultTopK, ClampTopK(-3))
	assert.Equal(t, 7, ClampTopK(7))
	assert.Equal(t, MaxTopK, ClampTopK(MaxTopK+50))
}
