package pathfinder

import (
	"math"
	"math/big"
	"slices"
	"strings"
)

const (
	// DefaultTopK applies when the caller passes a non-positive result limit.
	DefaultTopK = 5

	// MaxTopK caps the number of ranked paths returned. Larger requests are
	// clamped, not rejected.
	MaxTopK = 50

	unverifiedPenalty = 0.7

	// Link scores in tenths of MaxStrength: strength*10 when verified,
	// strength*7 when not.
	verifiedWeight   = 10
	unverifiedWeight = 7
	linkScale        = MaxStrength * verifiedWeight
)

// ScoredPath is a path with its ranking metrics.
type ScoredPath struct {
	Path
	Strength     float64
	MinLinkScore float64
	SuccessRate  int

	// exact is Strength as a rational so ranking never depends on float rounding.
	exact   *big.Rat
	minLink int64
}

// LinkScore rates a single edge in [0, 1].
func LinkScore(e Edge) float64 {
	score := float64(e.Strength) / MaxStrength
	if !e.Verified {
		score *= unverifiedPenalty
	}
	return score
}

// Score computes the strength of p: the product of its link scores divided by
// its hop count, so each extra intermediary costs as much as a weaker link.
func Score(p Path) ScoredPath {
	hops := p.Hops()
	if hops == 0 {
		return ScoredPath{Path: p, SuccessRate: 1, exact: new(big.Rat)}
	}

	num := big.NewInt(1)
	den := big.NewInt(int64(hops))
	minLink := int64(math.MaxInt64)
	for _, e := range p.Edges {
		w := linkWeight(e)
		num.Mul(num, big.NewInt(w))
		den.Mul(den, big.NewInt(linkScale))
		minLink = min(minLink, w)
	}
	exact := new(big.Rat).SetFrac(num, den)
	strength, _ := exact.Float64()

	return ScoredPath{
		Path:         p,
		Strength:     strength,
		MinLinkScore: float64(minLink) / linkScale,
		SuccessRate:  successRate(strength),
		exact:        exact,
		minLink:      minLink,
	}
}

// linkWeight is LinkScore scaled by linkScale to an integer.
func linkWeight(e Edge) int64 {
	if e.Verified {
		return int64(e.Strength) * verifiedWeight
	}
	return int64(e.Strength) * unverifiedWeight
}

func successRate(strength float64) int {
	rate := int(math.Round(math.Min(strength, 1.0) * 100))
	if rate < 1 {
		return 1
	}
	return rate
}

// ClampTopK applies the default and the cap to a requested result limit.
func ClampTopK(topK int) int {
	if topK <= 0 {
		return DefaultTopK
	}
	if topK > MaxTopK {
		return MaxTopK
	}
	return topK
}

// Rank scores paths and returns the best topK in a total order: strength
// descending, then fewer hops, then higher weakest link, then the
// lexicographically smallest node-id sequence. paths is not modified.
func Rank(paths []Path, topK int) []ScoredPath {
	scored := make([]ScoredPath, 0, len(paths))
	for _, p := range paths {
		if p.Hops() == 0 {
			continue
		}
		scored = append(scored, Score(p))
	}

	slices.SortStableFunc(scored, compareScored)

	topK = ClampTopK(topK)
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}

// compareScored compares exact rationals and integer link weights, so every
// step is a strict weak order and the id comparison makes it total.
func compareScored(a, b ScoredPath) int {
	if c := b.exact.Cmp(a.exact); c != 0 {
		return c
	}
	if a.Hops() != b.Hops() {
		return a.Hops() - b.Hops()
	}
	if a.minLink != b.minLink {
		if a.minLink > b.minLink {
			return -1
		}
		return 1
	}
	return slices.CompareFunc(a.Nodes, b.Nodes, func(x, y Node) int {
		return strings.Compare(x.ID, y.ID)
	})
}
