package pathfinder

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxHops applies when the caller passes a non-positive hop limit.
	DefaultMaxHops = 4

	// MaxHopsCeiling bounds the hop limit regardless of caller input.
	MaxHopsCeiling = 6

	// parallelThreshold is the node count at which first-hop branches are
	// enumerated concurrently.
	parallelThreshold = 1000

	contextCheckInterval = 256
)

// ClampMaxHops applies the default and the hard ceiling to a requested hop limit.
func ClampMaxHops(maxHops int) int {
	if maxHops <= 0 {
		return DefaultMaxHops
	}
	if maxHops > MaxHopsCeiling {
		return MaxHopsCeiling
	}
	return maxHops
}

// EnumeratePaths returns every simple path from self to targetID with at most
// maxHops edges. A target that is missing from the graph or equal to self
// yields no paths. The only error is ctx's error when the search is cancelled.
func (g *Graph) EnumeratePaths(ctx context.Context, targetID string, maxHops int) ([]Path, error) {
	if targetID == "" || targetID == SelfNodeID || !g.HasNode(targetID) {
		return nil, nil
	}
	maxHops = ClampMaxHops(maxHops)
	adj := g.sortedAdjacency()

	if g.NodeCount() >= parallelThreshold {
		return g.enumerateParallel(ctx, adj, targetID, maxHops)
	}

	w := g.newWalker(ctx, adj, targetID, maxHops, []string{SelfNodeID})
	if err := w.walk(SelfNodeID); err != nil {
		return nil, err
	}
	return w.out, nil
}

// enumerateParallel gives each first-hop neighbour its own walker and visited
// set, then concatenates results in neighbour order so the output matches the
// sequential traversal.
func (g *Graph) enumerateParallel(ctx context.Context, adj map[string][]string, targetID string, maxHops int) ([]Path, error) {
	first := adj[SelfNodeID]
	results := make([][]Path, len(first))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, next := range first {
		if next == targetID {
			results[i] = []Path{g.materialize([]string{SelfNodeID, next})}
			continue
		}
		if maxHops < 2 {
			continue
		}
		eg.Go(func() error {
			w := g.newWalker(egCtx, adj, targetID, maxHops, []string{SelfNodeID, next})
			if err := w.walk(next); err != nil {
				return err
			}
			results[i] = w.out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var out []Path
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

type walker struct {
	ctx     context.Context
	g       *Graph
	adj     map[string][]string
	target  string
	maxHops int
	stack   []string
	onPath  map[string]bool
	steps   int
	out     []Path
}

func (g *Graph) newWalker(ctx context.Context, adj map[string][]string, target string, maxHops int, prefix []string) *walker {
	onPath := make(map[string]bool, maxHops+1)
	for _, id := range prefix {
		onPath[id] = true
	}
	stack := make([]string, len(prefix), maxHops+1)
	copy(stack, prefix)
	return &walker{
		ctx:     ctx,
		g:       g,
		adj:     adj,
		target:  target,
		maxHops: maxHops,
		stack:   stack,
		onPath:  onPath,
	}
}

func (w *walker) walk(current string) error {
	w.steps++
	if w.steps%contextCheckInterval == 0 {
		if err := w.ctx.Err(); err != nil {
			return err
		}
	}

	hops := len(w.stack) - 1
	if hops >= w.maxHops {
		return nil
	}

	for _, next := range w.adj[current] {
		if w.onPath[next] {
			continue
		}
		if next == w.target {
			w.out = append(w.out, w.g.materialize(append(w.stack, next)))
			continue
		}
		// A non-target node at the last allowed hop cannot lead anywhere useful.
		if hops+1 >= w.maxHops {
			continue
		}
		w.stack = append(w.stack, next)
		w.onPath[next] = true
		err := w.walk(next)
		w.onPath[next] = false
		w.stack = w.stack[:len(w.stack)-1]
		if err != nil {
			return err
		}
	}
	return nil
}

// materialize copies ids into a Path with edges oriented along the walk.
func (g *Graph) materialize(ids []string) Path {
	p := Path{
		Nodes: make([]Node, len(ids)),
		Edges: make([]Edge, 0, len(ids)-1),
	}
	for i, id := range ids {
		p.Nodes[i] = g.nodes[id]
		if i > 0 {
			e, _ := g.EdgeBetween(ids[i-1], id)
			p.Edges = append(p.Edges, e)
		}
	}
	return p
}
