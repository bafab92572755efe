package pathfinder

import (
	"fmt"
	"slices"
	"strings"
)

// Graph is the request-scoped node and edge set visible to one user. Nodes live
// in a map keyed by their namespaced ids; edges are stored once per unordered
// node pair. A Graph is built by a single goroutine and is read-only afterwards.
type Graph struct {
	userID  string
	nodes   map[string]Node
	adj     map[string]map[string]Edge
	edges   int
	skipped int
}

// NewGraph returns a graph holding only the self node of userID.
func NewGraph(userID string, self NodeInfo) *Graph {
	g := &Graph{
		userID: userID,
		nodes:  make(map[string]Node),
		adj:    make(map[string]map[string]Edge),
	}
	g.nodes[SelfNodeID] = Node{NodeInfo: self, ID: SelfNodeID, Tier: TierSelf}
	return g
}

// UserID returns the id of the user the graph was built for.
func (g *Graph) UserID() string {
	return g.userID
}

// AddNode inserts n, rejecting ids that are already present.
func (g *Graph) AddNode(n Node) error {
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
	}
	if err := validateNodeID(n.ID, n.Tier); err != nil {
		return err
	}
	g.nodes[n.ID] = n
	return nil
}

// AddEdge inserts e unless a better edge already joins the same pair. A verified
// edge beats an unverified one; otherwise the higher strength wins.
func (g *Graph) AddEdge(e Edge) error {
	from, ok := g.nodes[e.From]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, e.From)
	}
	to, ok := g.nodes[e.To]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, e.To)
	}
	if !kindConnects(e.Kind, from.Tier, to.Tier) {
		return fmt.Errorf("%w: %s cannot join %s and %s", ErrInvalidEdge, e.Kind, from.Tier, to.Tier)
	}

	if current, exists := g.adj[e.From][e.To]; exists {
		if !betterEdge(e, current) {
			return nil
		}
	} else {
		g.edges++
	}
	g.link(e.From, e.To, e)
	g.link(e.To, e.From, e)
	return nil
}

func (g *Graph) link(a, b string, e Edge) {
	m, ok := g.adj[a]
	if !ok {
		m = make(map[string]Edge)
		g.adj[a] = m
	}
	m[b] = e
}

func betterEdge(candidate, current Edge) bool {
	if candidate.Verified != current.Verified {
		return candidate.Verified
	}
	return candidate.Strength > current.Strength
}

func kindConnects(kind EdgeKind, a, b Tier) bool {
	pair := func(x, y Tier) bool {
		return (a == x && b == y) || (a == y && b == x)
	}
	switch kind {
	case KindDirect:
		return pair(TierSelf, TierOwned)
	case KindPeer:
		return pair(TierOwned, TierOwned)
	case KindTeammateLink:
		return pair(TierSelf, TierTeammate)
	case KindTeamShared:
		return pair(TierTeammate, TierTeamShared)
	}
	return false
}

// Node looks up a node by id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether id is part of the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// EdgeBetween returns the edge joining a and b, oriented from a.
func (g *Graph) EdgeBetween(a, b string) (Edge, bool) {
	e, ok := g.adj[a][b]
	if !ok {
		return Edge{}, false
	}
	return e.orientedFrom(a), true
}

func (g *Graph) NodeCount() int { return len(g.nodes) }

func (g *Graph) EdgeCount() int { return g.edges }

// SkippedRecords counts raw records the builder dropped as invalid.
func (g *Graph) SkippedRecords() int { return g.skipped }

// Nodes returns all nodes ordered by id.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, b Node) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// Edges returns every edge once, oriented from the smaller id and ordered by endpoints.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for a, m := range g.adj {
		for b, e := range m {
			if a < b {
				out = append(out, e.orientedFrom(a))
			}
		}
	}
	slices.SortFunc(out, func(x, y Edge) int {
		if c := strings.Compare(x.From, y.From); c != 0 {
			return c
		}
		return strings.Compare(x.To, y.To)
	})
	return out
}

// sortedAdjacency snapshots neighbour ids in ascending order so traversal
// order is independent of map iteration.
func (g *Graph) sortedAdjacency() map[string][]string {
	out := make(map[string][]string, len(g.adj))
	for id, m := range g.adj {
		ids := make([]string, 0, len(m))
		for other := range m {
			ids = append(ids, other)
		}
		slices.Sort(ids)
		out[id] = ids
	}
	return out
}
