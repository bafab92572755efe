package pathfinder

import (
	"fmt"
	"strings"
	"time"
)

// SelfNodeID identifies the requesting user in every graph.
const SelfNodeID = "self"

const (
	teammatePrefix   = "teammate:"
	teamSharedPrefix = "team:"
)

// Tier governs whether a node may appear and which edge kinds it can carry.
type Tier string

const (
	TierSelf       Tier = "self"
	TierOwned      Tier = "owned"
	TierTeammate   Tier = "teammate"
	TierTeamShared Tier = "teamShared"
)

// EdgeKind classifies a normalized relationship.
type EdgeKind string

const (
	KindDirect       EdgeKind = "direct"
	KindPeer         EdgeKind = "peer"
	KindTeammateLink EdgeKind = "teammateLink"
	KindTeamShared   EdgeKind = "teamShared"
)

const (
	MinStrength = 1
	MaxStrength = 5
)

// TeammateNodeID returns the namespaced node id of a teammate.
func TeammateNodeID(userID string) string {
	return teammatePrefix + userID
}

// TeamSharedNodeID returns the namespaced node id of a contact shared with a team.
func TeamSharedNodeID(teamID, contactID string) string {
	return teamSharedPrefix + teamID + ":" + contactID
}

// SplitTeamSharedID is the inverse of TeamSharedNodeID.
func SplitTeamSharedID(id string) (teamID, contactID string, ok bool) {
	rest, found := strings.CutPrefix(id, teamSharedPrefix)
	if !found {
		return "", "", false
	}
	teamID, contactID, found = strings.Cut(rest, ":")
	if !found || teamID == "" || contactID == "" {
		return "", "", false
	}
	return teamID, contactID, true
}

// NodeInfo carries the descriptive attributes of a node.
type NodeInfo struct {
	DisplayName string
	Company     string
	Title       string
	Industry    string
	UpdatedAt   time.Time
}

// Node is a person reachable in the graph for one query.
type Node struct {
	NodeInfo
	ID   string
	Tier Tier
}

// NewNode validates id against the format its tier requires.
func NewNode(id string, tier Tier, info NodeInfo) (Node, error) {
	if err := validateNodeID(id, tier); err != nil {
		return Node{}, err
	}
	return Node{NodeInfo: info, ID: id, Tier: tier}, nil
}

func validateNodeID(id string, tier Tier) error {
	switch tier {
	case TierSelf:
		if id != SelfNodeID {
			return fmt.Errorf("%w: self node must use id %q, got %q", ErrInvalidNode, SelfNodeID, id)
		}
	case TierOwned:
		if strings.TrimSpace(id) == "" || id == SelfNodeID ||
			strings.HasPrefix(id, teammatePrefix) || strings.HasPrefix(id, teamSharedPrefix) {
			return fmt.Errorf("%w: %q is not a valid contact id", ErrInvalidNode, id)
		}
	case TierTeammate:
		rest, ok := strings.CutPrefix(id, teammatePrefix)
		if !ok || rest == "" {
			return fmt.Errorf("%w: %q is not a valid teammate id", ErrInvalidNode, id)
		}
	case TierTeamShared:
		if _, _, ok := SplitTeamSharedID(id); !ok {
			return fmt.Errorf("%w: %q is not a valid team contact id", ErrInvalidNode, id)
		}
	default:
		return fmt.Errorf("%w: unknown tier %q", ErrInvalidNode, tier)
	}
	return nil
}

// Edge is an undirected relationship between two nodes.
type Edge struct {
	From     string
	To       string
	Strength int
	Kind     EdgeKind
	Verified bool
}

// NewEdge validates strength range, endpoints and kind.
func NewEdge(from, to string, strength int, kind EdgeKind, verified bool) (Edge, error) {
	if from == "" || to == "" {
		return Edge{}, fmt.Errorf("%w: endpoints are required", ErrInvalidEdge)
	}
	if from == to {
		return Edge{}, fmt.Errorf("%w: self loop on %q", ErrInvalidEdge, from)
	}
	if strength < MinStrength || strength > MaxStrength {
		return Edge{}, fmt.Errorf("%w: strength %d outside %d..%d", ErrInvalidEdge, strength, MinStrength, MaxStrength)
	}
	switch kind {
	case KindDirect, KindPeer, KindTeammateLink, KindTeamShared:
	default:
		return Edge{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidEdge, kind)
	}
	return Edge{From: from, To: to, Strength: strength, Kind: kind, Verified: verified}, nil
}

// Other returns the endpoint opposite id.
func (e Edge) Other(id string) string {
	if e.From == id {
		return e.To
	}
	return e.From
}

// orientedFrom returns a copy of e pointing away from id.
func (e Edge) orientedFrom(id string) Edge {
	if e.From == id {
		return e
	}
	e.From, e.To = e.To, e.From
	return e
}

// Path is a simple path starting at the self node.
type Path struct {
	Nodes []Node
	Edges []Edge
}

// Hops is the number of edges along the path.
func (p Path) Hops() int {
	return len(p.Edges)
}

// Target returns the last node of the path.
func (p Path) Target() Node {
	if len(p.Nodes) == 0 {
		return Node{}
	}
	return p.Nodes[len(p.Nodes)-1]
}

// NodeIDs lists the node ids in path order.
func (p Path) NodeIDs() []string {
	ids := make([]string, len(p.Nodes))
	for i, n := range p.Nodes {
		ids[i] = n.ID
	}
	return ids
}
