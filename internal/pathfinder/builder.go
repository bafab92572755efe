package pathfinder

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vanshika/warmpath/internal/domain"
)

const (
	// DefaultRelationshipStrength applies when a record leaves strength unspecified.
	DefaultRelationshipStrength = 3
	// TeammateLinkStrength is the synthetic strength of self -> teammate edges.
	TeammateLinkStrength = 4
	// TeamSharedStrength is the synthetic strength of teammate -> shared contact edges.
	TeamSharedStrength = 3
	// LowConfidenceThreshold marks AI-inferred relationships below it as unverified.
	LowConfidenceThreshold = 0.7
)

// BuildGraph assembles the graph visible to network.User. Raw records that fail
// node or edge validation are skipped and counted in SkippedRecords.
func BuildGraph(network domain.Network) (*Graph, error) {
	userID := strings.TrimSpace(network.User.ID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidNode)
	}

	g := NewGraph(userID, NodeInfo{
		DisplayName: network.User.Name,
		UpdatedAt:   network.User.UpdatedAt,
	})

	g.addOwnedContacts(network.Contacts)
	g.addDirectEdges(network.Relationships)
	g.addPeerEdges(network.Relationships)
	g.addTeams(network.Teams)

	return g, nil
}

func (g *Graph) addOwnedContacts(contacts []domain.Contact) {
	sorted := slices.Clone(contacts)
	slices.SortFunc(sorted, func(a, b domain.Contact) int { return strings.Compare(a.ID, b.ID) })

	for _, c := range sorted {
		if c.OwnerUserID != "" && c.OwnerUserID != g.userID {
			g.skipped++
			continue
		}
		node, err := NewNode(c.ID, TierOwned, contactInfo(c))
		if err != nil {
			g.skipped++
			continue
		}
		if err := g.AddNode(node); err != nil {
			g.skipped++
		}
	}
}

// addDirectEdges links every owned contact to self. Strength comes from the
// user's own relationship records; contacts without one get the default.
func (g *Graph) addDirectEdges(rels []domain.Relationship) {
	recorded := make(map[string]bool)
	for _, r := range rels {
		if !r.IsUserRelationship || (r.OwnerUserID != "" && r.OwnerUserID != g.userID) {
			continue
		}
		contactID := r.ContactAID
		if contactID == "" {
			contactID = r.ContactBID
		}
		if n, ok := g.nodes[contactID]; !ok || n.Tier != TierOwned {
			g.skipped++
			continue
		}
		edge, err := NewEdge(SelfNodeID, contactID, normalizeStrength(r.Strength), KindDirect, !lowConfidence(r))
		if err != nil {
			g.skipped++
			continue
		}
		if err := g.AddEdge(edge); err != nil {
			g.skipped++
			continue
		}
		recorded[contactID] = true
	}

	for id, n := range g.nodes {
		if n.Tier != TierOwned || recorded[id] {
			continue
		}
		edge, err := NewEdge(SelfNodeID, id, DefaultRelationshipStrength, KindDirect, true)
		if err != nil {
			continue
		}
		_ = g.AddEdge(edge)
	}
}

func (g *Graph) addPeerEdges(rels []domain.Relationship) {
	for _, r := range rels {
		if r.IsUserRelationship || r.ContactAID == "" || r.ContactBID == "" {
			continue
		}
		if r.OwnerUserID != "" && r.OwnerUserID != g.userID {
			g.skipped++
			continue
		}
		a, okA := g.nodes[r.ContactAID]
		b, okB := g.nodes[r.ContactBID]
		if !okA || !okB || a.Tier != TierOwned || b.Tier != TierOwned {
			g.skipped++
			continue
		}
		edge, err := NewEdge(r.ContactAID, r.ContactBID, normalizeStrength(r.Strength), KindPeer, r.Verified && !lowConfidence(r))
		if err != nil {
			g.skipped++
			continue
		}
		if err := g.AddEdge(edge); err != nil {
			g.skipped++
		}
	}
}

func (g *Graph) addTeams(teams []domain.TeamNetwork) {
	sorted := slices.Clone(teams)
	slices.SortFunc(sorted, func(a, b domain.TeamNetwork) int { return strings.Compare(a.Team.ID, b.Team.ID) })

	for _, tn := range sorted {
		teamID := tn.Team.ID
		if teamID == "" || strings.Contains(teamID, ":") {
			g.skipped++
			continue
		}

		members := make(map[string]bool, len(tn.Members))
		for _, m := range tn.Members {
			if m.ID == "" || m.ID == g.userID {
				continue
			}
			if !g.ensureTeammate(m) {
				continue
			}
			members[m.ID] = true
		}

		for _, share := range tn.Shares {
			if !share.Visible {
				continue
			}
			sharer := share.SharedByUserID
			if sharer == "" {
				sharer = share.Contact.OwnerUserID
			}
			if sharer == g.userID || !members[sharer] {
				g.skipped++
				continue
			}
			g.addSharedContact(teamID, sharer, share.Contact)
		}
	}
}

func (g *Graph) ensureTeammate(member domain.User) bool {
	id := TeammateNodeID(member.ID)
	if _, exists := g.nodes[id]; !exists {
		node, err := NewNode(id, TierTeammate, NodeInfo{DisplayName: member.Name, UpdatedAt: member.UpdatedAt})
		if err != nil {
			g.skipped++
			return false
		}
		if err := g.AddNode(node); err != nil {
			g.skipped++
			return false
		}
	}
	edge, err := NewEdge(SelfNodeID, id, TeammateLinkStrength, KindTeammateLink, true)
	if err != nil {
		return false
	}
	return g.AddEdge(edge) == nil
}

func (g *Graph) addSharedContact(teamID, sharerID string, c domain.Contact) {
	id := TeamSharedNodeID(teamID, c.ID)
	if _, exists := g.nodes[id]; !exists {
		node, err := NewNode(id, TierTeamShared, contactInfo(c))
		if err != nil {
			g.skipped++
			return
		}
		if err := g.AddNode(node); err != nil {
			g.skipped++
			return
		}
	}
	edge, err := NewEdge(TeammateNodeID(sharerID), id, TeamSharedStrength, KindTeamShared, true)
	if err != nil {
		g.skipped++
		return
	}
	if err := g.AddEdge(edge); err != nil {
		g.skipped++
	}
}

func contactInfo(c domain.Contact) NodeInfo {
	return NodeInfo{
		DisplayName: c.Name,
		Company:     c.Company,
		Title:       c.Title,
		Industry:    c.Industry,
		UpdatedAt:   c.UpdatedAt,
	}
}

// normalizeStrength maps the unspecified value 0 to the default. Anything else
// is passed through and validated by NewEdge.
func normalizeStrength(s int) int {
	if s == 0 {
		return DefaultRelationshipStrength
	}
	return s
}

func lowConfidence(r domain.Relationship) bool {
	return r.AIInferred && r.Confidence < LowConfidenceThreshold
}
