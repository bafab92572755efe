package pathfinder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/warmpath/internal/domain"
)

func TestBuildGraph_NoContacts(t *testing.T) {
	g := newNetwork("u1").graph(t)

	assert.Equal(t, 1, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())
	self, ok := g.Node(SelfNodeID)
	require.True(t, ok)
	assert.Equal(t, TierSelf, self.Tier)
	assert.Equal(t, "u1", g.UserID())
}

func TestBuildGraph_RequiresUser(t *testing.T) {
	_, err := BuildGraph(domain.Network{})
	assert.ErrorIs(t, err, ErrInvalidNode)
}

func TestBuildGraph_DirectEdges(t *testing.T) {
	g := newNetwork("u1").
		contact("mark", "Mark Lee", "Acme", "CTO").
		contact("nina", "Nina Park", "Globex", "PM").
		userRel("mark", 4).
		graph(t)

	mark, ok := g.EdgeBetween(SelfNodeID, "mark")
	require.True(t, ok)
	assert.Equal(t, KindDirect, mark.Kind)
	assert.Equal(t, 4, mark.Strength)

	nina, ok := g.EdgeBetween(SelfNodeID, "nina")
	require.True(t, ok)
	assert.Equal(t, DefaultRelationshipStrength, nina.Strength, "contacts without a user relationship get the default strength")
}

func TestBuildGraph_UnspecifiedStrengthDefaults(t *testing.T) {
	g := newNetwork("u1").
		contact("a", "A", "", "").
		contact("b", "B", "", "").
		userRel("a", 0).
		peer("a", "b", 0, true).
		graph(t)

	e, _ := g.EdgeBetween(SelfNodeID, "a")
	assert.Equal(t, DefaultRelationshipStrength, e.Strength)
	e, _ = g.EdgeBetween("a", "b")
	assert.Equal(t, DefaultRelationshipStrength, e.Strength)
}

func TestBuildGraph_PeerEdges(t *testing.T) {
	b := newNetwork("u1").
		contact("a", "A", "", "").
		contact("b", "B", "", "").
		contact("c", "C", "", "").
		peer("a", "b", 5, true).
		peer("a", "ghost", 5, true).
		peer("c", "c", 4, true)
	b.net.Relationships = append(b.net.Relationships, domain.Relationship{
		ID:          "inferred",
		OwnerUserID: "u1",
		ContactAID:  "b",
		ContactBID:  "c",
		Strength:    4,
		Verified:    true,
		AIInferred:  true,
		Confidence:  0.4,
	})
	g := b.graph(t)

	ab, ok := g.EdgeBetween("a", "b")
	require.True(t, ok)
	assert.Equal(t, KindPeer, ab.Kind)
	assert.True(t, ab.Verified)

	bc, ok := g.EdgeBetween("b", "c")
	require.True(t, ok, "low-confidence inferred relationships are still included")
	assert.False(t, bc.Verified)

	assert.False(t, g.HasNode("ghost"))
	assert.Equal(t, 2, g.SkippedRecords(), "unknown contact and self loop are skipped")
}

func TestBuildGraph_PeerDeduplication(t *testing.T) {
	g := newNetwork("u1").
		contact("a", "A", "", "").
		contact("b", "B", "", "").
		peer("a", "b", 5, false).
		peer("b", "a", 2, true).
		graph(t)

	e, ok := g.EdgeBetween("a", "b")
	require.True(t, ok)
	assert.Equal(t, 2, e.Strength)
	assert.True(t, e.Verified)
}

func TestBuildGraph_IgnoresForeignContacts(t *testing.T) {
	b := newNetwork("u1")
	b.net.Contacts = append(b.net.Contacts, domain.Contact{ID: "x", OwnerUserID: "u2", Name: "X"})
	g := b.graph(t)

	assert.False(t, g.HasNode("x"))
	assert.Equal(t, 1, g.SkippedRecords())
}

func TestBuildGraph_TeamAugmentation(t *testing.T) {
	dana := domain.User{ID: "u2", Name: "Dana"}
	eli := domain.User{ID: "u3", Name: "Eli"}
	g := newNetwork("u1").
		team("t1", domain.User{ID: "u1"}, dana, eli).
		share("t1", "u2", domain.Contact{ID: "c9", Name: "Sarah Chen", Company: "TechCorp"}, true).
		share("t1", "u3", domain.Contact{ID: "c10", Name: "Hidden"}, false).
		share("t1", "u7", domain.Contact{ID: "c11", Name: "Stranger"}, true).
		graph(t)

	assert.True(t, g.HasNode(TeammateNodeID("u2")))
	assert.True(t, g.HasNode(TeammateNodeID("u3")))
	assert.False(t, g.HasNode(TeammateNodeID("u1")), "the user is never their own teammate")

	link, ok := g.EdgeBetween(SelfNodeID, TeammateNodeID("u2"))
	require.True(t, ok)
	assert.Equal(t, KindTeammateLink, link.Kind)
	assert.Equal(t, TeammateLinkStrength, link.Strength)

	sharedID := TeamSharedNodeID("t1", "c9")
	shared, ok := g.Node(sharedID)
	require.True(t, ok)
	assert.Equal(t, TierTeamShared, shared.Tier)
	assert.Equal(t, "Sarah Chen", shared.DisplayName)

	edge, ok := g.EdgeBetween(TeammateNodeID("u2"), sharedID)
	require.True(t, ok)
	assert.Equal(t, KindTeamShared, edge.Kind)
	assert.Equal(t, TeamSharedStrength, edge.Strength)

	_, ok = g.EdgeBetween(SelfNodeID, sharedID)
	assert.False(t, ok, "team-shared contacts are reachable only through a teammate")

	assert.False(t, g.HasNode(TeamSharedNodeID("t1", "c10")), "hidden shares are excluded")
	assert.False(t, g.HasNode(TeamSharedNodeID("t1", "c11")), "shares from non-members are excluded")
}

func TestBuildGraph_TeammateInSeveralTeams(t *testing.T) {
	dana := domain.User{ID: "u2", Name: "Dana"}
	g := newNetwork("u1").
		team("t1", dana).
		team("t2", dana).
		share("t1", "u2", domain.Contact{ID: "c9", Name: "Sarah"}, true).
		share("t2", "u2", domain.Contact{ID: "c9", Name: "Sarah"}, true).
		graph(t)

	assert.Equal(t, 4, g.NodeCount(), "self, one teammate and one node per team share")
	assert.True(t, g.HasNode(TeamSharedNodeID("t1", "c9")))
	assert.True(t, g.HasNode(TeamSharedNodeID("t2", "c9")))
	assert.Equal(t, 3, g.EdgeCount())
}

func TestBuildGraph_OrderIndependent(t *testing.T) {
	forward := newNetwork("u1").
		contact("a", "A", "", "").
		contact("b", "B", "", "").
		contact("c", "C", "", "").
		userRel("a", 5).
		peer("a", "b", 4, true).
		peer("b", "c", 2, false).
		peer("a", "b", 1, true)

	reversed := newNetwork("u1")
	for i := len(forward.net.Contacts) - 1; i >= 0; i-- {
		reversed.net.Contacts = append(reversed.net.Contacts, forward.net.Contacts[i])
	}
	for i := len(forward.net.Relationships) - 1; i >= 0; i-- {
		reversed.net.Relationships = append(reversed.net.Relationships, forward.net.Relationships[i])
	}

	g1 := forward.graph(t)
	g2 := reversed.graph(t)
	assert.Equal(t, g1.Nodes(), g2.Nodes())
	assert.Equal(t, g1.Edges(), g2.Edges())
}
