package pathfinder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vanshika/warmpath/internal/domain"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// networkBuilder assembles domain.Network fixtures for a single user.
type networkBuilder struct {
	net   domain.Network
	teams map[string]int
}

func newNetwork(userID string) *networkBuilder {
	return &networkBuilder{
		net:   domain.Network{User: domain.User{ID: userID, Name: "Alex Owner"}},
		teams: make(map[string]int),
	}
}

func (b *networkBuilder) contact(id, name, company, title string) *networkBuilder {
	b.net.Contacts = append(b.net.Contacts, domain.Contact{
		ID:          id,
		OwnerUserID: b.net.User.ID,
		Name:        name,
		Company:     company,
		Title:       title,
		UpdatedAt:   baseTime,
	})
	return b
}

func (b *networkBuilder) userRel(contactID string, strength int) *networkBuilder {
	b.net.Relationships = append(b.net.Relationships, domain.Relationship{
		ID:                 "rel-" + contactID,
		OwnerUserID:        b.net.User.ID,
		ContactAID:         contactID,
		IsUserRelationship: true,
		Strength:           strength,
		Verified:           true,
	})
	return b
}

func (b *networkBuilder) peer(a, c string, strength int, verified bool) *networkBuilder {
	b.net.Relationships = append(b.net.Relationships, domain.Relationship{
		ID:          "rel-" + a + "-" + c,
		OwnerUserID: b.net.User.ID,
		ContactAID:  a,
		ContactBID:  c,
		Strength:    strength,
		Verified:    verified,
	})
	return b
}

func (b *networkBuilder) team(teamID string, members ...domain.User) *networkBuilder {
	b.teams[teamID] = len(b.net.Teams)
	b.net.Teams = append(b.net.Teams, domain.TeamNetwork{
		Team:    domain.Team{ID: teamID, Name: teamID},
		Members: members,
	})
	return b
}

func (b *networkBuilder) share(teamID, sharerID string, c domain.Contact, visible bool) *networkBuilder {
	idx := b.teams[teamID]
	c.OwnerUserID = sharerID
	b.net.Teams[idx].Shares = append(b.net.Teams[idx].Shares, domain.SharedContact{
		TeamID:         teamID,
		SharedByUserID: sharerID,
		Contact:        c,
		Visible:        visible,
	})
	return b
}

func (b *networkBuilder) graph(t *testing.T) *Graph {
	t.Helper()
	g, err := BuildGraph(b.net)
	require.NoError(t, err)
	return g
}

// requireSimplePaths checks the structural invariants every emitted path must hold.
func requireSimplePaths(t *testing.T, paths []Path, target string, maxHops int) {
	t.Helper()
	for _, p := range paths {
		require.NotEmpty(t, p.Nodes)
		require.Equal(t, SelfNodeID, p.Nodes[0].ID)
		require.Equal(t, target, p.Target().ID)
		require.Equal(t, len(p.Nodes)-1, p.Hops())
		require.Equal(t, len(p.Edges), p.Hops())
		require.LessOrEqual(t, p.Hops(), maxHops)

		seen := make(map[string]bool, len(p.Nodes))
		for i, n := range p.Nodes {
			require.False(t, seen[n.ID], "node %s repeats in %v", n.ID, p.NodeIDs())
			seen[n.ID] = true
			if i > 0 {
				require.Equal(t, p.Nodes[i-1].ID, p.Edges[i-1].From)
				require.Equal(t, n.ID, p.Edges[i-1].To)
			}
		}
	}
}
