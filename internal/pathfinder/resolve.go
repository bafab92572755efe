package pathfinder

import (
	"slices"
	"strings"
	"unicode/utf8"
)

const (
	exactMatchScore     = 100
	substringMatchScore = 50
	hintBonus           = 40

	// minMatchRunes keeps one-letter fields from matching every description.
	minMatchRunes = 2
)

// Hints are structured fields extracted from a free-text target description.
type Hints struct {
	Name     string `json:"name,omitempty"`
	Company  string `json:"company,omitempty"`
	Title    string `json:"title,omitempty"`
	Industry string `json:"industry,omitempty"`
}

// Empty reports whether no hint field is set.
func (h Hints) Empty() bool {
	return strings.TrimSpace(h.Name) == "" && strings.TrimSpace(h.Company) == "" &&
		strings.TrimSpace(h.Title) == "" && strings.TrimSpace(h.Industry) == ""
}

// Candidate is a node matched by a target description.
type Candidate struct {
	Node          Node
	Score         int
	IsTeamContact bool
	TeamID        string
	ContactID     string
}

// ResolveTarget picks the best matching owned or team-shared node for
// description. ok is false when nothing scores above zero.
func ResolveTarget(g *Graph, description string, hints Hints) (Candidate, bool) {
	candidates := MatchCandidates(g, description, hints)
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	return candidates[0], true
}

// MatchCandidates returns every node scoring above zero, best first. Ties go to
// the most recently updated contact, then to the smallest node id.
func MatchCandidates(g *Graph, description string, hints Hints) []Candidate {
	query := normalizeText(description)
	var out []Candidate
	for _, n := range g.nodes {
		if n.Tier != TierOwned && n.Tier != TierTeamShared {
			continue
		}
		score := scoreNode(n, query, hints)
		if score <= 0 {
			continue
		}
		c := Candidate{Node: n, Score: score, ContactID: n.ID}
		if n.Tier == TierTeamShared {
			c.IsTeamContact = true
			c.TeamID, c.ContactID, _ = SplitTeamSharedID(n.ID)
		}
		out = append(out, c)
	}

	slices.SortFunc(out, func(a, b Candidate) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		if c := b.Node.UpdatedAt.Compare(a.Node.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Node.ID, b.Node.ID)
	})
	return out
}

func scoreNode(n Node, query string, hints Hints) int {
	score := matchScore(n.DisplayName, query) +
		matchScore(n.Company, query) +
		matchScore(n.Title, query)

	score += hintScore(n.DisplayName, hints.Name)
	score += hintScore(n.Company, hints.Company)
	score += hintScore(n.Title, hints.Title)
	score += hintScore(n.Industry, hints.Industry)
	return score
}

func hintScore(field, hint string) int {
	s := matchScore(field, normalizeText(hint))
	if s == 0 {
		return 0
	}
	return s + hintBonus
}

// matchScore compares a field against an already normalized query.
func matchScore(field, query string) int {
	f := normalizeText(field)
	if f == "" || query == "" {
		return 0
	}
	if f == query {
		return exactMatchScore
	}
	if utf8.RuneCountInString(f) < minMatchRunes || utf8.RuneCountInString(query) < minMatchRunes {
		return 0
	}
	if strings.Contains(f, query) || strings.Contains(query, f) {
		return substringMatchScore
	}
	return 0
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
