package generator

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/vanshika/warmpath/internal/domain"
)

// maxPeerCandidates bounds how many later contacts each contact is tested
// against, keeping generation linear in the address-book size.
const maxPeerCandidates = 8

// Generator produces synthetic contact networks in the ingestion schema.
type Generator struct {
	cfg       Config
	rand      *rand.Rand
	fragments nameFragments
	people    []person
}

// person is an individual who may appear in several address books.
type person struct {
	name     string
	email    string
	company  string
	title    string
	industry string
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.NumUsers <= 0 {
		cfg.NumUsers = def.NumUsers
	}
	if cfg.ContactsPerUser <= 0 {
		cfg.ContactsPerUser = def.ContactsPerUser
	}
	if cfg.PeerChance <= 0 {
		cfg.PeerChance = def.PeerChance
	}
	if cfg.SharedPersonChance <= 0 {
		cfg.SharedPersonChance = def.SharedPersonChance
	}
	if cfg.AIInferredChance <= 0 {
		cfg.AIInferredChance = def.AIInferredChance
	}
	if cfg.NumTeams < 0 {
		cfg.NumTeams = 0
	}
	if cfg.TeamSize <= 1 {
		cfg.TeamSize = def.TeamSize
	}
	if cfg.ShareChance <= 0 {
		cfg.ShareChance = def.ShareChance
	}
	if cfg.HiddenShareChance < 0 {
		cfg.HiddenShareChance = 0
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Reference.IsZero() {
		cfg.Reference = time.Now().UTC()
	}

	return &Generator{
		cfg:       cfg,
		rand:      rand.New(rand.NewSource(cfg.Seed)),
		fragments: defaultNameFragments(),
	}
}

// Generate synthesises users, their contacts and relationships, teams and
// shares. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (domain.Dataset, error) {
	var ds domain.Dataset
	now := g.cfg.Reference

	ds.Users = make([]domain.User, g.cfg.NumUsers)
	owned := make(map[string][]string, g.cfg.NumUsers)

	for i := 0; i < g.cfg.NumUsers; i++ {
		if err := ctx.Err(); err != nil {
			return domain.Dataset{}, err
		}

		userID := fmt.Sprintf("USR-%05d", i+1)
		createdAt := now.Add(-time.Duration(g.rand.Intn(365*24)) * time.Hour)
		first, last := g.randomName()
		ds.Users[i] = domain.User{
			ID:        userID,
			Name:      first + " " + last,
			Email:     g.email(first, last),
			CreatedAt: createdAt,
			UpdatedAt: createdAt.Add(time.Duration(g.rand.Intn(72)) * time.Hour),
		}

		contacts := g.addressBook(userID, now)
		for _, c := range contacts {
			owned[userID] = append(owned[userID], c.ID)
		}
		ds.Contacts = append(ds.Contacts, contacts...)
		ds.Relationships = append(ds.Relationships, g.relationships(userID, contacts, now)...)
	}

	teams, shares, err := g.teams(ctx, ds.Users, owned, now)
	if err != nil {
		return domain.Dataset{}, err
	}
	ds.Teams = teams
	ds.Shares = shares
	return ds, nil
}

func (g *Generator) addressBook(userID string, now time.Time) []domain.Contact {
	contacts := make([]domain.Contact, 0, g.cfg.ContactsPerUser)
	for j := 0; j < g.cfg.ContactsPerUser; j++ {
		p := g.maybeSharedPerson()
		createdAt := now.Add(-time.Duration(g.rand.Intn(3*365*24)) * time.Hour)
		contacts = append(contacts, domain.Contact{
			ID:          fmt.Sprintf("CT-%s-%04d", strings.TrimPrefix(userID, "USR-"), j+1),
			OwnerUserID: userID,
			Name:        p.name,
			Email:       p.email,
			Company:     p.company,
			Title:       p.title,
			Industry:    p.industry,
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt.Add(time.Duration(g.rand.Intn(90*24)) * time.Hour),
		})
	}
	return contacts
}

// relationships emits the owner's tie to most contacts and peer ties between
// some pairs of them. Contacts without an owner record fall back to the
// default strength at search time.
func (g *Generator) relationships(userID string, contacts []domain.Contact, now time.Time) []domain.Relationship {
	var rels []domain.Relationship
	seq := 0
	next := func() string {
		seq++
		return fmt.Sprintf("REL-%s-%05d", strings.TrimPrefix(userID, "USR-"), seq)
	}

	for _, c := range contacts {
		if g.rand.Float64() < 0.2 {
			continue
		}
		rels = append(rels, domain.Relationship{
			ID:                 next(),
			OwnerUserID:        userID,
			ContactAID:         c.ID,
			IsUserRelationship: true,
			RelationshipType:   g.pick(g.fragments.relationshipTypes),
			Strength:           1 + g.rand.Intn(5),
			Verified:           true,
			UpdatedAt:          now.Add(-time.Duration(g.rand.Intn(180*24)) * time.Hour),
		})
	}

	for i := range contacts {
		limit := min(len(contacts), i+1+maxPeerCandidates)
		for j := i + 1; j < limit; j++ {
			if g.rand.Float64() >= g.cfg.PeerChance {
				continue
			}
			rel := domain.Relationship{
				ID:               next(),
				OwnerUserID:      userID,
				ContactAID:       contacts[i].ID,
				ContactBID:       contacts[j].ID,
				RelationshipType: g.pick(g.fragments.relationshipTypes),
				UpdatedAt:        now.Add(-time.Duration(g.rand.Intn(180*24)) * time.Hour),
			}
			if g.rand.Float64() < g.cfg.AIInferredChance {
				rel.AIInferred = true
				rel.Confidence = float64(40+g.rand.Intn(60)) / 100
				rel.Strength = 2 + g.rand.Intn(3)
			} else {
				rel.Verified = g.rand.Float64() < 0.7
				// Zero leaves the strength unspecified.
				rel.Strength = g.rand.Intn(6)
			}
			rels = append(rels, rel)
		}
	}
	return rels
}

func (g *Generator) teams(ctx context.Context, users []domain.User, owned map[string][]string, now time.Time) ([]domain.Team, []domain.TeamShare, error) {
	if len(users) < 2 {
		return nil, nil, nil
	}
	size := min(g.cfg.TeamSize, len(users))

	var (
		teams  []domain.Team
		shares []domain.TeamShare
	)
	for t := 0; t < g.cfg.NumTeams; t++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		members := make([]string, 0, size)
		for _, idx := range g.rand.Perm(len(users))[:size] {
			members = append(members, users[idx].ID)
		}
		team := domain.Team{
			ID:        fmt.Sprintf("TEAM-%03d", t+1),
			Name:      fmt.Sprintf("%s %s", g.pick(g.fragments.teamAdjectives), g.pick(g.fragments.teamNouns)),
			MemberIDs: members,
			CreatedAt: now.Add(-time.Duration(g.rand.Intn(365*24)) * time.Hour),
		}
		teams = append(teams, team)

		for _, member := range members {
			for _, contactID := range owned[member] {
				if g.rand.Float64() >= g.cfg.ShareChance {
					continue
				}
				shares = append(shares, domain.TeamShare{
					TeamID:    team.ID,
					ContactID: contactID,
					Visible:   g.rand.Float64() >= g.cfg.HiddenShareChance,
					SharedAt:  team.CreatedAt.Add(time.Duration(g.rand.Intn(30*24)) * time.Hour),
				})
			}
		}
	}
	return teams, shares, nil
}

func (g *Generator) maybeSharedPerson() person {
	if len(g.people) > 0 && g.rand.Float64() < g.cfg.SharedPersonChance {
		return g.people[g.rand.Intn(len(g.people))]
	}
	first, last := g.randomName()
	employer := g.fragments.companies[g.rand.Intn(len(g.fragments.companies))]
	p := person{
		name:     first + " " + last,
		email:    g.email(first, last),
		company:  employer.name,
		title:    g.randomTitle(),
		industry: employer.industry,
	}
	g.people = append(g.people, p)
	return p
}

func (g *Generator) randomName() (string, string) {
	return g.pick(g.fragments.first), g.pick(g.fragments.last)
}

func (g *Generator) email(first, last string) string {
	return fmt.Sprintf("%s.%s%d@%s", strings.ToLower(first), strings.ToLower(last), g.rand.Intn(100), g.pick(g.fragments.domains))
}

func (g *Generator) randomTitle() string {
	seniority := g.pick(g.fragments.seniority)
	function := g.pick(g.fragments.functions)
	if seniority == "" {
		return function
	}
	return seniority + " " + function
}

func (g *Generator) pick(options []string) string {
	return options[g.rand.Intn(len(options))]
}

type company struct {
	name     string
	industry string
}

type nameFragments struct {
	first             []string
	last              []string
	domains           []string
	companies         []company
	seniority         []string
	functions         []string
	relationshipTypes []string
	teamAdjectives    []string
	teamNouns         []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		first:   []string{"Jane", "John", "Alex", "Priya", "Liu", "Maria", "Omar", "Sofia", "Noah", "Emma", "Lucas", "Mia", "Ava", "Ethan", "Zara", "Sarah", "Mark"},
		last:    []string{"Doe", "Smith", "Chen", "Patel", "Garcia", "Khan", "Kim", "Ivanov", "Nguyen", "Silva", "Brown", "Lee"},
		domains: []string{"example.com", "mail.com", "corp.io", "inbox.net"},
		companies: []company{
			{"TechCorp", "Software"},
			{"Globex", "Manufacturing"},
			{"Initech", "Software"},
			{"Umbrella Health", "Healthcare"},
			{"Stark Capital", "Finance"},
			{"Wayne Logistics", "Logistics"},
			{"Acme Retail", "Retail"},
			{"Hooli", "Internet"},
		},
		seniority:         []string{"", "Senior", "Lead", "Head of", "Director of", "VP of"},
		functions:         []string{"Engineering", "Sales", "Marketing", "Product", "Finance", "Operations", "Design"},
		relationshipTypes: []string{"colleague", "former colleague", "friend", "classmate", "investor", "client"},
		teamAdjectives:    []string{"Northern", "Enterprise", "Growth", "Platform", "Strategic"},
		teamNouns:         []string{"Sales", "Partnerships", "Recruiting", "Ventures", "Alliances"},
	}
}
