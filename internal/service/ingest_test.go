package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vanshika/warmpath/internal/config"
	"github.com/vanshika/warmpath/internal/domain"
	"github.com/vanshika/warmpath/internal/logging"
	"github.com/vanshika/warmpath/internal/repository"
)

func newIngestService(store *repository.SnapshotStore, now time.Time) *IntroService {
	svc := NewIntroService(store, nil, config.SearchConfig{}, logging.Discard())
	svc.WithClock(func() time.Time { return now })
	return svc
}

func TestIntroService_UpsertContactNormalises(t *testing.T) {
	store := repository.NewSnapshotStore(domain.Dataset{Users: []domain.User{{ID: "u1"}}})
	now := time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)
	svc := newIngestService(store, now)

	err := svc.UpsertContact(context.Background(), ContactInput{
		ID:          " c1 ",
		OwnerUserID: "u1",
		Name:        "  Sarah   Chen ",
		Email:       "Sarah.Chen@TechCorp.COM ",
		Company:     " TechCorp",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	contacts := store.Dataset().Contacts
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}
	c := contacts[0]
	if c.ID != "c1" || c.Name != "Sarah Chen" || c.Email != "sarah.chen@techcorp.com" || c.Company != "TechCorp" {
		t.Fatalf("unexpected normalised contact: %+v", c)
	}
	if !c.CreatedAt.Equal(now) || !c.UpdatedAt.Equal(now) {
		t.Fatalf("expected clock timestamps, got %v / %v", c.CreatedAt, c.UpdatedAt)
	}
}

func TestIntroService_UpsertContactRejectsReservedIDs(t *testing.T) {
	svc := newIngestService(repository.NewSnapshotStore(domain.Dataset{}), time.Now())
	for _, id := range []string{"self", "team:t1:c1", "teammate:u2"} {
		err := svc.UpsertContact(context.Background(), ContactInput{ID: id, OwnerUserID: "u1"})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", id, err)
		}
	}
}

func TestIntroService_UpsertRelationshipNormalises(t *testing.T) {
	store := repository.NewSnapshotStore(domain.Dataset{})
	svc := newIngestService(store, time.Now())
	ctx := context.Background()

	inputs := []RelationshipInput{
		{ID: "r1", OwnerUserID: "u1", ContactAID: "c1", ContactBID: "ignored", IsUserRelationship: true, Strength: 9},
		{ID: "r2", OwnerUserID: "u1", ContactAID: "c1", ContactBID: "c2", Strength: -4, Confidence: 1.5, RelationshipType: " Former Colleague "},
		{ID: "r3", OwnerUserID: "u1", ContactAID: "c1", ContactBID: "c2"},
	}
	for _, in := range inputs {
		if err := svc.UpsertRelationship(ctx, in); err != nil {
			t.Fatalf("%s: unexpected error: %v", in.ID, err)
		}
	}

	rels := store.Dataset().Relationships
	if rels[0].Strength != 5 || rels[0].ContactBID != "" {
		t.Fatalf("unexpected user relationship: %+v", rels[0])
	}
	if rels[1].Strength != 1 || rels[1].Confidence != 1 || rels[1].RelationshipType != "former colleague" {
		t.Fatalf("unexpected peer relationship: %+v", rels[1])
	}
	if rels[2].Strength != 0 {
		t.Fatalf("unspecified strength must stay zero, got %d", rels[2].Strength)
	}
}

func TestIntroService_UpsertRelationshipValidation(t *testing.T) {
	svc := newIngestService(repository.NewSnapshotStore(domain.Dataset{}), time.Now())
	cases := []RelationshipInput{
		{OwnerUserID: "u1", ContactAID: "c1", IsUserRelationship: true},
		{ID: "r1", OwnerUserID: "u1", ContactAID: "c1"},
		{ID: "r1", OwnerUserID: "u1", ContactAID: "c1", ContactBID: "c1"},
	}
	for _, in := range cases {
		if err := svc.UpsertRelationship(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%+v: expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestIntroService_UpsertTeamDedupesMembers(t *testing.T) {
	store := repository.NewSnapshotStore(domain.Dataset{})
	svc := newIngestService(store, time.Now())

	err := svc.UpsertTeam(context.Background(), TeamInput{ID: "t1", Name: " Sales ", MemberIDs: []string{"u1", " u2", "u1", ""}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	team := store.Dataset().Teams[0]
	if team.Name != "Sales" || !equalIDs(team.MemberIDs, []string{"u1", "u2"}) {
		t.Fatalf("unexpected team: %+v", team)
	}

	if err := svc.UpsertTeam(context.Background(), TeamInput{ID: "a:b"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected colon in team id to be rejected, got %v", err)
	}
}
