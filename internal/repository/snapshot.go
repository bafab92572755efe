package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/vanshika/warmpath/internal/domain"
)

// SnapshotStore serves the same reads and writes as Repository over an
// in-memory dataset, for offline search and tests.
type SnapshotStore struct {
	mu            sync.RWMutex
	users         map[string]domain.User
	contacts      map[string]domain.Contact
	relationships map[string]domain.Relationship
	teams         map[string]domain.Team
	shares        map[string]domain.TeamShare
}

// NewSnapshotStore indexes ds. Later records win on duplicate ids.
func NewSnapshotStore(ds domain.Dataset) *SnapshotStore {
	s := &SnapshotStore{
		users:         make(map[string]domain.User, len(ds.Users)),
		contacts:      make(map[string]domain.Contact, len(ds.Contacts)),
		relationships: make(map[string]domain.Relationship, len(ds.Relationships)),
		teams:         make(map[string]domain.Team, len(ds.Teams)),
		shares:        make(map[string]domain.TeamShare, len(ds.Shares)),
	}
	for _, u := range ds.Users {
		s.users[u.ID] = u
	}
	for _, c := range ds.Contacts {
		s.contacts[c.ID] = c
	}
	for _, r := range ds.Relationships {
		s.relationships[r.ID] = r
	}
	for _, t := range ds.Teams {
		s.teams[t.ID] = t
	}
	for _, sh := range ds.Shares {
		s.shares[shareKey(sh.TeamID, sh.ContactID)] = sh
	}
	return s
}

// LoadSnapshotFile reads a JSON dataset from path.
func LoadSnapshotFile(path string) (*SnapshotStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return LoadSnapshot(f)
}

// LoadSnapshot decodes a JSON dataset from r.
func LoadSnapshot(r io.Reader) (*SnapshotStore, error) {
	var ds domain.Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return NewSnapshotStore(ds), nil
}

// Dataset returns the current contents ordered by id.
func (s *SnapshotStore) Dataset() domain.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.Dataset{
		Users:         sortedValues(s.users),
		Contacts:      sortedValues(s.contacts),
		Relationships: sortedValues(s.relationships),
		Teams:         sortedValues(s.teams),
		Shares:        sortedValues(s.shares),
	}
}

func (s *SnapshotStore) UpsertUser(_ context.Context, user domain.User) error {
	if user.ID == "" {
		return errors.New("user id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

func (s *SnapshotStore) UpsertContact(_ context.Context, contact domain.Contact) error {
	if contact.ID == "" || contact.OwnerUserID == "" {
		return errors.New("contact id and owner user id are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[contact.OwnerUserID]; !ok {
		return fmt.Errorf("owner %s: %w", contact.OwnerUserID, ErrNotFound)
	}
	s.contacts[contact.ID] = contact
	return nil
}

func (s *SnapshotStore) UpsertRelationship(_ context.Context, rel domain.Relationship) error {
	if rel.ID == "" || rel.OwnerUserID == "" || rel.ContactAID == "" {
		return errors.New("relationship id, owner user id and contact a id are required")
	}
	if !rel.IsUserRelationship && rel.ContactBID == "" {
		return errors.New("contact b id is required for a contact relationship")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relationships[rel.ID] = rel
	return nil
}

func (s *SnapshotStore) UpsertTeam(_ context.Context, team domain.Team) error {
	if team.ID == "" {
		return errors.New("team id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	team.MemberIDs = slices.Clone(team.MemberIDs)
	s.teams[team.ID] = team
	return nil
}

func (s *SnapshotStore) ShareContact(_ context.Context, share domain.TeamShare) error {
	if share.TeamID == "" || share.ContactID == "" {
		return errors.New("team id and contact id are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shares[shareKey(share.TeamID, share.ContactID)] = share
	return nil
}

func (s *SnapshotStore) FetchUser(ctx context.Context, userID string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return domain.User{}, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return u, nil
}

func (s *SnapshotStore) FetchOwnedContacts(ctx context.Context, userID string) ([]domain.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Contact
	for _, c := range s.contacts {
		if c.OwnerUserID == userID {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b domain.Contact) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

// FetchRelationships mirrors the graph query: the user's own records plus
// records between two contacts the user owns.
func (s *SnapshotStore) FetchRelationships(ctx context.Context, userID string) ([]domain.Relationship, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := func(id string) bool {
		c, ok := s.contacts[id]
		return ok && c.OwnerUserID == userID
	}

	var out []domain.Relationship
	for _, r := range s.relationships {
		if r.OwnerUserID != userID {
			continue
		}
		if r.IsUserRelationship {
			if owned(r.ContactAID) {
				out = append(out, r)
			}
			continue
		}
		if owned(r.ContactAID) && owned(r.ContactBID) {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b domain.Relationship) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *SnapshotStore) FetchTeamNetworks(ctx context.Context, userID string) ([]domain.TeamNetwork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.TeamNetwork
	for _, team := range sortedValues(s.teams) {
		if !slices.Contains(team.MemberIDs, userID) {
			continue
		}
		tn := domain.TeamNetwork{Team: team}
		for _, id := range team.MemberIDs {
			if id == userID {
				continue
			}
			if u, ok := s.users[id]; ok {
				tn.Members = append(tn.Members, u)
			}
		}
		for _, sh := range sortedValues(s.shares) {
			if sh.TeamID != team.ID {
				continue
			}
			c, ok := s.contacts[sh.ContactID]
			if !ok {
				continue
			}
			tn.Shares = append(tn.Shares, domain.SharedContact{
				TeamID:         team.ID,
				SharedByUserID: c.OwnerUserID,
				Contact:        c,
				Visible:        sh.Visible,
			})
		}
		out = append(out, tn)
	}
	return out, nil
}

// VerifyConnectivity always succeeds.
func (s *SnapshotStore) VerifyConnectivity(context.Context) error {
	return nil
}

func shareKey(teamID, contactID string) string {
	return teamID + "\x00" + contactID
}

func sortedValues[T any](m map[string]T) []T {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
