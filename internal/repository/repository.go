package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vanshika/warmpath/internal/domain"
	"github.com/vanshika/warmpath/internal/graph"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Repository stores the contact network in a graph database:
//
//	(:User)-[:OWNS]->(:Contact)
//	(:User)-[:KNOWS]->(:Contact)      the user's own relationship records
//	(:Contact)-[:KNOWS]->(:Contact)   relationships between two owned contacts
//	(:User)-[:MEMBER_OF]->(:Team)
//	(:Contact)-[:SHARED_WITH {visible}]->(:Team)
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// UpsertUser creates or refreshes a user node.
func (r *Repository) UpsertUser(ctx context.Context, user domain.User) error {
	if user.ID == "" {
		return errors.New("user id is required")
	}

	_, err := r.client.ExecuteWrite(ctx, upsertUserCypher, map[string]any{
		"userId": user.ID,
		"props":  userProperties(user),
	})
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", user.ID, err)
	}
	return nil
}

// UpsertContact creates or refreshes a contact and its OWNS edge. The owner
// must already exist.
func (r *Repository) UpsertContact(ctx context.Context, contact domain.Contact) error {
	if contact.ID == "" || contact.OwnerUserID == "" {
		return errors.New("contact id and owner user id are required")
	}

	_, err := r.client.ExecuteWrite(ctx, upsertContactCypher, map[string]any{
		"contactId": contact.ID,
		"ownerId":   contact.OwnerUserID,
		"props":     contactProperties(contact),
	})
	if err != nil {
		return fmt.Errorf("upsert contact %s: %w", contact.ID, err)
	}
	return nil
}

// UpsertRelationship stores a relationship record as a KNOWS edge, from the
// owner for user relationships and between the two contacts otherwise.
func (r *Repository) UpsertRelationship(ctx context.Context, rel domain.Relationship) error {
	if rel.ID == "" || rel.OwnerUserID == "" || rel.ContactAID == "" {
		return errors.New("relationship id, owner user id and contact a id are required")
	}

	params := map[string]any{
		"relationshipId": rel.ID,
		"ownerId":        rel.OwnerUserID,
		"contactAId":     rel.ContactAID,
		"props":          relationshipProperties(rel),
	}
	cypher := upsertUserRelationshipCypher
	if !rel.IsUserRelationship {
		if rel.ContactBID == "" {
			return errors.New("contact b id is required for a contact relationship")
		}
		params["contactBId"] = rel.ContactBID
		cypher = upsertPeerRelationshipCypher
	}

	if _, err := r.client.ExecuteWrite(ctx, cypher, params); err != nil {
		return fmt.Errorf("upsert relationship %s: %w", rel.ID, err)
	}
	return nil
}

// UpsertTeam creates or refreshes a team and replaces its membership.
func (r *Repository) UpsertTeam(ctx context.Context, team domain.Team) error {
	if team.ID == "" {
		return errors.New("team id is required")
	}

	members := team.MemberIDs
	if members == nil {
		members = []string{}
	}
	_, err := r.client.ExecuteWrite(ctx, upsertTeamCypher, map[string]any{
		"teamId":    team.ID,
		"name":      team.Name,
		"createdAt": formatTime(team.CreatedAt),
		"memberIds": members,
	})
	if err != nil {
		return fmt.Errorf("upsert team %s: %w", team.ID, err)
	}
	return nil
}

// ShareContact records or updates a contact share with a team.
func (r *Repository) ShareContact(ctx context.Context, share domain.TeamShare) error {
	if share.TeamID == "" || share.ContactID == "" {
		return errors.New("team id and contact id are required")
	}

	_, err := r.client.ExecuteWrite(ctx, shareContactCypher, map[string]any{
		"teamId":    share.TeamID,
		"contactId": share.ContactID,
		"visible":   share.Visible,
		"sharedAt":  formatTime(share.SharedAt),
	})
	if err != nil {
		return fmt.Errorf("share contact %s with team %s: %w", share.ContactID, share.TeamID, err)
	}
	return nil
}

// FetchUser returns the user or ErrNotFound.
func (r *Repository) FetchUser(ctx context.Context, userID string) (domain.User, error) {
	if userID == "" {
		return domain.User{}, errors.New("user id is required")
	}

	res, err := r.client.ExecuteRead(ctx, fetchUserCypher, map[string]any{"userId": userID})
	if err != nil {
		return domain.User{}, fmt.Errorf("fetch user %s: %w", userID, err)
	}
	if len(res.Records) == 0 {
		return domain.User{}, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return decodeUser(res.Records[0]), nil
}

// FetchOwnedContacts returns every contact the user owns, ordered by id.
func (r *Repository) FetchOwnedContacts(ctx context.Context, userID string) ([]domain.Contact, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	res, err := r.client.ExecuteRead(ctx, ownedContactsCypher, map[string]any{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("fetch contacts of %s: %w", userID, err)
	}

	contacts := make([]domain.Contact, 0, len(res.Records))
	for _, rec := range res.Records {
		contacts = append(contacts, decodeContact(rec))
	}
	return contacts, nil
}

// FetchRelationships returns the user's own relationship records and those
// between pairs of the user's contacts.
func (r *Repository) FetchRelationships(ctx context.Context, userID string) ([]domain.Relationship, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	res, err := r.client.ExecuteRead(ctx, relationshipsCypher, map[string]any{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("fetch relationships of %s: %w", userID, err)
	}

	rels := make([]domain.Relationship, 0, len(res.Records))
	for _, rec := range res.Records {
		rels = append(rels, domain.Relationship{
			ID:                 toString(rec["relationshipId"]),
			OwnerUserID:        userID,
			ContactAID:         toString(rec["contactAId"]),
			ContactBID:         toString(rec["contactBId"]),
			IsUserRelationship: toBool(rec["isUserRelationship"]),
			RelationshipType:   toString(rec["relationshipType"]),
			Strength:           toInt(rec["strength"]),
			Verified:           toBool(rec["verified"]),
			AIInferred:         toBool(rec["aiInferred"]),
			Confidence:         toFloat64(rec["confidence"]),
			UpdatedAt:          toTime(rec["updatedAt"]),
		})
	}
	return rels, nil
}

// FetchTeamNetworks returns, per team the user belongs to, the other members
// and every contact shared with the team.
func (r *Repository) FetchTeamNetworks(ctx context.Context, userID string) ([]domain.TeamNetwork, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	res, err := r.client.ExecuteRead(ctx, teamNetworksCypher, map[string]any{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("fetch teams of %s: %w", userID, err)
	}

	teams := make([]domain.TeamNetwork, 0, len(res.Records))
	for _, rec := range res.Records {
		tn := domain.TeamNetwork{
			Team: domain.Team{
				ID:        toString(rec["teamId"]),
				Name:      toString(rec["teamName"]),
				CreatedAt: toTime(rec["createdAt"]),
			},
		}
		for _, raw := range toSlice(rec["members"]) {
			m := graph.Record(toMap(raw))
			user := decodeUser(m)
			if user.ID == "" {
				continue
			}
			tn.Members = append(tn.Members, user)
			tn.Team.MemberIDs = append(tn.Team.MemberIDs, user.ID)
		}
		for _, raw := range toSlice(rec["shares"]) {
			s := graph.Record(toMap(raw))
			contact := decodeContact(s)
			if contact.ID == "" {
				continue
			}
			tn.Shares = append(tn.Shares, domain.SharedContact{
				TeamID:         tn.Team.ID,
				SharedByUserID: contact.OwnerUserID,
				Contact:        contact,
				Visible:        toBool(s["visible"]),
			})
		}
		teams = append(teams, tn)
	}
	return teams, nil
}

// VerifyConnectivity reports whether the backing graph is reachable.
func (r *Repository) VerifyConnectivity(ctx context.Context) error {
	return r.client.VerifyConnectivity(ctx)
}

func decodeUser(rec graph.Record) domain.User {
	return domain.User{
		ID:        toString(rec["userId"]),
		Name:      toString(rec["name"]),
		Email:     toString(rec["email"]),
		CreatedAt: toTime(rec["createdAt"]),
		UpdatedAt: toTime(rec["updatedAt"]),
	}
}

func decodeContact(rec graph.Record) domain.Contact {
	return domain.Contact{
		ID:          toString(rec["contactId"]),
		OwnerUserID: toString(rec["ownerUserId"]),
		Name:        toString(rec["name"]),
		Email:       toString(rec["email"]),
		Company:     toString(rec["company"]),
		Title:       toString(rec["title"]),
		Industry:    toString(rec["industry"]),
		CreatedAt:   toTime(rec["createdAt"]),
		UpdatedAt:   toTime(rec["updatedAt"]),
	}
}

func userProperties(u domain.User) map[string]any {
	props := map[string]any{
		"name":      u.Name,
		"email":     u.Email,
		"updatedAt": formatTime(u.UpdatedAt),
	}
	if !u.CreatedAt.IsZero() {
		props["createdAt"] = formatTime(u.CreatedAt)
	}
	return props
}

func contactProperties(c domain.Contact) map[string]any {
	props := map[string]any{
		"ownerUserId": c.OwnerUserID,
		"name":        c.Name,
		"email":       c.Email,
		"company":     c.Company,
		"title":       c.Title,
		"industry":    c.Industry,
		"updatedAt":   formatTime(c.UpdatedAt),
	}
	if !c.CreatedAt.IsZero() {
		props["createdAt"] = formatTime(c.CreatedAt)
	}
	return props
}

func relationshipProperties(rel domain.Relationship) map[string]any {
	return map[string]any{
		"ownerUserId":      rel.OwnerUserID,
		"relationshipType": rel.RelationshipType,
		"strength":         int64(rel.Strength),
		"verified":         rel.Verified,
		"aiInferred":       rel.AIInferred,
		"confidence":       rel.Confidence,
		"updatedAt":        formatTime(rel.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toFloat64(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

func toInt(val any) int {
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

func toBool(val any) bool {
	b, _ := val.(bool)
	return b
}

func toTime(val any) time.Time {
	switch v := val.(type) {
	case time.Time:
		return v.UTC()
	case string:
		if v == "" {
			return time.Time{}
		}
		if parsed, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return parsed.UTC()
		}
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

func toSlice(val any) []any {
	s, _ := val.([]any)
	return s
}

func toMap(val any) map[string]any {
	m, _ := val.(map[string]any)
	return m
}
