package service

import (
	"time"

	"github.com/vanshika/warmpath/internal/pathfinder"
)

// UserInput is the inbound payload for a user account.
type UserInput struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// ContactInput is the inbound payload for a contact owned by a user.
type ContactInput struct {
	ID          string     `json:"id"`
	OwnerUserID string     `json:"ownerUserId"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Company     string     `json:"company"`
	Title       string     `json:"title"`
	Industry    string     `json:"industry"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// RelationshipInput describes either the owner's own tie to ContactAID
// (IsUserRelationship) or a tie between ContactAID and ContactBID.
type RelationshipInput struct {
	ID                 string     `json:"id"`
	OwnerUserID        string     `json:"ownerUserId"`
	ContactAID         string     `json:"contactAId"`
	ContactBID         string     `json:"contactBId"`
	IsUserRelationship bool       `json:"isUserRelationship"`
	RelationshipType   string     `json:"relationshipType"`
	Strength           int        `json:"strength"`
	Verified           bool       `json:"verified"`
	AIInferred         bool       `json:"aiInferred"`
	Confidence         float64    `json:"confidence"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

// TeamInput is the inbound payload for a team and its full member list.
type TeamInput struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	MemberIDs []string   `json:"memberIds"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// ShareInput makes a contact visible (or hidden) to a team.
type ShareInput struct {
	TeamID    string     `json:"teamId"`
	ContactID string     `json:"contactId"`
	Visible   bool       `json:"visible"`
	SharedAt  *time.Time `json:"sharedAt,omitempty"`
}

// FindPathsParams requests paths to a known target. MaxHops and TopK fall back
// to the configured defaults when zero.
type FindPathsParams struct {
	UserID          string
	TargetContactID string
	MaxHops         int
	TopK            int
}

// SearchPathsParams requests paths to the contact best matching a description.
type SearchPathsParams struct {
	UserID            string
	TargetDescription string
	MaxHops           int
	TopK              int
}

// PathNode is one person along a path.
type PathNode struct {
	ContactID string          `json:"contactId"`
	Name      string          `json:"name"`
	Company   string          `json:"company,omitempty"`
	Title     string          `json:"title,omitempty"`
	Tier      pathfinder.Tier `json:"tier"`
}

// PathEdge is one hop along a path, oriented away from the user.
type PathEdge struct {
	From     string              `json:"from"`
	To       string              `json:"to"`
	Strength int                 `json:"strength"`
	Type     pathfinder.EdgeKind `json:"type"`
	Verified bool                `json:"verified"`
}

// PathResult is a ranked introduction path.
type PathResult struct {
	Path                 []PathNode `json:"path"`
	Edges                []PathEdge `json:"edges"`
	PathStrength         float64    `json:"pathStrength"`
	Hops                 int        `json:"hops"`
	EstimatedSuccessRate int        `json:"estimatedSuccessRate"`
}

// SearchResult answers a description search. Matched is false when no
// contact matched the description; that is not an error.
type SearchResult struct {
	Matched       bool         `json:"matched"`
	Message       string       `json:"message,omitempty"`
	TargetContact *PathNode    `json:"targetContact,omitempty"`
	IsTeamContact bool         `json:"isTeamContact"`
	Paths         []PathResult `json:"paths"`
}

// NetworkView is the graph a user's searches run over.
type NetworkView struct {
	UserID         string     `json:"userId"`
	Nodes          []PathNode `json:"nodes"`
	Edges          []PathEdge `json:"edges"`
	SkippedRecords int        `json:"skippedRecords"`
}

// NoMatchMessage is reported when a description matches no contact.
const NoMatchMessage = "no matching contacts found"
