package domain

import "time"

// User is an account holder who owns contacts and belongs to teams.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Contact is a person in a user's address book.
type Contact struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"ownerUserId"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Company     string    `json:"company,omitempty"`
	Title       string    `json:"title,omitempty"`
	Industry    string    `json:"industry,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Relationship is a stored relationship record. A record flagged as the user's
// own relationship links OwnerUserID to ContactAID; otherwise it links
// ContactAID to ContactBID, both contacts of OwnerUserID.
type Relationship struct {
	ID                 string    `json:"id"`
	OwnerUserID        string    `json:"ownerUserId"`
	ContactAID         string    `json:"contactAId"`
	ContactBID         string    `json:"contactBId,omitempty"`
	IsUserRelationship bool      `json:"isUserRelationship"`
	RelationshipType   string    `json:"relationshipType,omitempty"`
	Strength           int       `json:"strength"`
	Verified           bool      `json:"verified"`
	AIInferred         bool      `json:"aiInferred"`
	Confidence         float64   `json:"confidence,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Team groups users that share contacts with each other.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MemberIDs []string  `json:"memberIds"`
	CreatedAt time.Time `json:"createdAt"`
}

// TeamShare records a contact made visible to a team by its owner.
type TeamShare struct {
	TeamID    string    `json:"teamId"`
	ContactID string    `json:"contactId"`
	Visible   bool      `json:"visible"`
	SharedAt  time.Time `json:"sharedAt"`
}
