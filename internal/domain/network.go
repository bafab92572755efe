package domain

// SharedContact is a teammate's contact visible through a team share.
type SharedContact struct {
	TeamID         string
	SharedByUserID string
	Contact        Contact
	Visible        bool
}

// TeamNetwork is the slice of a team visible to one member: the other members
// and the contacts they shared with the team.
type TeamNetwork struct {
	Team    Team
	Members []User
	Shares  []SharedContact
}

// Network is a point-in-time read of everything a user's graph is built from.
type Network struct {
	User          User
	Contacts      []Contact
	Relationships []Relationship
	Teams         []TeamNetwork
}

// Dataset is a complete multi-user snapshot used for bulk ingestion and offline search.
type Dataset struct {
	Users         []User         `json:"users"`
	Contacts      []Contact      `json:"contacts"`
	Relationships []Relationship `json:"relationships"`
	Teams         []Team         `json:"teams"`
	Shares        []TeamShare    `json:"shares"`
}
