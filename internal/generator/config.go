package generator

import "time"

// Config drives the synthetic contact-network generator.
type Config struct {
	NumUsers        int
	ContactsPerUser int
	// PeerChance is the probability that two contacts of the same owner know
	// each other, checked for a bounded number of candidate pairs per contact.
	PeerChance float64
	// SharedPersonChance reuses a person already in someone else's address
	// book, so the same individual shows up under several owners.
	SharedPersonChance float64
	AIInferredChance   float64
	NumTeams           int
	TeamSize           int
	ShareChance        float64
	HiddenShareChance  float64
	Seed               int64
	// Reference anchors generated timestamps; zero means now.
	Reference time.Time
}

// DefaultConfig returns settings that produce a mid-sized network.
func DefaultConfig() Config {
	return Config{
		NumUsers:           200,
		ContactsPerUser:    50,
		PeerChance:         0.15,
		SharedPersonChance: 0.3,
		AIInferredChance:   0.2,
		NumTeams:           20,
		TeamSize:           6,
		ShareChance:        0.25,
		HiddenShareChance:  0.1,
		Seed:               42,
	}
}
