package pathfinder

import "errors"

var (
	// ErrInvalidNode is returned when a node id does not match the format its tier requires.
	ErrInvalidNode = errors.New("invalid node")

	// ErrInvalidEdge is returned for out-of-range strengths, self loops, unknown kinds
	// or a kind that cannot connect the tiers of its endpoints.
	ErrInvalidEdge = errors.New("invalid edge")

	// ErrNodeNotFound is returned when an edge references a node missing from the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrDuplicateNode is returned when a node id is added twice.
	ErrDuplicateNode = errors.New("duplicate node id")
)
