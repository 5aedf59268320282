package core

import (
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// RunID identifies one execution of the profiling pipeline
type RunID ID

// NewRunID creates a run identifier
func NewRunID() RunID { return RunID(NewID()) }

func (id RunID) String() string { return ID(id).String() }

// Short returns the last block of the identifier for log prefixes. The
// leading blocks of a v7 UUID are the timestamp and repeat across runs.
func (id RunID) Short() string {
	s := id.String()
	if i := strings.LastIndexByte(s, '-'); i >= 0 && i < len(s)-1 {
		s = s[i+1:]
	}
	if len(s) > 8 {
		return s[len(s)-8:]
	}
	return s
}
