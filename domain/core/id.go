package core

import (
	"fmt"
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

// RequestID identifies one upload request across logs and response headers
type RequestID ID

func (id RequestID) String() string { return ID(id).String() }

// NewRequestID creates a fresh request identifier
func NewRequestID() RequestID {
	return RequestID(NewID())
}

// ParseRequestID accepts a client-supplied request ID. IDs are limited to
// 128 printable ASCII characters so they can be echoed in headers and logs.
func ParseRequestID(s string) (RequestID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("request ID cannot be empty")
	}
	if len(s) > 128 {
		return "", fmt.Errorf("request ID longer than 128 characters")
	}
	for _, r := range s {
		if r < 0x21 || r > 0x7e {
			return "", fmt.Errorf("request ID contains non-printable character %q", r)
		}
	}
	return RequestID(s), nil
}
