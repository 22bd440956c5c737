package util

import "github.com/google/uuid"

// NewID returns a unique id for tagging outbound requests.
func NewID() string {
	return uuid.NewString()
}
