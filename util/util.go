package util

import (
	"github.com/google/uuid"
)

// NewRequestID returns the id attached to per-request loggers.
func NewRequestID() string {
	return uuid.NewString()
}
