package data

import (
	"errors"
	"strings"
)

// Sentinel errors returned by repositories so the service layer can
// classify failures without parsing driver messages.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// isUniqueViolation reports whether err is a sqlite unique-constraint
// failure. The modernc driver exposes no typed error for this, so match
// on the canonical message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
