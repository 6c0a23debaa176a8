package wikidata

import (
	"errors"
	"fmt"
)

// Sentinel errors for Wikidata operations.
var (
	ErrTransient = errors.New("wikidata: transient failure")
	ErrMalformed = errors.New("wikidata: malformed response")
	ErrNotFound  = errors.New("wikidata: entity not found")
	ErrInvalidID = errors.New("wikidata: invalid entity id")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op  string // "search", "details", "membership"
	ID  string // entity id or search text
	Err error
}

func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("wikidata %s [%s]: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("wikidata %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, id string, err error) error {
	return &Error{Op: op, ID: id, Err: err}
}

// IsTransient reports whether err is a network, timeout or HTTP status failure.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
