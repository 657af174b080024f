// Package session owns live editing sessions: one engine per document,
// debounced preview projection and change notification.
package session

import "fmt"

// NotFoundError indicates no session exists with the given id
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session not found: %s", e.ID)
}

// ClosedError indicates the session was closed or evicted
type ClosedError struct {
	ID string
}

func (e *ClosedError) Error() string {
	return fmt.Sprintf("session closed: %s", e.ID)
}

// LimitError indicates the manager already holds its maximum number of sessions
type LimitError struct {
	Max int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("session limit reached (%d)", e.Max)
}
