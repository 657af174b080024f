// Package edit is the single mutation gateway for resume documents.
package edit

import "fmt"

// ErrorKind classifies why an operation was rejected
type ErrorKind string

// Rejection kinds. All of them leave the document unchanged.
const (
	KindDuplicateSingularSection ErrorKind = "duplicate_singular_section"
	KindDuplicateSingularEntry   ErrorKind = "duplicate_singular_entry"
	KindDuplicateID              ErrorKind = "duplicate_id"
	KindUnknownKind              ErrorKind = "unknown_kind"
	KindNotFound                 ErrorKind = "not_found"
	KindOutOfRange               ErrorKind = "out_of_range"
	KindUnknownField             ErrorKind = "unknown_field"
	KindTypeMismatch             ErrorKind = "type_mismatch"
	KindInvalidOperation         ErrorKind = "invalid_operation"
	KindNothingToUndo            ErrorKind = "nothing_to_undo"
	KindNothingToRedo            ErrorKind = "nothing_to_redo"
)

// Error is returned when an operation cannot be applied
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("edit error: %s: %s: %s", e.Op, e.Kind, e.Message)
	}
	return fmt.Sprintf("edit error: %s: %s", e.Kind, e.Message)
}

// Is matches errors of the same kind, so errors.Is(err, edit.ErrNotFound) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Message == ""
}

// Sentinels for errors.Is
var (
	ErrDuplicateSingularSection = &Error{Kind: KindDuplicateSingularSection}
	ErrDuplicateSingularEntry   = &Error{Kind: KindDuplicateSingularEntry}
	ErrDuplicateID              = &Error{Kind: KindDuplicateID}
	ErrUnknownKind              = &Error{Kind: KindUnknownKind}
	ErrNotFound                 = &Error{Kind: KindNotFound}
	ErrOutOfRange               = &Error{Kind: KindOutOfRange}
	ErrUnknownField             = &Error{Kind: KindUnknownField}
	ErrTypeMismatch             = &Error{Kind: KindTypeMismatch}
	ErrInvalidOperation         = &Error{Kind: KindInvalidOperation}
	ErrNothingToUndo            = &Error{Kind: KindNothingToUndo}
	ErrNothingToRedo            = &Error{Kind: KindNothingToRedo}
)

func newError(kind ErrorKind, op OpName, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: string(op), Message: fmt.Sprintf(format, args...)}
}
