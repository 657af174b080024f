// Package types provides type definitions for structured data used throughout the resume-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Violation types reported by document validation and PDF checks
const (
	ViolationUnknownKind       = "unknown_kind"
	ViolationDuplicateSingular = "duplicate_singular_section"
	ViolationSingularEntries   = "singular_section_entries"
	ViolationUnknownField      = "unknown_field"
	ViolationTypeMismatch      = "type_mismatch"
	ViolationInvalidDate       = "invalid_date"
	ViolationPositionOrder     = "position_order"
	ViolationDuplicateID       = "duplicate_id"
	ViolationInvalidFormat     = "invalid_format"
	ViolationDateOrder         = "date_order"
	ViolationPageOverflow      = "page_overflow"
	ViolationMissingText       = "missing_text"
	ViolationUnreadablePDF     = "unreadable_pdf"
	ViolationLineTooLong       = "line_too_long"
)

// Severity levels
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Violation represents a single validation failure
type Violation struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Details  string `json:"details"`

	// Location of the violation inside the document, when it has one
	SectionID string      `json:"section_id,omitempty"`
	Kind      SectionKind `json:"kind,omitempty"`
	EntryID   string      `json:"entry_id,omitempty"`
	Field     string      `json:"field,omitempty"`
}

// Violations represents a collection of validation failures
type Violations struct {
	Violations []Violation `json:"violations"`
}

// HasErrors reports whether any violation has error severity
func (v *Violations) HasErrors() bool {
	if v == nil {
		return false
	}
	for _, violation := range v.Violations {
		if violation.Severity == SeverityError {
			return true
		}
	}
	return false
}
