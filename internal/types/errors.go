// Package types provides type definitions for structured data used throughout the resume-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// StructuralError reports every structural violation found in a document
type StructuralError struct {
	Violations []Violation
}

func (e *StructuralError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("structural error: %d violation(s)", len(e.Violations)))
	for i, v := range e.Violations {
		sb.WriteString(fmt.Sprintf("\n  %d. [%s] %s", i+1, v.Type, v.Details))
	}
	return sb.String()
}
