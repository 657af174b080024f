// Package types provides type definitions for structured data used throughout the resume-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
)

// MissingField names a required field that is empty or absent.
// EntryID and SectionID are empty for document-level requirements
// such as the contact section itself.
type MissingField struct {
	Kind      SectionKind `json:"kind"`
	SectionID string      `json:"section_id,omitempty"`
	EntryID   string      `json:"entry_id,omitempty"`
	Field     string      `json:"field"`
}

// Path renders the field as kind.field, e.g. "contact_info.email"
func (m MissingField) Path() string {
	return fmt.Sprintf("%s.%s", m.Kind, m.Field)
}

// ValidationResult is the outcome of validating a document.
// Structural violations break document invariants; Missing lists the
// required fields that keep the document from being exported; Warnings
// are format problems that never block anything.
type ValidationResult struct {
	Structural []Violation    `json:"structural"`
	Missing    []MissingField `json:"missing"`
	Warnings   []Violation    `json:"warnings"`
}

// Valid reports whether the document has no structural violations
func (r *ValidationResult) Valid() bool {
	return len(r.Structural) == 0
}

// Complete reports whether the document is valid and has every required field
func (r *ValidationResult) Complete() bool {
	return r.Valid() && len(r.Missing) == 0
}

// Err returns a *StructuralError listing every structural violation, or nil
func (r *ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return &StructuralError{Violations: r.Structural}
}

var (
	formatValidator     *validator.Validate
	formatValidatorOnce sync.Once
)

func formats() *validator.Validate {
	formatValidatorOnce.Do(func() {
		formatValidator = validator.New()
	})
	return formatValidator
}

// Validate checks the document against its structural invariants and reports
// every problem found. It has no side effects.
func Validate(doc *ResumeDocument) *ValidationResult {
	result := &ValidationResult{
		Structural: []Violation{},
		Missing:    []MissingField{},
		Warnings:   []Violation{},
	}
	if doc == nil {
		return result
	}

	seenIDs := make(map[string]bool)
	kindCount := make(map[SectionKind]int)

	for i, section := range doc.Sections {
		if section.Position != i {
			result.Structural = append(result.Structural, Violation{
				Type:      ViolationPositionOrder,
				Severity:  SeverityError,
				Details:   fmt.Sprintf("section at index %d has position %d", i, section.Position),
				SectionID: section.ID,
				Kind:      section.Kind,
			})
		}
		if section.ID == "" || seenIDs[section.ID] {
			result.Structural = append(result.Structural, Violation{
				Type:      ViolationDuplicateID,
				Severity:  SeverityError,
				Details:   fmt.Sprintf("section at index %d has an empty or duplicate id %q", i, section.ID),
				SectionID: section.ID,
				Kind:      section.Kind,
			})
		}
		seenIDs[section.ID] = true

		schema := SchemaFor(section.Kind)
		if schema == nil {
			result.Structural = append(result.Structural, Violation{
				Type:      ViolationUnknownKind,
				Severity:  SeverityError,
				Details:   fmt.Sprintf("section kind %q is not recognized", section.Kind),
				SectionID: section.ID,
				Kind:      section.Kind,
			})
			continue
		}

		kindCount[section.Kind]++
		if !schema.Repeatable {
			if kindCount[section.Kind] == 2 {
				result.Structural = append(result.Structural, Violation{
					Type:      ViolationDuplicateSingular,
					Severity:  SeverityError,
					Details:   fmt.Sprintf("only one %s section is allowed", section.Kind),
					SectionID: section.ID,
					Kind:      section.Kind,
				})
			}
			if len(section.Entries) > 1 {
				result.Structural = append(result.Structural, Violation{
					Type:      ViolationSingularEntries,
					Severity:  SeverityError,
					Details:   fmt.Sprintf("%s section holds %d entries, at most one is allowed", section.Kind, len(section.Entries)),
					SectionID: section.ID,
					Kind:      section.Kind,
				})
			}
		}

		for j, entry := range section.Entries {
			validateEntry(result, section, schema, entry, j, seenIDs)
		}
	}

	contact := doc.SectionsOfKind(KindContactInfo)
	if len(contact) == 0 || len(contact[0].Entries) == 0 {
		var sectionID string
		if len(contact) > 0 {
			sectionID = contact[0].ID
		}
		for _, name := range SchemaFor(KindContactInfo).RequiredFields() {
			result.Missing = append(result.Missing, MissingField{
				Kind:      KindContactInfo,
				SectionID: sectionID,
				Field:     name,
			})
		}
	}

	return result
}

func validateEntry(result *ValidationResult, section *Section, schema *KindSchema, entry *Entry, index int, seenIDs map[string]bool) {
	loc := func(v Violation) Violation {
		v.SectionID = section.ID
		v.Kind = section.Kind
		v.EntryID = entry.ID
		return v
	}

	if entry.Position != index {
		result.Structural = append(result.Structural, loc(Violation{
			Type:     ViolationPositionOrder,
			Severity: SeverityError,
			Details:  fmt.Sprintf("entry at index %d has position %d", index, entry.Position),
		}))
	}
	if entry.ID == "" || seenIDs[entry.ID] {
		result.Structural = append(result.Structural, loc(Violation{
			Type:     ViolationDuplicateID,
			Severity: SeverityError,
			Details:  fmt.Sprintf("entry at index %d has an empty or duplicate id %q", index, entry.ID),
		}))
	}
	seenIDs[entry.ID] = true

	// Sorted so violations come out in a stable order
	names := make([]string, 0, len(entry.Fields))
	for name := range entry.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := entry.Fields[name]
		spec, ok := schema.Field(name)
		if !ok {
			v := loc(Violation{
				Type:     ViolationUnknownField,
				Severity: SeverityError,
				Details:  fmt.Sprintf("field %q is not defined for %s entries", name, section.Kind),
			})
			v.Field = name
			result.Structural = append(result.Structural, v)
			continue
		}
		if value == nil || value.Type() != spec.Type {
			v := loc(Violation{
				Type:     ViolationTypeMismatch,
				Severity: SeverityError,
				Details:  fmt.Sprintf("field %q must hold a %s value", name, spec.Type),
			})
			v.Field = name
			result.Structural = append(result.Structural, v)
			continue
		}
		if dr, isRange := value.(DateRange); isRange {
			if err := dr.Check(); err != nil {
				v := loc(Violation{
					Type:     ViolationInvalidDate,
					Severity: SeverityError,
					Details:  err.Error(),
				})
				v.Field = name
				result.Structural = append(result.Structural, v)
			} else if !dr.Ordered() {
				v := loc(Violation{
					Type:     ViolationDateOrder,
					Severity: SeverityWarning,
					Details:  fmt.Sprintf("end date %s is before start date %s", dr.End, dr.Start),
				})
				v.Field = name
				result.Warnings = append(result.Warnings, v)
			}
		}
		if text, isShort := value.(ShortText); isShort && spec.Format != "" && !text.IsEmpty() {
			if err := formats().Var(string(text), spec.Format); err != nil {
				v := loc(Violation{
					Type:     ViolationInvalidFormat,
					Severity: SeverityWarning,
					Details:  fmt.Sprintf("%s %q does not look like a valid %s", spec.Label, string(text), spec.Format),
				})
				v.Field = name
				result.Warnings = append(result.Warnings, v)
			}
		}
	}

	for _, spec := range schema.Fields {
		if !spec.Required {
			continue
		}
		value, set := entry.Fields[spec.Name]
		if !set || value == nil || value.Type() != spec.Type || value.IsEmpty() {
			result.Missing = append(result.Missing, MissingField{
				Kind:      section.Kind,
				SectionID: section.ID,
				EntryID:   entry.ID,
				Field:     spec.Name,
			})
		}
	}
}
