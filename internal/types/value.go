// Package types provides type definitions for structured data used throughout the resume-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// ValueType identifies the variant held by a field Value
type ValueType string

// Value types supported by entry fields
const (
	TypeShortText ValueType = "short_text"
	TypeLongText  ValueType = "long_text"
	TypeDateRange ValueType = "date_range"
	TypeTextList  ValueType = "text_list"
)

// Value is the sealed variant stored in an Entry field.
// Implementations: ShortText, LongText, DateRange, TextList.
type Value interface {
	Type() ValueType
	IsEmpty() bool
	clone() Value
}

// ShortText is a single-line value such as a name or a job title
type ShortText string

// LongText is a free-form paragraph
type LongText string

// TextList is an ordered list of short texts (highlights, skills)
type TextList []string

// DateRange is a start/end pair. Dates are "YYYY" or "YYYY-MM"; End may be "present".
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PresentDate marks an open-ended date range
const PresentDate = "present"

var datePattern = regexp.MustCompile(`^\d{4}(-(0[1-9]|1[0-2]))?$`)

// Type implements Value
func (ShortText) Type() ValueType { return TypeShortText }

// Type implements Value
func (LongText) Type() ValueType { return TypeLongText }

// Type implements Value
func (DateRange) Type() ValueType { return TypeDateRange }

// Type implements Value
func (TextList) Type() ValueType { return TypeTextList }

// IsEmpty implements Value
func (v ShortText) IsEmpty() bool { return IsBlankText(string(v)) }

// IsEmpty implements Value
func (v LongText) IsEmpty() bool { return IsBlankText(string(v)) }

// IsEmpty reports whether the range has no start date.
// An end date alone does not make a usable range.
func (v DateRange) IsEmpty() bool { return IsBlankText(v.Start) }

// IsEmpty reports whether no item has content once list separators are
// ignored, so {", ;"} is empty
func (v TextList) IsEmpty() bool {
	for _, item := range v {
		if !IsBlankItem(item) {
			return false
		}
	}
	return true
}

func (v ShortText) clone() Value { return v }
func (v LongText) clone() Value  { return v }
func (v DateRange) clone() Value { return v }
func (v TextList) clone() Value  { return slices.Clone(v) }

// Check verifies the date strings of a range.
// Empty start and end are allowed while the user is still filling the entry in.
func (v DateRange) Check() error {
	if v.Start != "" && !datePattern.MatchString(v.Start) {
		return fmt.Errorf("start date %q must be YYYY or YYYY-MM", v.Start)
	}
	if v.End != "" && v.End != PresentDate && !datePattern.MatchString(v.End) {
		return fmt.Errorf("end date %q must be YYYY, YYYY-MM or %q", v.End, PresentDate)
	}
	return nil
}

// Ordered reports whether End is not before Start.
// Open or incomplete ranges are considered ordered.
func (v DateRange) Ordered() bool {
	if v.Start == "" || v.End == "" || v.End == PresentDate {
		return true
	}
	// YYYY and YYYY-MM compare correctly as strings once padded to the same precision
	start, end := v.Start, v.End
	if len(start) == 4 {
		start += "-01"
	}
	if len(end) == 4 {
		end += "-12"
	}
	return end >= start
}

// CloneValue returns a deep copy of v. A nil Value is returned as nil.
func CloneValue(v Value) Value {
	if v == nil {
		return nil
	}
	return v.clone()
}

// ZeroValue returns the empty value of the given type
func ZeroValue(t ValueType) Value {
	switch t {
	case TypeShortText:
		return ShortText("")
	case TypeLongText:
		return LongText("")
	case TypeDateRange:
		return DateRange{}
	case TypeTextList:
		return TextList{}
	default:
		return nil
	}
}

// IsBlankText reports whether s holds only Unicode white space
func IsBlankText(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsBlankItem reports whether a list item holds only white space and the
// list separators ',' and ';'
func IsBlankItem(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) && r != ',' && r != ';' {
			return false
		}
	}
	return true
}
