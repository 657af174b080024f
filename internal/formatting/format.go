// Package formatting applies display formatting to field values before they
// reach a preview or an export. Stored values are never rewritten.
package formatting

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/resume-builder/internal/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	uniPattern       = regexp.MustCompile(`\bUni\b`)
	skillSeparators  = regexp.MustCompile(`[,;\n]+`)
	spaceRun         = regexp.MustCompile(`[ \t]+`)
	monthAbbrev      = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	capitalizedNames = map[string]bool{
		"full_name":    true,
		"degree":       true,
		"institution":  true,
		"organization": true,
	}
)

// Name tidies a proper name. Text typed entirely in lower case is title-cased;
// anything the user capitalized is kept as typed. "Uni" becomes "University".
func Name(s string) string {
	s = collapseSpaces(s)
	if s == "" {
		return ""
	}
	if !hasUpper(s) {
		s = cases.Title(language.English).String(s)
	}
	return uniPattern.ReplaceAllString(s, "University")
}

// Skills splits items on commas, semicolons and newlines, trims them,
// capitalizes lower-case entries and drops case-insensitive duplicates,
// keeping the first spelling.
func Skills(items []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, item := range items {
		for _, part := range skillSeparators.Split(item, -1) {
			part = collapseSpaces(part)
			if part == "" {
				continue
			}
			key := strings.ToLower(part)
			if seen[key] {
				continue
			}
			seen[key] = true
			if !hasUpper(part) {
				part = cases.Title(language.English).String(part)
			}
			out = append(out, part)
		}
	}
	return out
}

// Lines trims list items and drops blank ones, including items holding only
// separators
func Lines(items []string) []string {
	out := []string{}
	for _, item := range items {
		if item = strings.TrimSpace(item); !types.IsBlankItem(item) {
			out = append(out, item)
		}
	}
	return out
}

// Date renders "2020-03" as "Mar 2020", "2020" as "2020" and "present" as "Present"
func Date(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return ""
	case strings.EqualFold(s, types.PresentDate):
		return "Present"
	case len(s) == 7 && s[4] == '-':
		month := int(s[5]-'0')*10 + int(s[6]-'0')
		if month >= 1 && month <= 12 {
			return monthAbbrev[month-1] + " " + s[:4]
		}
	}
	return s
}

// Dates renders a range as "Mar 2020 - Present". A range without a start renders empty.
func Dates(dr types.DateRange) string {
	start := Date(dr.Start)
	if start == "" {
		return ""
	}
	end := Date(dr.End)
	if end == "" || end == start {
		return start
	}
	return start + " - " + end
}

// EducationLine renders the year and grade line shown under a degree,
// e.g. "Year: 2016 - 2020 | Grade: 3.8 GPA". Empty parts are left out.
func EducationLine(dates types.DateRange, grade string) string {
	var parts []string
	if year := Dates(dates); year != "" {
		parts = append(parts, "Year: "+year)
	}
	if grade = strings.TrimSpace(grade); grade != "" {
		parts = append(parts, "Grade: "+grade)
	}
	return strings.Join(parts, " | ")
}

// Value formats one field value for display
func Value(field string, v types.Value) types.Value {
	switch val := v.(type) {
	case types.ShortText:
		if capitalizedNames[field] {
			return types.ShortText(Name(string(val)))
		}
		return types.ShortText(collapseSpaces(string(val)))
	case types.LongText:
		return types.LongText(strings.TrimSpace(string(val)))
	case types.TextList:
		if field == "skills" {
			return types.TextList(Skills(val))
		}
		return types.TextList(Lines(val))
	case types.DateRange:
		return types.DateRange{Start: strings.TrimSpace(val.Start), End: strings.TrimSpace(val.End)}
	default:
		return v
	}
}

// Fields resolves every schema field of an entry in schema order, formatted
// for display. Unset fields are present with their empty value.
func Fields(kind types.SectionKind, entry *types.Entry) []Field {
	schema := types.SchemaFor(kind)
	if schema == nil {
		return nil
	}
	out := make([]Field, 0, len(schema.Fields))
	for _, spec := range schema.Fields {
		v, _ := entry.Get(kind, spec.Name)
		out = append(out, Field{Spec: spec, Value: Value(spec.Name, v)})
	}
	return out
}

// Field is a resolved, display-formatted entry field
type Field struct {
	Spec  types.FieldSpec
	Value types.Value
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
