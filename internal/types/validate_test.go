// Package types provides type definitions for structured data used throughout the resume-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contactSection(id string, fields map[string]Value) *Section {
	return &Section{
		ID:      id,
		Kind:    KindContactInfo,
		Title:   "Contact Information",
		Entries: []*Entry{{ID: id + "-entry", Fields: fields}},
	}
}

func docOf(sections ...*Section) *ResumeDocument {
	doc := &ResumeDocument{Sections: sections}
	doc.Renumber()
	return doc
}

func missingPaths(result *ValidationResult) []string {
	var paths []string
	for _, m := range result.Missing {
		paths = append(paths, m.Path())
	}
	return paths
}

func violationTypes(vs []Violation) []string {
	var out []string
	for _, v := range vs {
		out = append(out, v.Type)
	}
	return out
}

func TestValidate_EmptyDocument(t *testing.T) {
	result := Validate(NewDocument())

	assert.Empty(t, result.Structural)
	assert.True(t, result.Valid())
	assert.False(t, result.Complete())
	assert.NoError(t, result.Err())
	assert.ElementsMatch(t, []string{"contact_info.full_name", "contact_info.email"}, missingPaths(result))
}

func TestValidate_CompleteDocument(t *testing.T) {
	doc := docOf(
		contactSection("c", map[string]Value{
			"full_name": ShortText("Jane Doe"),
			"email":     ShortText("jane@example.com"),
		}),
		&Section{ID: "x", Kind: KindExperience, Title: "Experience", Entries: []*Entry{{
			ID: "x1",
			Fields: map[string]Value{
				"role":         ShortText("Engineer"),
				"organization": ShortText("Acme"),
				"dates":        DateRange{Start: "2020-01", End: PresentDate},
			},
		}}},
	)

	result := Validate(doc)
	assert.True(t, result.Complete())
	assert.Empty(t, result.Warnings)
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	doc := docOf(
		contactSection("c", map[string]Value{"full_name": ShortText("Jane Doe"), "email": ShortText("   ")}),
		&Section{ID: "x", Kind: KindExperience, Entries: []*Entry{{
			ID:     "x1",
			Fields: map[string]Value{"role": ShortText("Engineer"), "dates": DateRange{End: "2021"}},
		}}},
	)

	result := Validate(doc)
	assert.True(t, result.Valid())
	assert.ElementsMatch(t,
		[]string{"contact_info.email", "experience.organization", "experience.dates"},
		missingPaths(result))

	for _, m := range result.Missing {
		assert.NotEmpty(t, m.SectionID)
		assert.NotEmpty(t, m.EntryID)
	}
}

func TestValidate_ContactSectionWithoutEntry(t *testing.T) {
	doc := docOf(&Section{ID: "c", Kind: KindContactInfo, Entries: []*Entry{}})

	result := Validate(doc)
	require.Len(t, result.Missing, 2)
	assert.Equal(t, "c", result.Missing[0].SectionID)
	assert.Empty(t, result.Missing[0].EntryID)
}

func TestValidate_StructuralViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  func() *ResumeDocument
		want string
	}{
		{
			name: "unknown kind",
			doc: func() *ResumeDocument {
				return docOf(&Section{ID: "h", Kind: "hobbies"})
			},
			want: ViolationUnknownKind,
		},
		{
			name: "duplicate singular section",
			doc: func() *ResumeDocument {
				return docOf(&Section{ID: "s1", Kind: KindSummary}, &Section{ID: "s2", Kind: KindSummary})
			},
			want: ViolationDuplicateSingular,
		},
		{
			name: "singular section with two entries",
			doc: func() *ResumeDocument {
				return docOf(&Section{ID: "s", Kind: KindSummary, Entries: []*Entry{
					{ID: "e1", Fields: map[string]Value{}},
					{ID: "e2", Fields: map[string]Value{}},
				}})
			},
			want: ViolationSingularEntries,
		},
		{
			name: "unknown field",
			doc: func() *ResumeDocument {
				return docOf(&Section{ID: "k", Kind: KindSkills, Entries: []*Entry{
					{ID: "k1", Fields: map[string]Value{"salary": ShortText("lots")}},
				}})
			},
			want: ViolationUnknownField,
		},
		{
			name: "type mismatch",
			doc: func() *ResumeDocument {
				return docOf(&Section{ID: "k", Kind: KindSkills, Entries: []*Entry{
					{ID: "k1", Fields: map[string]Value{"skills": ShortText("Go")}},
				}})
			},
			want: ViolationTypeMismatch,
		},
		{
			name: "invalid date",
			doc: func() *ResumeDocument {
				return docOf(&Section{ID: "x", Kind: KindExperience, Entries: []*Entry{
					{ID: "x1", Fields: map[string]Value{"dates": DateRange{Start: "May 2020"}}},
				}})
			},
			want: ViolationInvalidDate,
		},
		{
			name: "non contiguous positions",
			doc: func() *ResumeDocument {
				doc := docOf(&Section{ID: "a", Kind: KindSkills}, &Section{ID: "b", Kind: KindSkills})
				doc.Sections[1].Position = 5
				return doc
			},
			want: ViolationPositionOrder,
		},
		{
			name: "duplicate id",
			doc: func() *ResumeDocument {
				return docOf(&Section{ID: "a", Kind: KindSkills}, &Section{ID: "a", Kind: KindCustom})
			},
			want: ViolationDuplicateID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.doc())
			assert.Contains(t, violationTypes(result.Structural), tt.want)

			var structural *StructuralError
			require.True(t, errors.As(result.Err(), &structural))
			assert.Equal(t, result.Structural, structural.Violations)
		})
	}
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	doc := docOf(
		&Section{ID: "h", Kind: "hobbies"},
		&Section{ID: "k", Kind: KindSkills, Entries: []*Entry{
			{ID: "k1", Fields: map[string]Value{"salary": ShortText("lots"), "skills": LongText("Go")}},
		}},
	)

	result := Validate(doc)
	assert.ElementsMatch(t,
		[]string{ViolationUnknownKind, ViolationUnknownField, ViolationTypeMismatch},
		violationTypes(result.Structural))
}

func TestValidate_Warnings(t *testing.T) {
	doc := docOf(
		contactSection("c", map[string]Value{
			"full_name": ShortText("Jane Doe"),
			"email":     ShortText("not-an-email"),
			"website":   ShortText("janedoe"),
		}),
		&Section{ID: "x", Kind: KindExperience, Entries: []*Entry{{
			ID: "x1",
			Fields: map[string]Value{
				"role":         ShortText("Engineer"),
				"organization": ShortText("Acme"),
				"dates":        DateRange{Start: "2022-05", End: "2021"},
			},
		}}},
	)

	result := Validate(doc)
	assert.True(t, result.Complete(), "warnings never block export")
	assert.ElementsMatch(t,
		[]string{ViolationInvalidFormat, ViolationInvalidFormat, ViolationDateOrder},
		violationTypes(result.Warnings))
}

func TestValidate_NoSideEffects(t *testing.T) {
	doc := docOf(contactSection("c", map[string]Value{"full_name": ShortText("Jane")}))
	before := doc.Clone()

	Validate(doc)
	assert.Equal(t, before, doc)
}
