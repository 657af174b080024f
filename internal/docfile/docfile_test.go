package docfile

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-builder/internal/edit"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
sections:
  - kind: contact_info
    entries:
      - fields:
          full_name: Jane Doe
          email: jane@example.com
  - kind: experience
    title: Work
    entries:
      - id: acme
        fields:
          role: Engineer
          organization: Acme
          dates:
            start: 2021-02
            end: present
          highlights:
            - Shipped v2
            - Cut build time in half
      - fields:
          role: Intern
          organization: Initech
          dates: {start: 2019}
  - kind: education
    entries:
      - fields:
          degree: BSc Computer Science
          institution: State University
          grade: 3.8
`

func TestDecode_YAML(t *testing.T) {
	doc, err := Decode([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)

	require.Len(t, doc.Sections, 3)
	assert.Equal(t, uint64(1), doc.Revision, "a file loads as one revision")

	contact := doc.Sections[0]
	assert.Equal(t, types.KindContactInfo, contact.Kind)
	assert.Equal(t, "Contact Information", contact.Title)
	require.Len(t, contact.Entries, 1)
	assert.Equal(t, "Jane Doe", contact.Entries[0].Text("full_name"))

	work := doc.Sections[1]
	assert.Equal(t, "Work", work.Title)
	require.Len(t, work.Entries, 2)
	assert.Equal(t, "acme", work.Entries[0].ID)
	assert.Equal(t, types.DateRange{Start: "2021-02", End: "present"}, work.Entries[0].Fields["dates"])
	assert.Equal(t, types.TextList{"Shipped v2", "Cut build time in half"}, work.Entries[0].Fields["highlights"])
	assert.Equal(t, types.DateRange{Start: "2019"}, work.Entries[1].Fields["dates"])

	assert.Equal(t, "3.8", doc.Sections[2].Entries[0].Text("grade"), "numbers decode as text")
	assert.True(t, types.Validate(doc).Complete())
}

func TestDecode_DerivedIDsAreStable(t *testing.T) {
	a, err := Decode([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)
	b, err := Decode([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)

	for i := range a.Sections {
		assert.Equal(t, a.Sections[i].ID, b.Sections[i].ID)
		for j := range a.Sections[i].Entries {
			assert.Equal(t, a.Sections[i].Entries[j].ID, b.Sections[i].Entries[j].ID)
		}
	}
	assert.NotEqual(t, a.Sections[0].ID, a.Sections[1].ID)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
		check  func(t *testing.T, err error)
	}{
		{
			name:   "malformed yaml",
			input:  "sections: [",
			format: FormatYAML,
		},
		{
			name:   "malformed json",
			input:  `{"sections": }`,
			format: FormatJSON,
		},
		{
			name:   "missing kind",
			input:  "sections:\n  - title: Nothing\n",
			format: FormatYAML,
		},
		{
			name:   "unknown field",
			input:  "sections:\n  - kind: summary\n    entries:\n      - fields: {mood: happy}\n",
			format: FormatYAML,
		},
		{
			name:   "bad date",
			input:  "sections:\n  - kind: experience\n    entries:\n      - fields: {dates: {start: March}}\n",
			format: FormatYAML,
		},
		{
			name:   "unknown kind",
			input:  `{"sections": [{"kind": "hobbies"}]}`,
			format: FormatJSON,
			check: func(t *testing.T, err error) {
				var editErr *edit.Error
				require.True(t, errors.As(err, &editErr))
				assert.Equal(t, edit.KindUnknownKind, editErr.Kind)
			},
		},
		{
			name:   "two entries in a singular section",
			input:  "sections:\n  - kind: summary\n    entries:\n      - fields: {text: one}\n      - fields: {text: two}\n",
			format: FormatYAML,
			check: func(t *testing.T, err error) {
				var editErr *edit.Error
				require.True(t, errors.As(err, &editErr))
				assert.Equal(t, edit.KindDuplicateSingularEntry, editErr.Kind)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input), tt.format)
			require.Error(t, err)
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	doc, err := Decode([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)

	for _, name := range []string{"resume.yaml", "resume.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", name)
			require.NoError(t, Save(path, doc))

			loaded, err := Load(path)
			require.NoError(t, err)

			require.Len(t, loaded.Sections, len(doc.Sections))
			for i, s := range doc.Sections {
				got := loaded.Sections[i]
				assert.Equal(t, s.ID, got.ID)
				assert.Equal(t, s.Kind, got.Kind)
				assert.Equal(t, s.Title, got.Title)
				require.Len(t, got.Entries, len(s.Entries))
				for j, e := range s.Entries {
					assert.Equal(t, e.ID, got.Entries[j].ID)
					assert.Equal(t, e.Fields, got.Entries[j].Fields)
				}
			}
		})
	}
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFor("a/b.JSON"))
	assert.Equal(t, FormatYAML, FormatFor("resume.yml"))
	assert.Equal(t, FormatYAML, FormatFor("resume"))
}

func TestTemplate_LoadsAsIncompleteDocument(t *testing.T) {
	data, err := Template().Encode(FormatYAML)
	require.NoError(t, err)

	doc, err := Decode(data, FormatYAML)
	require.NoError(t, err)
	assert.Len(t, doc.Sections, len(types.Kinds()))

	result := types.Validate(doc)
	assert.True(t, result.Valid())
	assert.False(t, result.Complete(), "the template leaves every required field empty")
}
