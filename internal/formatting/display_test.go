package formatting

import (
	"testing"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name   string
		kind   types.SectionKind
		fields map[string]types.Value
		want   Display
	}{
		{
			name: "contact",
			kind: types.KindContactInfo,
			fields: map[string]types.Value{
				"full_name": types.ShortText("jane doe"),
				"email":     types.ShortText("jane@example.com"),
				"location":  types.ShortText("Leeds"),
				"website":   types.ShortText("https://jane.dev"),
			},
			want: Display{
				Heading:    "Jane Doe",
				Subheading: "jane@example.com | Leeds",
				Detail:     "https://jane.dev",
				Items:      []string{},
			},
		},
		{
			name: "experience",
			kind: types.KindExperience,
			fields: map[string]types.Value{
				"role":         types.ShortText("Engineer"),
				"organization": types.ShortText("acme"),
				"dates":        types.DateRange{Start: "2021-02", End: "present"},
				"highlights":   types.TextList{" Shipped v2 ", ""},
			},
			want: Display{
				Heading:    "Engineer",
				Subheading: "Acme",
				Dates:      "Feb 2021 - Present",
				Items:      []string{"Shipped v2"},
			},
		},
		{
			name: "education",
			kind: types.KindEducation,
			fields: map[string]types.Value{
				"degree":      types.ShortText("BSc Physics"),
				"institution": types.ShortText("leeds uni"),
				"dates":       types.DateRange{Start: "2016", End: "2020"},
				"grade":       types.ShortText("2:1"),
			},
			want: Display{
				Heading:    "BSc Physics",
				Subheading: "Leeds University",
				Dates:      "2016 - 2020",
				Detail:     "Year: 2016 - 2020 | Grade: 2:1",
				Items:      []string{},
			},
		},
		{
			name:   "skills",
			kind:   types.KindSkills,
			fields: map[string]types.Value{"skills": types.TextList{"go, sql", "Go"}},
			want:   Display{Items: []string{"Go", "Sql"}},
		},
		{
			name:   "empty summary",
			kind:   types.KindSummary,
			fields: map[string]types.Value{},
			want:   Display{Items: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &types.Entry{ID: "e", Fields: tt.fields}
			assert.Equal(t, tt.want, Describe(tt.kind, Fields(tt.kind, entry)))
		})
	}
}
