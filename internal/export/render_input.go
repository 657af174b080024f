package export

import (
	"github.com/jonathan/resume-builder/internal/formatting"
	"github.com/jonathan/resume-builder/internal/types"
)

// SchemaVersion is the version of the RenderInput layout
const SchemaVersion = 1

// RenderInput is the fully resolved tree handed to a renderer. It carries no
// ids and no revision, so identical content always serializes identically.
type RenderInput struct {
	SchemaVersion int             `json:"schema_version" validate:"required,eq=1"`
	DocumentTitle string          `json:"document_title" validate:"required"`
	Sections      []RenderSection `json:"sections" validate:"dive"`
}

// RenderSection is one section in display order
type RenderSection struct {
	Kind    types.SectionKind `json:"kind" validate:"required"`
	Title   string            `json:"title"`
	Entries []RenderEntry     `json:"entries" validate:"dive"`
}

// RenderEntry is one entry with every schema field of its kind resolved
type RenderEntry struct {
	Fields  []RenderField      `json:"fields" validate:"dive"`
	Display formatting.Display `json:"display"`
}

// RenderField is one resolved field value. Text holds short and long text,
// Items holds lists, and Start and End hold date ranges.
type RenderField struct {
	Name     string          `json:"name" validate:"required"`
	Label    string          `json:"label"`
	Type     types.ValueType `json:"type" validate:"required,oneof=short_text long_text date_range text_list"`
	Required bool            `json:"required"`
	Text     string          `json:"text"`
	Items    []string        `json:"items"`
	Start    string          `json:"start"`
	End      string          `json:"end"`
}

// IsEmpty reports whether the field holds no content
func (f RenderField) IsEmpty() bool {
	switch f.Type {
	case types.TypeShortText, types.TypeLongText:
		return f.Text == ""
	case types.TypeTextList:
		return len(f.Items) == 0
	case types.TypeDateRange:
		return f.Start == ""
	default:
		return true
	}
}

// Field returns the named field of an entry
func (e RenderEntry) Field(name string) (RenderField, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return RenderField{}, false
}

func renderField(f formatting.Field) RenderField {
	rf := RenderField{
		Name:     f.Spec.Name,
		Label:    f.Spec.Label,
		Type:     f.Spec.Type,
		Required: f.Spec.Required,
		Items:    []string{},
	}
	switch v := f.Value.(type) {
	case types.ShortText:
		rf.Text = string(v)
	case types.LongText:
		rf.Text = string(v)
	case types.TextList:
		rf.Items = append(rf.Items, v...)
	case types.DateRange:
		rf.Start = v.Start
		rf.End = v.End
	}
	return rf
}
