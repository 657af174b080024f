package formatting

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// Display is the render-ready layout of one entry: the lines a template
// prints, derived from the formatted field values of its kind.
type Display struct {
	Heading    string   `json:"heading"`
	Subheading string   `json:"subheading"`
	Dates      string   `json:"dates"`
	Detail     string   `json:"detail"`
	Body       string   `json:"body"`
	Items      []string `json:"items"`
}

// Describe lays out formatted fields for display according to the section kind
func Describe(kind types.SectionKind, fields []Field) Display {
	text := func(name string) string {
		for _, f := range fields {
			if f.Spec.Name != name {
				continue
			}
			switch v := f.Value.(type) {
			case types.ShortText:
				return string(v)
			case types.LongText:
				return string(v)
			}
		}
		return ""
	}
	list := func(name string) []string {
		for _, f := range fields {
			if v, ok := f.Value.(types.TextList); ok && f.Spec.Name == name {
				return append([]string{}, v...)
			}
		}
		return []string{}
	}
	dates := func() types.DateRange {
		for _, f := range fields {
			if v, ok := f.Value.(types.DateRange); ok && f.Spec.Name == "dates" {
				return v
			}
		}
		return types.DateRange{}
	}

	d := Display{Items: []string{}}
	switch kind {
	case types.KindContactInfo:
		d.Heading = text("full_name")
		d.Subheading = joinNonEmpty(" | ", text("email"), text("phone"), text("location"))
		d.Detail = joinNonEmpty(" | ", text("linkedin"), text("website"))
	case types.KindSummary:
		d.Body = text("text")
	case types.KindExperience:
		d.Heading = text("role")
		d.Subheading = joinNonEmpty(", ", text("organization"), text("location"))
		d.Dates = Dates(dates())
		d.Body = text("description")
		d.Items = list("highlights")
	case types.KindEducation:
		d.Heading = text("degree")
		d.Subheading = joinNonEmpty(", ", text("institution"), text("location"))
		d.Dates = Dates(dates())
		d.Detail = EducationLine(dates(), text("grade"))
		d.Items = list("details")
	case types.KindSkills:
		d.Heading = text("category")
		d.Items = list("skills")
	case types.KindCustom:
		d.Heading = text("heading")
		d.Subheading = text("subheading")
		d.Dates = Dates(dates())
		d.Body = text("body")
		d.Items = list("items")
	}
	return d
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
