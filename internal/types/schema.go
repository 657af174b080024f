// Package types provides type definitions for structured data used throughout the resume-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// SectionKind is the tag of a Section variant
type SectionKind string

// Recognized section kinds
const (
	KindContactInfo SectionKind = "contact_info"
	KindSummary     SectionKind = "summary"
	KindExperience  SectionKind = "experience"
	KindEducation   SectionKind = "education"
	KindSkills      SectionKind = "skills"
	KindCustom      SectionKind = "custom"
)

// FieldSpec describes one recognized field of a section kind
type FieldSpec struct {
	Name     string
	Label    string
	Type     ValueType
	Required bool
	// Format is a go-playground/validator tag applied to non-empty short text values
	Format string
}

// KindSchema describes a section kind: its default title, whether it repeats,
// and the ordered list of fields its entries may carry.
type KindSchema struct {
	Kind         SectionKind
	DefaultTitle string
	Repeatable   bool
	Fields       []FieldSpec
}

// Field returns the spec for a field name and whether it is recognized
func (k *KindSchema) Field(name string) (FieldSpec, bool) {
	for _, f := range k.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// RequiredFields returns the names of the required fields in schema order
func (k *KindSchema) RequiredFields() []string {
	var names []string
	for _, f := range k.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// kindOrder is the canonical order of kinds, used by scaffolding and listings
var kindOrder = []SectionKind{
	KindContactInfo,
	KindSummary,
	KindExperience,
	KindEducation,
	KindSkills,
	KindCustom,
}

var schemas = map[SectionKind]*KindSchema{
	KindContactInfo: {
		Kind:         KindContactInfo,
		DefaultTitle: "Contact Information",
		Fields: []FieldSpec{
			{Name: "full_name", Label: "Full Name", Type: TypeShortText, Required: true},
			{Name: "email", Label: "Email", Type: TypeShortText, Required: true, Format: "email"},
			{Name: "phone", Label: "Phone", Type: TypeShortText},
			{Name: "location", Label: "Location", Type: TypeShortText},
			{Name: "linkedin", Label: "LinkedIn", Type: TypeShortText, Format: "url"},
			{Name: "website", Label: "Website", Type: TypeShortText, Format: "url"},
		},
	},
	KindSummary: {
		Kind:         KindSummary,
		DefaultTitle: "Summary",
		Fields: []FieldSpec{
			{Name: "text", Label: "Summary", Type: TypeLongText, Required: true},
		},
	},
	KindExperience: {
		Kind:         KindExperience,
		DefaultTitle: "Experience",
		Repeatable:   true,
		Fields: []FieldSpec{
			{Name: "role", Label: "Role", Type: TypeShortText, Required: true},
			{Name: "organization", Label: "Organization", Type: TypeShortText, Required: true},
			{Name: "dates", Label: "Dates", Type: TypeDateRange, Required: true},
			{Name: "location", Label: "Location", Type: TypeShortText},
			{Name: "description", Label: "Description", Type: TypeLongText},
			{Name: "highlights", Label: "Highlights", Type: TypeTextList},
		},
	},
	KindEducation: {
		Kind:         KindEducation,
		DefaultTitle: "Education",
		Repeatable:   true,
		Fields: []FieldSpec{
			{Name: "degree", Label: "Degree", Type: TypeShortText, Required: true},
			{Name: "institution", Label: "Institution", Type: TypeShortText, Required: true},
			{Name: "dates", Label: "Dates", Type: TypeDateRange},
			{Name: "location", Label: "Location", Type: TypeShortText},
			{Name: "grade", Label: "Grade", Type: TypeShortText},
			{Name: "details", Label: "Details", Type: TypeTextList},
		},
	},
	KindSkills: {
		Kind:         KindSkills,
		DefaultTitle: "Skills",
		Repeatable:   true,
		Fields: []FieldSpec{
			{Name: "category", Label: "Category", Type: TypeShortText},
			{Name: "skills", Label: "Skills", Type: TypeTextList, Required: true},
		},
	},
	KindCustom: {
		Kind:         KindCustom,
		DefaultTitle: "Additional",
		Repeatable:   true,
		Fields: []FieldSpec{
			{Name: "heading", Label: "Heading", Type: TypeShortText, Required: true},
			{Name: "subheading", Label: "Subheading", Type: TypeShortText},
			{Name: "dates", Label: "Dates", Type: TypeDateRange},
			{Name: "body", Label: "Body", Type: TypeLongText},
			{Name: "items", Label: "Items", Type: TypeTextList},
		},
	},
}

// SchemaFor returns the schema of a kind, or nil if the kind is not recognized
func SchemaFor(kind SectionKind) *KindSchema {
	return schemas[kind]
}

// IsRecognized reports whether kind is one of the recognized section kinds
func (k SectionKind) IsRecognized() bool {
	_, ok := schemas[k]
	return ok
}

// IsRepeatable reports whether a document may hold more than one section of this kind
func (k SectionKind) IsRepeatable() bool {
	s, ok := schemas[k]
	return ok && s.Repeatable
}

// Kinds returns all recognized kinds in canonical order
func Kinds() []SectionKind {
	out := make([]SectionKind, len(kindOrder))
	copy(out, kindOrder)
	return out
}

// LookupFieldType returns the declared type of a field name. Every field name
// maps to the same type in every kind that declares it, so the name alone is
// enough to decode an untyped value.
func LookupFieldType(name string) (ValueType, bool) {
	for _, kind := range kindOrder {
		if spec, ok := schemas[kind].Field(name); ok {
			return spec.Type, true
		}
	}
	return "", false
}
