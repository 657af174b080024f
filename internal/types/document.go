// Package types provides type definitions for structured data used throughout the resume-builder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeDocument is the canonical resume model.
// It is mutated only by the edit engine; everything else works on clones.
type ResumeDocument struct {
	Sections []*Section
	Revision uint64
}

// Section is one ordered group of resume content of a single kind
type Section struct {
	ID       string
	Kind     SectionKind
	Title    string
	Position int
	Entries  []*Entry
}

// Entry is one repeatable item of a section (a job, a degree, a skill group)
type Entry struct {
	ID       string
	Position int
	Fields   map[string]Value
}

// NewDocument returns an empty document at revision zero
func NewDocument() *ResumeDocument {
	return &ResumeDocument{Sections: []*Section{}}
}

// Clone returns a deep copy of the document
func (d *ResumeDocument) Clone() *ResumeDocument {
	if d == nil {
		return nil
	}
	out := &ResumeDocument{
		Sections: make([]*Section, len(d.Sections)),
		Revision: d.Revision,
	}
	for i, s := range d.Sections {
		out.Sections[i] = s.Clone()
	}
	return out
}

// Clone returns a deep copy of the section
func (s *Section) Clone() *Section {
	out := &Section{
		ID:       s.ID,
		Kind:     s.Kind,
		Title:    s.Title,
		Position: s.Position,
		Entries:  make([]*Entry, len(s.Entries)),
	}
	for i, e := range s.Entries {
		out.Entries[i] = e.Clone()
	}
	return out
}

// Clone returns a deep copy of the entry
func (e *Entry) Clone() *Entry {
	out := &Entry{
		ID:       e.ID,
		Position: e.Position,
		Fields:   make(map[string]Value, len(e.Fields)),
	}
	for k, v := range e.Fields {
		out.Fields[k] = CloneValue(v)
	}
	return out
}

// SectionIndex returns the index of the section with the given id, or -1
func (d *ResumeDocument) SectionIndex(id string) int {
	for i, s := range d.Sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Section returns the section with the given id, or nil
func (d *ResumeDocument) Section(id string) *Section {
	if i := d.SectionIndex(id); i >= 0 {
		return d.Sections[i]
	}
	return nil
}

// SectionsOfKind returns the sections of a kind in document order
func (d *ResumeDocument) SectionsOfKind(kind SectionKind) []*Section {
	var out []*Section
	for _, s := range d.Sections {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// EntryIndex returns the index of the entry with the given id, or -1
func (s *Section) EntryIndex(id string) int {
	for i, e := range s.Entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Entry returns the entry with the given id, or nil
func (s *Section) Entry(id string) *Entry {
	if i := s.EntryIndex(id); i >= 0 {
		return s.Entries[i]
	}
	return nil
}

// Renumber rewrites section and entry positions to match slice order
func (d *ResumeDocument) Renumber() {
	for i, s := range d.Sections {
		s.Position = i
		for j, e := range s.Entries {
			e.Position = j
		}
	}
}

// Get returns the value of a field, falling back to the zero value of its
// declared type when the field is unset. ok is false for unknown fields.
func (e *Entry) Get(kind SectionKind, field string) (Value, bool) {
	schema := SchemaFor(kind)
	if schema == nil {
		return nil, false
	}
	spec, ok := schema.Field(field)
	if !ok {
		return nil, false
	}
	if v, set := e.Fields[field]; set && v != nil {
		return v, true
	}
	return ZeroValue(spec.Type), true
}

// Text returns the string form of a short or long text field, or "" otherwise
func (e *Entry) Text(field string) string {
	switch v := e.Fields[field].(type) {
	case ShortText:
		return string(v)
	case LongText:
		return string(v)
	default:
		return ""
	}
}
