package edit

import (
	"fmt"
	"slices"

	"github.com/jonathan/resume-builder/internal/types"
)

// OpName identifies an operation on the wire and in history listings
type OpName string

// Operation names
const (
	OpAddSection      OpName = "add_section"
	OpRemoveSection   OpName = "remove_section"
	OpMoveSection     OpName = "move_section"
	OpSetSectionTitle OpName = "set_section_title"
	OpAddEntry        OpName = "add_entry"
	OpRemoveEntry     OpName = "remove_entry"
	OpMoveEntry       OpName = "move_entry"
	OpSetField        OpName = "set_field"
	OpClearField      OpName = "clear_field"
	OpReset           OpName = "reset"
	OpBatch           OpName = "batch"
)

// Operation is an immutable record of one atomic change.
// apply mutates a scratch copy of the document owned by the engine and
// returns the operation with any generated ids filled in.
type Operation interface {
	Name() OpName
	Description() string
	apply(doc *types.ResumeDocument, ids IDSource) (Operation, error)
}

// AddSection appends a new section. Singular kinds are created with their single entry.
type AddSection struct {
	SectionID string
	Kind      types.SectionKind
	Title     string
	// EntryID names the initial entry of a singular section; ignored for repeatable kinds
	EntryID string
}

// RemoveSection deletes a section and all of its entries
type RemoveSection struct {
	SectionID string
}

// MoveSection moves a section to index To, shifting the others
type MoveSection struct {
	SectionID string
	To        int
}

// SetSectionTitle changes the display label of a section
type SetSectionTitle struct {
	SectionID string
	Title     string
}

// AddEntry appends an empty entry to a section
type AddEntry struct {
	SectionID string
	EntryID   string
}

// RemoveEntry deletes one entry of a section
type RemoveEntry struct {
	SectionID string
	EntryID   string
}

// MoveEntry moves an entry to index To within its section
type MoveEntry struct {
	SectionID string
	EntryID   string
	To        int
}

// SetField stores a value in an entry field
type SetField struct {
	SectionID string
	EntryID   string
	Field     string
	Value     types.Value
}

// ClearField removes a value from an entry field
type ClearField struct {
	SectionID string
	EntryID   string
	Field     string
}

// Reset removes every section
type Reset struct{}

// Batch applies several operations as one all-or-nothing change
type Batch struct {
	Label string
	Ops   []Operation
}

// Name implements Operation
func (AddSection) Name() OpName { return OpAddSection }

// Name implements Operation
func (RemoveSection) Name() OpName { return OpRemoveSection }

// Name implements Operation
func (MoveSection) Name() OpName { return OpMoveSection }

// Name implements Operation
func (SetSectionTitle) Name() OpName { return OpSetSectionTitle }

// Name implements Operation
func (AddEntry) Name() OpName { return OpAddEntry }

// Name implements Operation
func (RemoveEntry) Name() OpName { return OpRemoveEntry }

// Name implements Operation
func (MoveEntry) Name() OpName { return OpMoveEntry }

// Name implements Operation
func (SetField) Name() OpName { return OpSetField }

// Name implements Operation
func (ClearField) Name() OpName { return OpClearField }

// Name implements Operation
func (Reset) Name() OpName { return OpReset }

// Name implements Operation
func (Batch) Name() OpName { return OpBatch }

// Description implements Operation
func (o AddSection) Description() string { return fmt.Sprintf("Add %s section", o.Kind) }

// Description implements Operation
func (o RemoveSection) Description() string { return "Remove section " + o.SectionID }

// Description implements Operation
func (o MoveSection) Description() string {
	return fmt.Sprintf("Move section %s to %d", o.SectionID, o.To)
}

// Description implements Operation
func (o SetSectionTitle) Description() string { return fmt.Sprintf("Rename section to %q", o.Title) }

// Description implements Operation
func (o AddEntry) Description() string { return "Add entry to section " + o.SectionID }

// Description implements Operation
func (o RemoveEntry) Description() string { return "Remove entry " + o.EntryID }

// Description implements Operation
func (o MoveEntry) Description() string { return fmt.Sprintf("Move entry %s to %d", o.EntryID, o.To) }

// Description implements Operation
func (o SetField) Description() string { return "Set " + o.Field }

// Description implements Operation
func (o ClearField) Description() string { return "Clear " + o.Field }

// Description implements Operation
func (Reset) Description() string { return "Reset document" }

// Description implements Operation
func (o Batch) Description() string {
	if o.Label != "" {
		return o.Label
	}
	return fmt.Sprintf("%d changes", len(o.Ops))
}

func (o AddSection) apply(doc *types.ResumeDocument, ids IDSource) (Operation, error) {
	schema := types.SchemaFor(o.Kind)
	if schema == nil {
		return nil, newError(KindUnknownKind, OpAddSection, "section kind %q is not recognized", o.Kind)
	}
	if !schema.Repeatable && len(doc.SectionsOfKind(o.Kind)) > 0 {
		return nil, newError(KindDuplicateSingularSection, OpAddSection, "document already has a %s section", o.Kind)
	}

	if o.SectionID == "" {
		o.SectionID = ids.NewID()
	}
	if idInUse(doc, o.SectionID) {
		return nil, newError(KindDuplicateID, OpAddSection, "id %q is already in use", o.SectionID)
	}
	if o.Title == "" {
		o.Title = schema.DefaultTitle
	}

	section := &types.Section{
		ID:      o.SectionID,
		Kind:    o.Kind,
		Title:   o.Title,
		Entries: []*types.Entry{},
	}
	if !schema.Repeatable {
		if o.EntryID == "" {
			o.EntryID = ids.NewID()
		}
		if idInUse(doc, o.EntryID) || o.EntryID == o.SectionID {
			return nil, newError(KindDuplicateID, OpAddSection, "id %q is already in use", o.EntryID)
		}
		section.Entries = append(section.Entries, newEntry(o.EntryID))
	} else {
		o.EntryID = ""
	}

	doc.Sections = append(doc.Sections, section)
	return o, nil
}

func (o RemoveSection) apply(doc *types.ResumeDocument, _ IDSource) (Operation, error) {
	i := doc.SectionIndex(o.SectionID)
	if i < 0 {
		return nil, sectionNotFound(OpRemoveSection, o.SectionID)
	}
	doc.Sections = slices.Delete(doc.Sections, i, i+1)
	return o, nil
}

func (o MoveSection) apply(doc *types.ResumeDocument, _ IDSource) (Operation, error) {
	i := doc.SectionIndex(o.SectionID)
	if i < 0 {
		return nil, sectionNotFound(OpMoveSection, o.SectionID)
	}
	if o.To < 0 || o.To >= len(doc.Sections) {
		return nil, newError(KindOutOfRange, OpMoveSection, "target index %d outside [0, %d)", o.To, len(doc.Sections))
	}
	doc.Sections = move(doc.Sections, i, o.To)
	return o, nil
}

func (o SetSectionTitle) apply(doc *types.ResumeDocument, _ IDSource) (Operation, error) {
	section := doc.Section(o.SectionID)
	if section == nil {
		return nil, sectionNotFound(OpSetSectionTitle, o.SectionID)
	}
	section.Title = o.Title
	return o, nil
}

func (o AddEntry) apply(doc *types.ResumeDocument, ids IDSource) (Operation, error) {
	section := doc.Section(o.SectionID)
	if section == nil {
		return nil, sectionNotFound(OpAddEntry, o.SectionID)
	}
	if !section.Kind.IsRepeatable() && len(section.Entries) > 0 {
		return nil, newError(KindDuplicateSingularEntry, OpAddEntry, "%s section already holds its entry", section.Kind)
	}
	if o.EntryID == "" {
		o.EntryID = ids.NewID()
	}
	if idInUse(doc, o.EntryID) {
		return nil, newError(KindDuplicateID, OpAddEntry, "id %q is already in use", o.EntryID)
	}
	section.Entries = append(section.Entries, newEntry(o.EntryID))
	return o, nil
}

func (o RemoveEntry) apply(doc *types.ResumeDocument, _ IDSource) (Operation, error) {
	section, i, err := findEntry(doc, OpRemoveEntry, o.SectionID, o.EntryID)
	if err != nil {
		return nil, err
	}
	section.Entries = slices.Delete(section.Entries, i, i+1)
	return o, nil
}

func (o MoveEntry) apply(doc *types.ResumeDocument, _ IDSource) (Operation, error) {
	section, i, err := findEntry(doc, OpMoveEntry, o.SectionID, o.EntryID)
	if err != nil {
		return nil, err
	}
	if o.To < 0 || o.To >= len(section.Entries) {
		return nil, newError(KindOutOfRange, OpMoveEntry, "target index %d outside [0, %d)", o.To, len(section.Entries))
	}
	section.Entries = move(section.Entries, i, o.To)
	return o, nil
}

func (o SetField) apply(doc *types.ResumeDocument, _ IDSource) (Operation, error) {
	section, i, err := findEntry(doc, OpSetField, o.SectionID, o.EntryID)
	if err != nil {
		return nil, err
	}
	spec, err := fieldSpec(OpSetField, section.Kind, o.Field)
	if err != nil {
		return nil, err
	}
	if o.Value == nil {
		return nil, newError(KindTypeMismatch, OpSetField, "field %q needs a %s value, got none", o.Field, spec.Type)
	}
	if o.Value.Type() != spec.Type {
		return nil, newError(KindTypeMismatch, OpSetField, "field %q needs a %s value, got %s", o.Field, spec.Type, o.Value.Type())
	}
	if dr, ok := o.Value.(types.DateRange); ok {
		if err := dr.Check(); err != nil {
			return nil, newError(KindTypeMismatch, OpSetField, "field %q: %v", o.Field, err)
		}
	}
	o.Value = types.CloneValue(o.Value)
	section.Entries[i].Fields[o.Field] = types.CloneValue(o.Value)
	return o, nil
}

func (o ClearField) apply(doc *types.ResumeDocument, _ IDSource) (Operation, error) {
	section, i, err := findEntry(doc, OpClearField, o.SectionID, o.EntryID)
	if err != nil {
		return nil, err
	}
	if _, err := fieldSpec(OpClearField, section.Kind, o.Field); err != nil {
		return nil, err
	}
	delete(section.Entries[i].Fields, o.Field)
	return o, nil
}

func (o Reset) apply(doc *types.ResumeDocument, _ IDSource) (Operation, error) {
	doc.Sections = []*types.Section{}
	return o, nil
}

func (o Batch) apply(doc *types.ResumeDocument, ids IDSource) (Operation, error) {
	resolved := Batch{Label: o.Label, Ops: make([]Operation, 0, len(o.Ops))}
	for i, op := range o.Ops {
		if op == nil {
			return nil, newError(KindInvalidOperation, OpBatch, "operation %d is nil", i)
		}
		r, err := op.apply(doc, ids)
		if err != nil {
			return nil, err
		}
		resolved.Ops = append(resolved.Ops, r)
	}
	return resolved, nil
}

func newEntry(id string) *types.Entry {
	return &types.Entry{ID: id, Fields: make(map[string]types.Value)}
}

func sectionNotFound(op OpName, id string) *Error {
	return newError(KindNotFound, op, "section %q does not exist", id)
}

func findEntry(doc *types.ResumeDocument, op OpName, sectionID, entryID string) (*types.Section, int, error) {
	section := doc.Section(sectionID)
	if section == nil {
		return nil, -1, sectionNotFound(op, sectionID)
	}
	i := section.EntryIndex(entryID)
	if i < 0 {
		return nil, -1, newError(KindNotFound, op, "entry %q does not exist in section %q", entryID, sectionID)
	}
	return section, i, nil
}

func fieldSpec(op OpName, kind types.SectionKind, field string) (types.FieldSpec, error) {
	schema := types.SchemaFor(kind)
	if schema == nil {
		return types.FieldSpec{}, newError(KindUnknownKind, op, "section kind %q is not recognized", kind)
	}
	spec, ok := schema.Field(field)
	if !ok {
		return types.FieldSpec{}, newError(KindUnknownField, op, "field %q is not defined for %s entries", field, kind)
	}
	return spec, nil
}

func idInUse(doc *types.ResumeDocument, id string) bool {
	for _, s := range doc.Sections {
		if s.ID == id || s.EntryIndex(id) >= 0 {
			return true
		}
	}
	return false
}

// move relocates items[from] to index to; every other item keeps its relative order
func move[T any](items []T, from, to int) []T {
	if from == to {
		return items
	}
	item := items[from]
	items = slices.Delete(items, from, from+1)
	return slices.Insert(items, to, item)
}
