package edit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqIDs issues id-1, id-2, ... so tests can name generated ids
type seqIDs struct{ n int }

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

func newTestEngine() *Engine {
	return NewEngine(WithIDSource(&seqIDs{}))
}

func mustApply(t *testing.T, e *Engine, op Operation) Result {
	t.Helper()
	res, err := e.Apply(op)
	require.NoError(t, err)
	return res
}

func sectionIDs(doc *types.ResumeDocument) []string {
	ids := make([]string, len(doc.Sections))
	for i, s := range doc.Sections {
		ids[i] = s.ID
	}
	return ids
}

func TestApply_AddSection(t *testing.T) {
	e := newTestEngine()

	res := mustApply(t, e, AddSection{Kind: types.KindExperience})
	assert.Equal(t, uint64(1), res.Revision)
	assert.Equal(t, "id-1", res.SectionID)
	assert.Empty(t, res.EntryID)

	section := e.Document().Section("id-1")
	require.NotNil(t, section)
	assert.Equal(t, "Experience", section.Title)
	assert.Empty(t, section.Entries)

	res = mustApply(t, e, AddSection{Kind: types.KindContactInfo, Title: "Contact"})
	assert.Equal(t, "id-2", res.SectionID)
	assert.Equal(t, "id-3", res.EntryID, "singular sections are created with their entry")
	assert.Len(t, e.Document().Section("id-2").Entries, 1)
}

func TestApply_Rejections(t *testing.T) {
	setup := func(t *testing.T) *Engine {
		e := newTestEngine()
		mustApply(t, e, AddSection{SectionID: "contact", EntryID: "me", Kind: types.KindContactInfo})
		mustApply(t, e, AddSection{SectionID: "work", Kind: types.KindExperience})
		mustApply(t, e, AddEntry{SectionID: "work", EntryID: "job"})
		return e
	}

	tests := []struct {
		name string
		op   Operation
		want error
	}{
		{name: "duplicate singular section", op: AddSection{Kind: types.KindContactInfo}, want: ErrDuplicateSingularSection},
		{name: "unknown kind", op: AddSection{Kind: "hobbies"}, want: ErrUnknownKind},
		{name: "duplicate section id", op: AddSection{SectionID: "job", Kind: types.KindSkills}, want: ErrDuplicateID},
		{name: "duplicate entry id", op: AddEntry{SectionID: "work", EntryID: "contact"}, want: ErrDuplicateID},
		{name: "second singular entry", op: AddEntry{SectionID: "contact"}, want: ErrDuplicateSingularEntry},
		{name: "remove missing section", op: RemoveSection{SectionID: "nope"}, want: ErrNotFound},
		{name: "remove missing entry", op: RemoveEntry{SectionID: "work", EntryID: "nope"}, want: ErrNotFound},
		{name: "entry in wrong section", op: RemoveEntry{SectionID: "contact", EntryID: "job"}, want: ErrNotFound},
		{name: "move section negative", op: MoveSection{SectionID: "work", To: -1}, want: ErrOutOfRange},
		{name: "move section past end", op: MoveSection{SectionID: "work", To: 2}, want: ErrOutOfRange},
		{name: "move entry past end", op: MoveEntry{SectionID: "work", EntryID: "job", To: 1}, want: ErrOutOfRange},
		{name: "rename missing section", op: SetSectionTitle{SectionID: "nope", Title: "x"}, want: ErrNotFound},
		{
			name: "unknown field",
			op:   SetField{SectionID: "work", EntryID: "job", Field: "degree", Value: types.ShortText("BSc")},
			want: ErrUnknownField,
		},
		{
			name: "type mismatch",
			op:   SetField{SectionID: "work", EntryID: "job", Field: "highlights", Value: types.ShortText("one")},
			want: ErrTypeMismatch,
		},
		{
			name: "nil value",
			op:   SetField{SectionID: "work", EntryID: "job", Field: "role"},
			want: ErrTypeMismatch,
		},
		{
			name: "malformed date",
			op:   SetField{SectionID: "work", EntryID: "job", Field: "dates", Value: types.DateRange{Start: "last year"}},
			want: ErrTypeMismatch,
		},
		{name: "clear unknown field", op: ClearField{SectionID: "work", EntryID: "job", Field: "grade"}, want: ErrUnknownField},
		{name: "nil op in batch", op: Batch{Ops: []Operation{Reset{}, nil}}, want: ErrInvalidOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := setup(t)
			before := e.Snapshot()

			_, err := e.Apply(tt.op)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			var editErr *Error
			require.True(t, errors.As(err, &editErr))

			assert.Equal(t, before, e.Document(), "document unchanged")
			assert.Equal(t, before.Revision, e.Revision(), "revision unchanged")
			assert.Len(t, e.History().Descriptions(), 3)
		})
	}
}

func TestApply_UnknownFieldLeavesDocumentUnchanged(t *testing.T) {
	doc := types.NewDocument()
	doc, err := Apply(doc, AddSection{SectionID: "s", Kind: types.KindSkills})
	require.NoError(t, err)
	doc, err = Apply(doc, AddEntry{SectionID: "s", EntryID: "e"})
	require.NoError(t, err)
	require.Equal(t, uint64(2), doc.Revision)

	out, err := Apply(doc, SetField{SectionID: "s", EntryID: "e", Field: "organization", Value: types.ShortText("Acme")})
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Same(t, doc, out)
	assert.Equal(t, uint64(2), out.Revision)
	assert.Empty(t, out.Sections[0].Entries[0].Fields)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	doc, err := Apply(types.NewDocument(), AddSection{SectionID: "s", Kind: types.KindSkills})
	require.NoError(t, err)
	before := doc.Clone()

	next, err := Apply(doc, SetSectionTitle{SectionID: "s", Title: "Tools"})
	require.NoError(t, err)

	assert.Equal(t, before, doc)
	assert.Equal(t, "Tools", next.Sections[0].Title)
	assert.Equal(t, doc.Revision+1, next.Revision)
}

func TestApply_MoveSectionScenario(t *testing.T) {
	e := newTestEngine()
	first := mustApply(t, e, AddSection{Kind: types.KindExperience}).SectionID
	second := mustApply(t, e, AddSection{Kind: types.KindExperience}).SectionID
	mustApply(t, e, AddEntry{SectionID: first})
	mustApply(t, e, AddEntry{SectionID: second})

	res := mustApply(t, e, MoveSection{SectionID: second, To: 0})
	assert.Equal(t, uint64(5), res.Revision)
	assert.Equal(t, []string{second, first}, sectionIDs(e.Document()))
	assert.Equal(t, 0, e.Document().Sections[0].Position)
	assert.Equal(t, 1, e.Document().Sections[1].Position)
	assert.True(t, types.Validate(e.Document()).Valid())
}

func TestApply_MovePreservesRelativeOrder(t *testing.T) {
	tests := []struct {
		name string
		move string
		to   int
		want []string
	}{
		{name: "forward", move: "a", to: 2, want: []string{"b", "c", "a", "d"}},
		{name: "backward", move: "d", to: 1, want: []string{"a", "d", "b", "c"}},
		{name: "to end", move: "b", to: 3, want: []string{"a", "c", "d", "b"}},
		{name: "in place", move: "c", to: 2, want: []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine()
			mustApply(t, e, AddSection{SectionID: "s", Kind: types.KindCustom})
			for _, id := range []string{"a", "b", "c", "d"} {
				mustApply(t, e, AddEntry{SectionID: "s", EntryID: id})
			}

			mustApply(t, e, MoveEntry{SectionID: "s", EntryID: tt.move, To: tt.to})

			section := e.Document().Section("s")
			got := make([]string, len(section.Entries))
			for i, entry := range section.Entries {
				got[i] = entry.ID
				assert.Equal(t, i, entry.Position)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply_RemoveIsNotIdempotent(t *testing.T) {
	e := newTestEngine()
	mustApply(t, e, AddSection{SectionID: "s", Kind: types.KindSkills})
	mustApply(t, e, RemoveSection{SectionID: "s"})

	_, err := e.Apply(RemoveSection{SectionID: "s"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApply_SetAndClearField(t *testing.T) {
	e := newTestEngine()
	res := mustApply(t, e, AddSection{Kind: types.KindContactInfo})

	highlights := types.TextList{"a", "b"}
	mustApply(t, e, SetField{SectionID: res.SectionID, EntryID: res.EntryID, Field: "full_name", Value: types.ShortText("Jane")})
	mustApply(t, e, SetField{SectionID: res.SectionID, EntryID: res.EntryID, Field: "email", Value: types.ShortText("jane@example.com")})

	assert.True(t, types.Validate(e.Document()).Complete())

	mustApply(t, e, ClearField{SectionID: res.SectionID, EntryID: res.EntryID, Field: "email"})
	result := types.Validate(e.Document())
	require.Len(t, result.Missing, 1)
	assert.Equal(t, "contact_info.email", result.Missing[0].Path())

	// Values are copied in, so later caller mutations do not leak into the document
	x := mustApply(t, e, AddSection{Kind: types.KindExperience})
	entry := mustApply(t, e, AddEntry{SectionID: x.SectionID})
	mustApply(t, e, SetField{SectionID: x.SectionID, EntryID: entry.EntryID, Field: "highlights", Value: highlights})
	highlights[0] = "mutated"
	stored := e.Document().Section(x.SectionID).Entries[0].Fields["highlights"]
	assert.Equal(t, types.TextList{"a", "b"}, stored)
}

func TestApply_BatchIsAtomic(t *testing.T) {
	e := newTestEngine()
	mustApply(t, e, AddSection{SectionID: "s", Kind: types.KindSkills})

	_, err := e.Apply(Batch{Ops: []Operation{
		AddEntry{SectionID: "s", EntryID: "e"},
		SetField{SectionID: "s", EntryID: "e", Field: "skills", Value: types.TextList{"Go"}},
		MoveSection{SectionID: "s", To: 4},
	}})
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Empty(t, e.Document().Section("s").Entries)
	assert.Equal(t, uint64(1), e.Revision())

	res := mustApply(t, e, Batch{Label: "Add Go", Ops: []Operation{
		AddEntry{SectionID: "s", EntryID: "e"},
		SetField{SectionID: "s", EntryID: "e", Field: "skills", Value: types.TextList{"Go"}},
	}})
	assert.Equal(t, uint64(2), res.Revision, "a batch is one revision")
	assert.Equal(t, "s", res.SectionID)
	assert.Equal(t, "e", res.EntryID)
	assert.Equal(t, "Add Go", e.History().Descriptions()[1])
}

func TestApply_Reset(t *testing.T) {
	e := newTestEngine()
	mustApply(t, e, AddSection{Kind: types.KindSummary})
	mustApply(t, e, AddSection{Kind: types.KindSkills})

	res := mustApply(t, e, Reset{})
	assert.Empty(t, res.Document.Sections)
	assert.Equal(t, uint64(3), res.Revision)
}

func TestApply_ValidEditsNeverIntroduceStructuralViolations(t *testing.T) {
	e := newTestEngine()
	ops := []Operation{
		AddSection{SectionID: "c", EntryID: "ce", Kind: types.KindContactInfo},
		AddSection{SectionID: "x", Kind: types.KindExperience},
		AddEntry{SectionID: "x", EntryID: "x1"},
		AddEntry{SectionID: "x", EntryID: "x2"},
		SetField{SectionID: "x", EntryID: "x2", Field: "dates", Value: types.DateRange{Start: "2020", End: types.PresentDate}},
		MoveEntry{SectionID: "x", EntryID: "x2", To: 0},
		AddSection{SectionID: "k", Kind: types.KindSkills},
		MoveSection{SectionID: "k", To: 0},
		RemoveEntry{SectionID: "x", EntryID: "x1"},
		AddSection{SectionID: "s", EntryID: "se", Kind: types.KindSummary},
		RemoveSection{SectionID: "s"},
		AddSection{SectionID: "s2", EntryID: "se2", Kind: types.KindSummary},
	}

	for i, op := range ops {
		mustApply(t, e, op)
		result := types.Validate(e.Document())
		assert.Empty(t, result.Structural, "after op %d (%s)", i, op.Name())
		assert.Equal(t, uint64(i+1), e.Revision())
	}
}

func TestEngine_UndoRedo(t *testing.T) {
	e := newTestEngine()
	_, err := e.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)

	mustApply(t, e, AddSection{SectionID: "s", Kind: types.KindSkills})
	mustApply(t, e, SetSectionTitle{SectionID: "s", Title: "Tools"})

	res, err := e.Undo()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), res.Revision, "undo is a new revision")
	assert.Equal(t, "Skills", e.Document().Section("s").Title)

	res, err = e.Redo()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), res.Revision)
	assert.Equal(t, "Tools", e.Document().Section("s").Title)

	_, err = e.Redo()
	assert.ErrorIs(t, err, ErrNothingToRedo)

	_, err = e.Undo()
	require.NoError(t, err)
	mustApply(t, e, AddSection{Kind: types.KindSummary})
	assert.False(t, e.History().CanRedo(), "a new edit clears redo")
}

func TestEngine_UndoDoesNotShareState(t *testing.T) {
	e := newTestEngine()
	mustApply(t, e, AddSection{SectionID: "s", Kind: types.KindSkills})
	mustApply(t, e, RemoveSection{SectionID: "s"})

	_, err := e.Undo()
	require.NoError(t, err)
	e.Document().Sections[0].Title = "scribbled"

	_, err = e.Redo()
	require.NoError(t, err)
	_, err = e.Undo()
	require.NoError(t, err)
	assert.Equal(t, "Skills", e.Document().Sections[0].Title)
}

func TestEngine_WithDocument(t *testing.T) {
	seed, err := Apply(types.NewDocument(), AddSection{SectionID: "s", Kind: types.KindSkills})
	require.NoError(t, err)

	e := NewEngine(WithDocument(seed))
	seed.Sections[0].Title = "changed outside"

	assert.Equal(t, "Skills", e.Document().Sections[0].Title)
	assert.Equal(t, uint64(1), e.Revision())
}

func TestHistory_Limit(t *testing.T) {
	h := NewHistory(2)
	h.Push(Step{Description: "one"})
	h.Push(Step{Description: "two"})
	h.Push(Step{Description: "three"})

	assert.Equal(t, []string{"two", "three"}, h.Descriptions())

	step, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "three", step.Description)
	assert.True(t, h.CanRedo())
	assert.False(t, step.At.IsZero())
}
