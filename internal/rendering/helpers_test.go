// Package rendering turns a RenderInput into resume bytes: LaTeX source, HTML or PDF.
package rendering

import (
	"context"
	"testing"

	"github.com/jonathan/resume-builder/internal/edit"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/require"
)

func sampleOps() []edit.Operation {
	return []edit.Operation{
		edit.AddSection{SectionID: "c", EntryID: "me", Kind: types.KindContactInfo},
		edit.SetField{SectionID: "c", EntryID: "me", Field: "full_name", Value: types.ShortText("jane doe")},
		edit.SetField{SectionID: "c", EntryID: "me", Field: "email", Value: types.ShortText("jane@example.com")},
		edit.AddSection{SectionID: "s", EntryID: "sum", Kind: types.KindSummary},
		edit.SetField{SectionID: "s", EntryID: "sum", Field: "text", Value: types.LongText("Engineer who cut costs by 40% & shipped fast.")},
		edit.AddSection{SectionID: "x", Kind: types.KindExperience},
		edit.AddEntry{SectionID: "x", EntryID: "job"},
		edit.SetField{SectionID: "x", EntryID: "job", Field: "role", Value: types.ShortText("Senior Engineer")},
		edit.SetField{SectionID: "x", EntryID: "job", Field: "organization", Value: types.ShortText("R&D Labs")},
		edit.SetField{SectionID: "x", EntryID: "job", Field: "dates", Value: types.DateRange{Start: "2021-02", End: "present"}},
		edit.SetField{SectionID: "x", EntryID: "job", Field: "highlights", Value: types.TextList{"Led the C# migration", "Cut p99 latency to <50ms"}},
		edit.AddSection{SectionID: "k", Kind: types.KindSkills},
		edit.AddEntry{SectionID: "k", EntryID: "langs"},
		edit.SetField{SectionID: "k", EntryID: "langs", Field: "category", Value: types.ShortText("Languages")},
		edit.SetField{SectionID: "k", EntryID: "langs", Field: "skills", Value: types.TextList{"go, python"}},
	}
}

func sampleDocument(t *testing.T) *types.ResumeDocument {
	t.Helper()
	doc := types.NewDocument()
	for _, op := range sampleOps() {
		var err error
		doc, err = edit.Apply(doc, op)
		require.NoError(t, err)
	}
	return doc
}

func sampleInput(t *testing.T) *export.RenderInput {
	t.Helper()
	input, err := export.Serialize(context.Background(), sampleDocument(t))
	require.NoError(t, err)
	return input
}
