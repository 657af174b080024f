package assist

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/resume-builder/internal/edit"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeClient) Close() error { return nil }

func buildDoc(t *testing.T, ops ...edit.Operation) *types.ResumeDocument {
	t.Helper()
	doc, err := edit.Apply(types.NewDocument(), edit.Batch{Ops: ops})
	require.NoError(t, err)
	return doc
}

func studentDoc(t *testing.T) *types.ResumeDocument {
	return buildDoc(t,
		edit.AddSection{SectionID: "contact", EntryID: "me", Kind: types.KindContactInfo},
		edit.SetField{SectionID: "contact", EntryID: "me", Field: "full_name", Value: types.ShortText("jane doe")},
		edit.AddSection{SectionID: "edu", Kind: types.KindEducation},
		edit.AddEntry{SectionID: "edu", EntryID: "bsc"},
		edit.SetField{SectionID: "edu", EntryID: "bsc", Field: "degree", Value: types.ShortText("bsc computer science")},
		edit.SetField{SectionID: "edu", EntryID: "bsc", Field: "institution", Value: types.ShortText("state uni")},
		edit.AddSection{SectionID: "skills", Kind: types.KindSkills},
		edit.AddEntry{SectionID: "skills", EntryID: "langs"},
		edit.SetField{SectionID: "skills", EntryID: "langs", Field: "skills", Value: types.TextList{"go, sql", "Go"}},
	)
}

func TestInputFromDocument(t *testing.T) {
	in := InputFromDocument(studentDoc(t))

	assert.Equal(t, "Jane Doe", in.Name)
	assert.Equal(t, []string{"Go", "Sql"}, in.Skills)
	assert.Equal(t, []string{"Bsc Computer Science from State University"}, in.Education)
	assert.Empty(t, in.Roles)
}

func TestSummaryInput_Prompt(t *testing.T) {
	tests := []struct {
		name     string
		in       SummaryInput
		contains []string
	}{
		{
			name:     "fresher",
			in:       SummaryInput{Name: "Jane Doe", Skills: []string{"Go", "SQL"}, Education: []string{"BSc from MIT"}},
			contains: []string{"for a fresher named Jane Doe", "Skills: Go, SQL", "Education: BSc from MIT"},
		},
		{
			name:     "experienced",
			in:       SummaryInput{Name: "Jane Doe", Roles: []string{"Engineer", "Intern"}},
			contains: []string{"experience as Engineer, Intern", "Skills: not provided"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, err := tt.in.Prompt()
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, prompt, s)
			}
		})
	}
}

func TestDrafter_Draft(t *testing.T) {
	client := &fakeClient{reply: "```\nSummary: Curious engineer who ships.\n```"}
	text, err := NewDrafter(client).Draft(context.Background(), SummaryInput{Name: "Jane"})
	require.NoError(t, err)
	assert.Equal(t, "Curious engineer who ships.", text)
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "named Jane")
}

func TestDrafter_Errors(t *testing.T) {
	tests := []struct {
		name    string
		drafter *Drafter
	}{
		{name: "nil drafter", drafter: nil},
		{name: "api failure", drafter: NewDrafter(&fakeClient{err: errors.New("quota exceeded")})},
		{name: "empty reply", drafter: NewDrafter(&fakeClient{reply: "  "})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.drafter.Draft(context.Background(), SummaryInput{Name: "Jane"})
			var apiErr *APICallError
			require.True(t, errors.As(err, &apiErr))

			text := DraftOrFallback(context.Background(), tt.drafter, SummaryInput{Name: "Jane"})
			assert.Equal(t, FallbackSummary, text)
		})
	}
}

func TestDrafter_Rewrite(t *testing.T) {
	client := &fakeClient{reply: `"Tighter summary."`}
	text, err := NewDrafter(client).Rewrite(context.Background(), "Jane", "A long summary.")
	require.NoError(t, err)
	assert.Equal(t, "Tighter summary.", text)
	assert.Contains(t, client.prompts[0], "Summary: A long summary.")
}

func TestSummaryOperation(t *testing.T) {
	t.Run("creates the section after contact", func(t *testing.T) {
		doc := studentDoc(t)
		assert.True(t, NeedsSummary(doc))

		next, err := edit.Apply(doc, SummaryOperation(doc, "Drafted."))
		require.NoError(t, err)
		assert.False(t, NeedsSummary(next))
		require.Len(t, next.Sections, 4)
		assert.Equal(t, types.KindSummary, next.Sections[1].Kind)
		assert.Equal(t, "Drafted.", next.Sections[1].Entries[0].Text("text"))
		assert.Equal(t, doc.Revision+1, next.Revision, "the summary lands as one revision")
	})

	t.Run("fills an existing empty summary", func(t *testing.T) {
		doc := buildDoc(t, edit.AddSection{SectionID: "sum", EntryID: "text", Kind: types.KindSummary})
		assert.True(t, NeedsSummary(doc))

		op := SummaryOperation(doc, "Drafted.")
		set, ok := op.(edit.SetField)
		require.True(t, ok)
		assert.Equal(t, "sum", set.SectionID)
		assert.Equal(t, "text", set.EntryID)
	})
}
