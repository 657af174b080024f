package assist

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/edit"
	"github.com/jonathan/resume-builder/internal/formatting"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/types"
)

// FallbackSummary is used when no summary can be drafted
const FallbackSummary = "Passionate student looking for opportunities to apply skills and grow."

const promptFile = "assist.json"

// SummaryInput holds the facts a summary is drafted from
type SummaryInput struct {
	Name      string
	Roles     []string
	Skills    []string
	Education []string
}

// InputFromDocument collects the summary facts of doc, formatted as they
// appear in the preview
func InputFromDocument(doc *types.ResumeDocument) SummaryInput {
	var in SummaryInput
	var skills []string
	for _, section := range doc.Sections {
		for _, entry := range section.Entries {
			switch section.Kind {
			case types.KindContactInfo:
				in.Name = formatting.Name(entry.Text("full_name"))
			case types.KindExperience:
				if role := strings.TrimSpace(entry.Text("role")); role != "" {
					in.Roles = append(in.Roles, role)
				}
			case types.KindSkills:
				if list, ok := entry.Fields["skills"].(types.TextList); ok {
					skills = append(skills, list...)
				}
			case types.KindEducation:
				degree := formatting.Name(entry.Text("degree"))
				institution := formatting.Name(entry.Text("institution"))
				switch {
				case degree != "" && institution != "":
					in.Education = append(in.Education, fmt.Sprintf("%s from %s", degree, institution))
				case degree != "":
					in.Education = append(in.Education, degree)
				case institution != "":
					in.Education = append(in.Education, institution)
				}
			}
		}
	}
	in.Skills = formatting.Skills(skills)
	return in
}

// Prompt builds the drafting prompt for in
func (in SummaryInput) Prompt() (string, error) {
	experience := "a fresher"
	if len(in.Roles) > 0 {
		experience = "a professional with experience as " + strings.Join(in.Roles, ", ")
	}
	return prompts.Render(promptFile, "draft-summary", map[string]string{
		"Name":       orNone(in.Name),
		"Experience": experience,
		"Skills":     orNone(strings.Join(in.Skills, ", ")),
		"Education":  orNone(strings.Join(in.Education, "; ")),
	})
}

func orNone(s string) string {
	if s == "" {
		return "not provided"
	}
	return s
}

// Drafter writes summaries with an LLM client
type Drafter struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewDrafter creates a drafter over client
func NewDrafter(client llm.Client) *Drafter {
	return &Drafter{client: client, tier: llm.TierLite}
}

// Draft asks the model for a summary
func (d *Drafter) Draft(ctx context.Context, in SummaryInput) (string, error) {
	prompt, err := in.Prompt()
	if err != nil {
		return "", fmt.Errorf("failed to build summary prompt: %w", err)
	}
	return d.generate(ctx, prompt)
}

// Rewrite asks the model to tighten an existing summary
func (d *Drafter) Rewrite(ctx context.Context, name, summary string) (string, error) {
	prompt, err := prompts.Render(promptFile, "rewrite-summary", map[string]string{
		"Name":    orNone(name),
		"Summary": summary,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build rewrite prompt: %w", err)
	}
	return d.generate(ctx, prompt)
}

func (d *Drafter) generate(ctx context.Context, prompt string) (string, error) {
	if d == nil || d.client == nil {
		return "", &APICallError{Message: "no LLM client configured"}
	}
	text, err := d.client.GenerateContent(ctx, prompt, d.tier)
	if err != nil {
		return "", &APICallError{Message: "failed to generate summary", Cause: err}
	}
	text = llm.CleanText(text)
	if text == "" {
		return "", &APICallError{Message: "model returned an empty summary"}
	}
	return text, nil
}

// DraftOrFallback drafts a summary and falls back to FallbackSummary on any
// failure, including a nil drafter
func DraftOrFallback(ctx context.Context, d *Drafter, in SummaryInput) string {
	text, err := d.Draft(ctx, in)
	if err != nil {
		log.Printf("[assist] using fallback summary: %v", err)
		return FallbackSummary
	}
	return text
}

// NeedsSummary reports whether doc has no summary text
func NeedsSummary(doc *types.ResumeDocument) bool {
	for _, section := range doc.SectionsOfKind(types.KindSummary) {
		for _, entry := range section.Entries {
			if strings.TrimSpace(entry.Text("text")) != "" {
				return false
			}
		}
	}
	return true
}

// SummaryOperation returns the edit that stores text as the summary of doc,
// creating the summary section when there is none
func SummaryOperation(doc *types.ResumeDocument, text string) edit.Operation {
	value := types.LongText(text)
	if sections := doc.SectionsOfKind(types.KindSummary); len(sections) > 0 && len(sections[0].Entries) > 0 {
		section := sections[0]
		return edit.SetField{SectionID: section.ID, EntryID: section.Entries[0].ID, Field: "text", Value: value}
	}

	sectionID, entryID := uuid.NewString(), uuid.NewString()
	ops := []edit.Operation{}
	if sections := doc.SectionsOfKind(types.KindSummary); len(sections) > 0 {
		sectionID = sections[0].ID
		ops = append(ops, edit.AddEntry{SectionID: sectionID, EntryID: entryID})
	} else {
		ops = append(ops, edit.AddSection{SectionID: sectionID, Kind: types.KindSummary, EntryID: entryID})
		if len(doc.Sections) > 0 && doc.Sections[0].Kind == types.KindContactInfo {
			ops = append(ops, edit.MoveSection{SectionID: sectionID, To: 1})
		}
	}
	ops = append(ops, edit.SetField{SectionID: sectionID, EntryID: entryID, Field: "text", Value: value})
	return edit.Batch{Label: "draft summary", Ops: ops}
}
