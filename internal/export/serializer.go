package export

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-builder/internal/formatting"
	"github.com/jonathan/resume-builder/internal/types"
)

var (
	inputValidator     *validator.Validate
	inputValidatorOnce sync.Once
)

func validate() *validator.Validate {
	inputValidatorOnce.Do(func() {
		inputValidator = validator.New()
	})
	return inputValidator
}

// Serialize converts a document into a RenderInput. The document is copied
// first and never modified. Structural problems fail with *types.StructuralError
// and missing required fields with *IncompleteDocumentError; no partial
// RenderInput is ever returned.
func Serialize(ctx context.Context, doc *types.ResumeDocument) (*RenderInput, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("export cancelled: %w", err)
	}
	if doc == nil {
		doc = types.NewDocument()
	}
	snapshot := doc.Clone()

	result := types.Validate(snapshot)
	if err := result.Err(); err != nil {
		return nil, err
	}
	if len(result.Missing) > 0 {
		return nil, &IncompleteDocumentError{Missing: result.Missing}
	}

	input := &RenderInput{
		SchemaVersion: SchemaVersion,
		Sections:      make([]RenderSection, 0, len(snapshot.Sections)),
	}
	for _, section := range snapshot.Sections {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("export cancelled: %w", err)
		}
		rs := RenderSection{
			Kind:    section.Kind,
			Title:   section.Title,
			Entries: make([]RenderEntry, 0, len(section.Entries)),
		}
		for _, entry := range section.Entries {
			fields := formatting.Fields(section.Kind, entry)
			re := RenderEntry{
				Fields:  make([]RenderField, 0, len(fields)),
				Display: formatting.Describe(section.Kind, fields),
			}
			for _, f := range fields {
				re.Fields = append(re.Fields, renderField(f))
			}
			rs.Entries = append(rs.Entries, re)
		}
		if section.Kind == types.KindContactInfo && len(rs.Entries) > 0 {
			input.DocumentTitle = rs.Entries[0].Display.Heading
		}
		input.Sections = append(input.Sections, rs)
	}

	if err := check(input, snapshot); err != nil {
		return nil, err
	}
	return input, nil
}

// Check re-verifies a RenderInput before it reaches a renderer: struct
// constraints first, then that every required field still has content.
func Check(input *RenderInput) error {
	return check(input, nil)
}

// check verifies input. When doc is the document input was serialized from,
// missing fields carry its section and entry ids.
func check(input *RenderInput, doc *types.ResumeDocument) error {
	if input == nil {
		return fmt.Errorf("render input is nil")
	}
	var missing []types.MissingField
	for i, section := range input.Sections {
		var source *types.Section
		if doc != nil && i < len(doc.Sections) {
			source = doc.Sections[i]
		}
		for j, entry := range section.Entries {
			for _, f := range entry.Fields {
				if !f.Required || !f.IsEmpty() {
					continue
				}
				m := types.MissingField{Kind: section.Kind, Field: f.Name}
				if source != nil {
					m.SectionID = source.ID
					if j < len(source.Entries) {
						m.EntryID = source.Entries[j].ID
					}
				}
				missing = append(missing, m)
			}
		}
	}
	if input.DocumentTitle == "" && len(missing) == 0 {
		m := types.MissingField{Kind: types.KindContactInfo, Field: "full_name"}
		if doc != nil {
			if contact := doc.SectionsOfKind(types.KindContactInfo); len(contact) > 0 {
				m.SectionID = contact[0].ID
				if len(contact[0].Entries) > 0 {
					m.EntryID = contact[0].Entries[0].ID
				}
			}
		}
		missing = append(missing, m)
	}
	if len(missing) > 0 {
		return &IncompleteDocumentError{Missing: missing}
	}

	if err := validate().Struct(input); err != nil {
		return fmt.Errorf("invalid render input: %w", err)
	}
	return nil
}

// Marshal encodes a RenderInput as canonical JSON: fixed field order,
// two-space indentation and a trailing newline.
func Marshal(input *RenderInput) ([]byte, error) {
	data, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal render input: %w", err)
	}
	return append(data, '\n'), nil
}

// Export serializes doc and encodes the result as canonical JSON
func Export(ctx context.Context, doc *types.ResumeDocument) ([]byte, error) {
	input, err := Serialize(ctx, doc)
	if err != nil {
		return nil, err
	}
	return Marshal(input)
}
