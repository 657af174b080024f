// Package docfile reads and writes resume documents as YAML or JSON files.
package docfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/edit"
	"github.com/jonathan/resume-builder/internal/types"
	"gopkg.in/yaml.v3"
)

// Format is a document file encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks the format from a file extension, defaulting to YAML
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// File is the on-disk form of a document. Ids are optional; missing ones
// are derived from the section and entry positions so that loading the
// same file twice yields the same ids.
type File struct {
	Sections []FileSection `json:"sections" yaml:"sections" validate:"dive"`
}

// FileSection is one section of a document file
type FileSection struct {
	ID      string      `json:"id,omitempty" yaml:"id,omitempty"`
	Kind    string      `json:"kind" yaml:"kind" validate:"required"`
	Title   string      `json:"title,omitempty" yaml:"title,omitempty"`
	Entries []FileEntry `json:"entries,omitempty" yaml:"entries,omitempty" validate:"dive"`
}

// FileEntry is one entry of a document file. Field values are plain data:
// a string for text, a list for text lists and {start, end} for date ranges.
type FileEntry struct {
	ID     string         `json:"id,omitempty" yaml:"id,omitempty"`
	Fields map[string]any `json:"fields" yaml:"fields"`
}

// idNamespace scopes derived ids to document files
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("resume-builder/docfile"))

var (
	fileValidator     *validator.Validate
	fileValidatorOnce sync.Once
)

func validate() *validator.Validate {
	fileValidatorOnce.Do(func() {
		fileValidator = validator.New()
	})
	return fileValidator
}

// Parse decodes a document file
func Parse(data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse JSON document: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse YAML document: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
	if err := validate().Struct(&f); err != nil {
		return nil, fmt.Errorf("invalid document file: %w", err)
	}
	return &f, nil
}

// Batch converts the file into a single edit that replaces the whole document
func (f *File) Batch(label string) (edit.Batch, error) {
	batch := edit.Batch{Label: label, Ops: []edit.Operation{edit.Reset{}}}

	for i, fs := range f.Sections {
		kind := types.SectionKind(fs.Kind)
		sectionID := fs.ID
		if sectionID == "" {
			sectionID = derivedID("section", i, fs.Kind)
		}

		entryIDs := make([]string, len(fs.Entries))
		for j, fe := range fs.Entries {
			entryIDs[j] = fe.ID
			if entryIDs[j] == "" {
				entryIDs[j] = derivedID(sectionID, j, "entry")
			}
		}

		// singular sections are created together with their entry
		singular := !kind.IsRepeatable()
		add := edit.AddSection{SectionID: sectionID, Kind: kind, Title: fs.Title}
		if singular {
			add.EntryID = derivedID(sectionID, 0, "entry")
			if len(entryIDs) > 0 {
				add.EntryID = entryIDs[0]
			}
		}
		batch.Ops = append(batch.Ops, add)

		for j, fe := range fs.Entries {
			if j > 0 || !singular {
				batch.Ops = append(batch.Ops, edit.AddEntry{SectionID: sectionID, EntryID: entryIDs[j]})
			}
			ops, err := fieldOps(kind, sectionID, entryIDs[j], fe.Fields)
			if err != nil {
				return edit.Batch{}, fmt.Errorf("section %d (%s) entry %d: %w", i, fs.Kind, j, err)
			}
			batch.Ops = append(batch.Ops, ops...)
		}
	}
	return batch, nil
}

func derivedID(scope string, index int, name string) string {
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%s/%d/%s", scope, index, name))).String()
}

// fieldOps builds SetField operations in field-name order
func fieldOps(kind types.SectionKind, sectionID, entryID string, fields map[string]any) ([]edit.Operation, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	ops := make([]edit.Operation, 0, len(names))
	for _, name := range names {
		raw := fields[name]
		if raw == nil {
			continue
		}
		t, ok := fieldType(kind, name)
		if !ok {
			return nil, fmt.Errorf("unknown field %q", name)
		}
		value, err := types.DecodeValue(t, raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		ops = append(ops, edit.SetField{SectionID: sectionID, EntryID: entryID, Field: name, Value: value})
	}
	return ops, nil
}

func fieldType(kind types.SectionKind, name string) (types.ValueType, bool) {
	if schema := types.SchemaFor(kind); schema != nil {
		if spec, ok := schema.Field(name); ok {
			return spec.Type, true
		}
	}
	return types.LookupFieldType(name)
}

// Decode parses a document file and builds the document it describes
func Decode(data []byte, format Format) (*types.ResumeDocument, error) {
	f, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	batch, err := f.Batch("load document")
	if err != nil {
		return nil, err
	}
	doc, err := edit.Apply(types.NewDocument(), batch)
	if err != nil {
		return nil, fmt.Errorf("failed to build document: %w", err)
	}
	return doc, nil
}

// Load reads a document file, picking the format from its extension
func Load(path string) (*types.ResumeDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document file %s: %w", path, err)
	}
	return Decode(data, FormatFor(path))
}

// FromDocument converts a document into its file form, keeping ids
func FromDocument(doc *types.ResumeDocument) *File {
	f := &File{Sections: make([]FileSection, 0, len(doc.Sections))}
	for _, s := range doc.Sections {
		fs := FileSection{ID: s.ID, Kind: string(s.Kind), Title: s.Title}
		for _, e := range s.Entries {
			fe := FileEntry{ID: e.ID, Fields: make(map[string]any, len(e.Fields))}
			for name, v := range e.Fields {
				fe.Fields[name] = types.EncodeValue(v)
			}
			fs.Entries = append(fs.Entries, fe)
		}
		f.Sections = append(f.Sections, fs)
	}
	return f
}

// Encode writes the file in the given format
func (f *File) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode JSON document: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(f); err != nil {
			return nil, fmt.Errorf("failed to encode YAML document: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML document: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
}

// Save writes doc to path, picking the format from its extension
func Save(path string, doc *types.ResumeDocument) error {
	data, err := FromDocument(doc).Encode(FormatFor(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write document file %s: %w", path, err)
	}
	return nil
}

// Template returns a file with one section of every kind and one entry
// listing every field, ready to be filled in
func Template() *File {
	f := &File{}
	for _, kind := range types.Kinds() {
		schema := types.SchemaFor(kind)
		entry := FileEntry{Fields: make(map[string]any, len(schema.Fields))}
		for _, spec := range schema.Fields {
			entry.Fields[spec.Name] = types.EncodeValue(types.ZeroValue(spec.Type))
		}
		f.Sections = append(f.Sections, FileSection{
			Kind:    string(kind),
			Title:   schema.DefaultTitle,
			Entries: []FileEntry{entry},
		})
	}
	return f
}
