// Package preview derives render-ready snapshots of a resume document for live display.
package preview

import (
	"sync"

	"github.com/jonathan/resume-builder/internal/formatting"
	"github.com/jonathan/resume-builder/internal/types"
)

// FieldView is one form field of an entry as the editor shows it
type FieldView struct {
	Name     string          `json:"name"`
	Label    string          `json:"label"`
	Type     types.ValueType `json:"type"`
	Required bool            `json:"required"`
	Empty    bool            `json:"empty"`
	Value    any             `json:"value"`
}

// EntryView is the display form of one entry
type EntryView struct {
	ID       string             `json:"id"`
	Position int                `json:"position"`
	Display  formatting.Display `json:"display"`
	Fields   []FieldView        `json:"fields"`
	Missing  []string           `json:"missing"`
}

// SectionView is the display form of one section
type SectionView struct {
	ID       string            `json:"id"`
	Kind     types.SectionKind `json:"kind"`
	Title    string            `json:"title"`
	Position int               `json:"position"`
	Entries  []EntryView       `json:"entries"`
}

// Snapshot is the read-only preview of one document revision.
// Section views may be shared with later snapshots and must not be modified.
type Snapshot struct {
	Revision   uint64               `json:"revision"`
	Sections   []SectionView        `json:"sections"`
	Complete   bool                 `json:"complete"`
	Missing    []types.MissingField `json:"missing"`
	Warnings   []types.Violation    `json:"warnings"`
	Structural []types.Violation    `json:"structural"`
}

// Stats reports cache activity since the projector was created
type Stats struct {
	Hits      int `json:"hits"`
	Misses    int `json:"misses"`
	Evictions int `json:"evictions"`
	Cached    int `json:"cached"`
}

type cachedSection struct {
	hash string
	view SectionView
}

// Projector turns documents into snapshots, caching each section's view by
// (section id, content hash). A section is re-derived only when its content
// changes, and its cache entry is dropped once the section disappears.
type Projector struct {
	mu    sync.Mutex
	cache map[string]cachedSection
	stats Stats
}

// NewProjector creates a projector with an empty cache
func NewProjector() *Projector {
	return &Projector{cache: make(map[string]cachedSection)}
}

// Project derives the snapshot of doc. The result depends only on the
// document's sections and revision; doc is never modified.
func (p *Projector) Project(doc *types.ResumeDocument) *Snapshot {
	if doc == nil {
		doc = types.NewDocument()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	snap := &Snapshot{
		Revision: doc.Revision,
		Sections: make([]SectionView, 0, len(doc.Sections)),
	}

	live := make(map[string]bool, len(doc.Sections))
	for i, section := range doc.Sections {
		live[section.ID] = true
		hash := ContentHash(section)

		cached, ok := p.cache[section.ID]
		if ok && cached.hash == hash {
			p.stats.Hits++
		} else {
			p.stats.Misses++
			cached = cachedSection{hash: hash, view: projectSection(section)}
			p.cache[section.ID] = cached
		}

		view := cached.view
		view.Position = i
		snap.Sections = append(snap.Sections, view)
	}

	for id := range p.cache {
		if !live[id] {
			delete(p.cache, id)
			p.stats.Evictions++
		}
	}
	p.stats.Cached = len(p.cache)

	result := types.Validate(doc)
	snap.Complete = result.Complete()
	snap.Missing = result.Missing
	snap.Warnings = result.Warnings
	snap.Structural = result.Structural
	return snap
}

// Stats returns a copy of the cache counters
func (p *Projector) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func projectSection(section *types.Section) SectionView {
	view := SectionView{
		ID:      section.ID,
		Kind:    section.Kind,
		Title:   section.Title,
		Entries: make([]EntryView, 0, len(section.Entries)),
	}
	for j, entry := range section.Entries {
		view.Entries = append(view.Entries, projectEntry(section.Kind, entry, j))
	}
	return view
}

func projectEntry(kind types.SectionKind, entry *types.Entry, position int) EntryView {
	fields := formatting.Fields(kind, entry)
	view := EntryView{
		ID:       entry.ID,
		Position: position,
		Display:  formatting.Describe(kind, fields),
		Fields:   make([]FieldView, 0, len(fields)),
		Missing:  []string{},
	}
	for _, f := range fields {
		raw, _ := entry.Get(kind, f.Spec.Name)
		empty := raw == nil || raw.Type() != f.Spec.Type || raw.IsEmpty()
		view.Fields = append(view.Fields, FieldView{
			Name:     f.Spec.Name,
			Label:    f.Spec.Label,
			Type:     f.Spec.Type,
			Required: f.Spec.Required,
			Empty:    empty,
			Value:    types.EncodeValue(raw),
		})
		if f.Spec.Required && empty {
			view.Missing = append(view.Missing, f.Spec.Name)
		}
	}
	return view
}
