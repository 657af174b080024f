package edit

import (
	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/types"
)

// IDSource generates ids for new sections and entries
type IDSource interface {
	NewID() string
}

// UUIDSource issues random UUIDv4 ids
type UUIDSource struct{}

// NewID implements IDSource
func (UUIDSource) NewID() string { return uuid.NewString() }

// Result describes a committed change
type Result struct {
	Document  *types.ResumeDocument
	Revision  uint64
	Op        Operation
	SectionID string
	EntryID   string
}

// Apply applies op to a copy of doc and returns the new document with its
// revision incremented. On failure doc is returned untouched together with
// the error; a partially applied change is never visible.
func Apply(doc *types.ResumeDocument, op Operation) (*types.ResumeDocument, error) {
	res, err := apply(doc, op, UUIDSource{})
	if err != nil {
		return doc, err
	}
	return res.Document, nil
}

func apply(doc *types.ResumeDocument, op Operation, ids IDSource) (Result, error) {
	if op == nil {
		return Result{}, newError(KindInvalidOperation, "", "operation is nil")
	}
	if doc == nil {
		doc = types.NewDocument()
	}

	next := doc.Clone()
	resolved, err := op.apply(next, ids)
	if err != nil {
		return Result{}, err
	}
	next.Renumber()
	next.Revision = doc.Revision + 1

	res := Result{Document: next, Revision: next.Revision, Op: resolved}
	res.SectionID, res.EntryID = touched(resolved)
	return res, nil
}

// touched reports the section and entry an operation created or changed.
// For a batch it is the last operation that names one.
func touched(op Operation) (sectionID, entryID string) {
	switch o := op.(type) {
	case AddSection:
		return o.SectionID, o.EntryID
	case RemoveSection:
		return o.SectionID, ""
	case MoveSection:
		return o.SectionID, ""
	case SetSectionTitle:
		return o.SectionID, ""
	case AddEntry:
		return o.SectionID, o.EntryID
	case RemoveEntry:
		return o.SectionID, o.EntryID
	case MoveEntry:
		return o.SectionID, o.EntryID
	case SetField:
		return o.SectionID, o.EntryID
	case ClearField:
		return o.SectionID, o.EntryID
	case Batch:
		for i := len(o.Ops) - 1; i >= 0; i-- {
			if s, e := touched(o.Ops[i]); s != "" {
				return s, e
			}
		}
	}
	return "", ""
}

// Engine owns one mutable document and is its only mutation path.
// It is not safe for concurrent use; callers serialize access.
type Engine struct {
	doc     *types.ResumeDocument
	history *History
	ids     IDSource
}

// Option configures an Engine
type Option func(*Engine)

// WithIDSource overrides id generation, mainly for deterministic tests
func WithIDSource(ids IDSource) Option {
	return func(e *Engine) { e.ids = ids }
}

// WithHistoryLimit bounds the number of undo steps kept
func WithHistoryLimit(limit int) Option {
	return func(e *Engine) { e.history = NewHistory(limit) }
}

// WithDocument starts the engine from an existing document
func WithDocument(doc *types.ResumeDocument) Option {
	return func(e *Engine) {
		if doc != nil {
			e.doc = doc.Clone()
		}
	}
}

// NewEngine creates an engine over an empty document
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		doc:     types.NewDocument(),
		history: NewHistory(DefaultHistoryLimit),
		ids:     UUIDSource{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply commits op, records it for undo and returns the result.
// On failure the document and its revision are unchanged.
func (e *Engine) Apply(op Operation) (Result, error) {
	res, err := apply(e.doc, op, e.ids)
	if err != nil {
		return Result{}, err
	}
	e.history.Push(Step{Description: res.Op.Description(), Before: e.doc, After: res.Document})
	e.doc = res.Document
	return res, nil
}

// Undo restores the content before the last change as a new revision
func (e *Engine) Undo() (Result, error) {
	step, ok := e.history.Undo()
	if !ok {
		return Result{}, ErrNothingToUndo
	}
	return e.restore(step.Before), nil
}

// Redo reapplies the last undone change as a new revision
func (e *Engine) Redo() (Result, error) {
	step, ok := e.history.Redo()
	if !ok {
		return Result{}, ErrNothingToRedo
	}
	return e.restore(step.After), nil
}

func (e *Engine) restore(content *types.ResumeDocument) Result {
	next := content.Clone()
	next.Revision = e.doc.Revision + 1
	e.doc = next
	return Result{Document: next, Revision: next.Revision}
}

// Document returns the committed document. Callers must treat it as read-only;
// use Snapshot for a copy that may be modified.
func (e *Engine) Document() *types.ResumeDocument {
	return e.doc
}

// Snapshot returns a deep copy of the committed document
func (e *Engine) Snapshot() *types.ResumeDocument {
	return e.doc.Clone()
}

// Revision returns the revision of the committed document
func (e *Engine) Revision() uint64 {
	return e.doc.Revision
}

// History returns the undo history
func (e *Engine) History() *History {
	return e.history
}
