package edit

import (
	"time"

	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultHistoryLimit is the number of undo steps kept when no limit is given
const DefaultHistoryLimit = 200

// Step is one committed change. Before and After are committed documents,
// which the engine never mutates, so they can be shared without copying.
type Step struct {
	Description string
	Before      *types.ResumeDocument
	After       *types.ResumeDocument
	At          time.Time
}

// History keeps the undo and redo stacks of an engine
type History struct {
	undoStack  []Step
	redoStack  []Step
	maxEntries int
}

// NewHistory creates a history holding at most maxEntries undo steps
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultHistoryLimit
	}
	return &History{maxEntries: maxEntries}
}

// Push records a new step and clears the redo stack
func (h *History) Push(step Step) {
	if step.At.IsZero() {
		step.At = time.Now()
	}
	h.undoStack = append(h.undoStack, step)
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo pops the last step and moves it to the redo stack
func (h *History) Undo() (Step, bool) {
	if len(h.undoStack) == 0 {
		return Step{}, false
	}
	step := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, step)
	return step, true
}

// Redo pops the last undone step and moves it back to the undo stack
func (h *History) Redo() (Step, bool) {
	if len(h.redoStack) == 0 {
		return Step{}, false
	}
	step := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, step)
	return step, true
}

// CanUndo reports whether there is a step to undo
func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }

// CanRedo reports whether there is a step to redo
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// Descriptions lists the undo stack from oldest to newest
func (h *History) Descriptions() []string {
	out := make([]string, len(h.undoStack))
	for i, step := range h.undoStack {
		out[i] = step.Description
	}
	return out
}
