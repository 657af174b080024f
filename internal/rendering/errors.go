// Package rendering turns a RenderInput into resume bytes: LaTeX source, HTML or PDF.
package rendering

import "fmt"

// TemplateError represents an error parsing or executing a resume template
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderBackendError is returned by every Renderer when it cannot produce output.
// Render failures are not retried: the cause is usually a malformed input or a
// missing tool, neither of which a retry fixes.
type RenderBackendError struct {
	Backend   string
	Message   string
	LogOutput string
	Cause     error
}

func (e *RenderBackendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render backend %s: %s: %v", e.Backend, e.Message, e.Cause)
	}
	return fmt.Sprintf("render backend %s: %s", e.Backend, e.Message)
}

func (e *RenderBackendError) Unwrap() error {
	return e.Cause
}
