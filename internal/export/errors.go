// Package export serializes resume documents into the input consumed by renderers.
package export

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// IncompleteDocumentError blocks an export and lists every missing required field
type IncompleteDocumentError struct {
	Missing []types.MissingField
}

func (e *IncompleteDocumentError) Error() string {
	paths := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		paths[i] = m.Path()
	}
	return fmt.Sprintf("document is incomplete: missing %s", strings.Join(paths, ", "))
}
