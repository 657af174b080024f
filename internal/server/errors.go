// Package server provides the HTTP API for live resume editing sessions.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-builder/internal/edit"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnsupportedFormat indicates an export format the server cannot produce
type ErrUnsupportedFormat struct {
	Format string
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported format: %s", e.Format)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusInternalServerError
	}

	var (
		validationErr *ErrValidation
		formatErr     *ErrUnsupportedFormat
		editErr       *edit.Error
		notFound      *session.NotFoundError
		closed        *session.ClosedError
		limit         *session.LimitError
		incomplete    *export.IncompleteDocumentError
		structural    *types.StructuralError
		backend       *rendering.RenderBackendError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &formatErr):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.As(err, &closed):
		return http.StatusNotFound
	case errors.As(err, &limit):
		return http.StatusServiceUnavailable
	case errors.As(err, &editErr):
		return editStatus(editErr.Kind)
	case errors.As(err, &incomplete), errors.As(err, &structural):
		return http.StatusUnprocessableEntity
	case errors.As(err, &backend):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func editStatus(kind edit.ErrorKind) int {
	switch kind {
	case edit.KindNotFound:
		return http.StatusNotFound
	case edit.KindDuplicateID, edit.KindDuplicateSingularSection, edit.KindDuplicateSingularEntry,
		edit.KindNothingToUndo, edit.KindNothingToRedo:
		return http.StatusConflict
	case edit.KindOutOfRange, edit.KindTypeMismatch, edit.KindUnknownField:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
