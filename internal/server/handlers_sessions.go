package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-builder/internal/assist"
	"github.com/jonathan/resume-builder/internal/docfile"
	"github.com/jonathan/resume-builder/internal/edit"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// SessionResponse describes a session and, on GET, its document
type SessionResponse struct {
	SessionID string        `json:"session_id"`
	Revision  uint64        `json:"revision"`
	CanUndo   bool          `json:"can_undo"`
	CanRedo   bool          `json:"can_redo"`
	Document  *docfile.File `json:"document,omitempty"`
}

// EditResponse is returned by the edit, undo and redo endpoints
type EditResponse struct {
	Revision  uint64 `json:"revision"`
	SectionID string `json:"section_id,omitempty"`
	EntryID   string `json:"entry_id,omitempty"`
}

// SummaryRequest selects how the summary endpoint writes the summary
type SummaryRequest struct {
	// Mode is "draft" (default) or "rewrite"
	Mode string `json:"mode,omitempty"`
}

// SummaryResponse is returned by the summary endpoint
type SummaryResponse struct {
	Revision uint64 `json:"revision"`
	Summary  string `json:"summary"`
}

// handleCreateSession creates a session, optionally from a JSON document file body
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var doc *types.ResumeDocument
	if len(bytes.TrimSpace(body)) > 0 {
		doc, err = docfile.Decode(body, docfile.FormatJSON)
		if err != nil {
			var editErr *edit.Error
			if !errors.As(err, &editErr) {
				err = &ErrValidation{Field: "document", Message: err.Error()}
			}
			s.writeError(w, err)
			return
		}
	}

	sess, err := s.sessions.Create(doc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, SessionResponse{SessionID: sess.ID(), Revision: sess.Revision()})
}

// handleListSessions lists the open session ids
func (s *Server) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"sessions": s.sessions.IDs()})
}

// handleGetSession returns the committed document of a session
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	doc := sess.Document()
	s.jsonResponse(w, http.StatusOK, SessionResponse{
		SessionID: sess.ID(),
		Revision:  doc.Revision,
		CanUndo:   sess.CanUndo(),
		CanRedo:   sess.CanRedo(),
		Document:  docfile.FromDocument(doc),
	})
}

// handleDeleteSession closes a session
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleApplyEdit applies one wire operation
func (s *Server) handleApplyEdit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	op, err := edit.DecodeOperation(body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := sess.Apply(op)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, editResponse(res))
}

// handleUndo undoes the last change
func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	res, err := sess.Undo()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, editResponse(res))
}

// handleRedo reapplies the last undone change
func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	res, err := sess.Redo()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, editResponse(res))
}

func editResponse(res edit.Result) EditResponse {
	return EditResponse{Revision: res.Revision, SectionID: res.SectionID, EntryID: res.EntryID}
}

// handlePreview returns the preview of the latest revision as JSON, or as
// an HTML page with ?format=html
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap, err := sess.Preview(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		s.jsonResponse(w, http.StatusOK, snap)
	case "html":
		page, err := rendering.RenderPreviewHTML(snap)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Resume-Revision", strconv.FormatUint(snap.Revision, 10))
		w.WriteHeader(http.StatusOK)
		w.Write(page) //nolint:errcheck
	default:
		s.writeError(w, &ErrUnsupportedFormat{Format: format})
	}
}

// handlePreviewStream streams a preview event for every projected revision
func (s *Server) handlePreviewStream(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	updates, cancel := sess.Subscribe()
	defer cancel()

	// the subscription only replays a snapshot that already exists
	snap, err := sess.Preview(r.Context())
	if err != nil {
		sse.WriteError(err.Error())
		return
	}
	last := snap.Revision
	if err := sse.WriteSnapshot(snap); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, ok := <-updates:
			if !ok {
				sse.WriteClosed(sess.ID())
				return
			}
			if snap.Revision <= last {
				continue
			}
			last = snap.Revision
			if err := sse.WriteSnapshot(snap); err != nil {
				log.Printf("[preview] stream for %s ended: %v", sess.ID(), err)
				return
			}
		}
	}
}

// handleValidation validates the committed document
func (s *Server) handleValidation(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.Validate())
}

// handleExport renders the committed document in the requested format.
// Incomplete documents are rejected with the list of missing fields.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	renderer, err := s.rendererFor(format)
	if err != nil {
		s.writeError(w, err)
		return
	}

	exported, err := sess.Export(r.Context(), renderer)
	if err != nil {
		s.writeError(w, err)
		return
	}

	contentType := "application/json"
	if renderer != nil {
		contentType = renderer.ContentType()
	}
	if format == "pdf" {
		violations, err := validation.CheckPDF(exported.Data, exported.Input, s.checkOpts)
		if err != nil {
			log.Printf("[export] %s: pdf check failed: %v", sess.ID(), err)
		} else if len(violations.Violations) > 0 {
			w.Header().Set("X-Resume-Violations", strconv.Itoa(len(violations.Violations)))
			for _, v := range violations.Violations {
				log.Printf("[export] %s: %s (%s) %s", sess.ID(), v.Type, v.Severity, v.Details)
			}
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Resume-Revision", strconv.FormatUint(exported.Revision, 10))
	w.WriteHeader(http.StatusOK)
	w.Write(exported.Data) //nolint:errcheck
}

// rendererFor maps an export format to a renderer; json needs none
func (s *Server) rendererFor(format string) (rendering.Renderer, error) {
	switch format {
	case "json":
		return nil, nil
	case "latex":
		return rendering.New(rendering.BackendLaTeX, s.renderOpts)
	case "html":
		return rendering.New(rendering.BackendHTML, s.renderOpts)
	case "pdf":
		return rendering.New(s.pdfRenderer, s.renderOpts)
	default:
		return nil, &ErrUnsupportedFormat{Format: format}
	}
}

// handleSummary drafts or rewrites the summary section. Any model failure
// falls back to a fixed summary rather than failing the request.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req SummaryRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := decodeJSON(body, &req); err != nil {
			s.writeError(w, err)
			return
		}
	}

	doc := sess.Document()
	var text string
	switch req.Mode {
	case "", "draft":
		text = assist.DraftOrFallback(r.Context(), s.drafter, assist.InputFromDocument(doc))
	case "rewrite":
		if assist.NeedsSummary(doc) {
			s.writeError(w, &ErrValidation{Field: "mode", Message: "there is no summary to rewrite"})
			return
		}
		current := doc.SectionsOfKind(types.KindSummary)[0].Entries[0].Text("text")
		text, err = s.drafter.Rewrite(r.Context(), assist.InputFromDocument(doc).Name, current)
		if err != nil {
			log.Printf("[assist] keeping current summary: %v", err)
			text = current
		}
	default:
		s.writeError(w, &ErrValidation{Field: "mode", Message: "must be draft or rewrite"})
		return
	}

	// the model call is slow, so the operation is built from the document
	// committed by then
	res, err := sess.ApplyLatest(func(latest *types.ResumeDocument) edit.Operation {
		return assist.SummaryOperation(latest, text)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SummaryResponse{Revision: res.Revision, Summary: text})
}

// session looks up the session named in the path, writing the error response when absent
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return sess, true
}

// writeError maps err to a status and a JSON body carrying the details a
// client needs to fix the request
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	body := map[string]any{"error": err.Error()}

	var (
		editErr    *edit.Error
		incomplete *export.IncompleteDocumentError
		structural *types.StructuralError
	)
	switch {
	case errors.As(err, &editErr):
		body["kind"] = editErr.Kind
	case errors.As(err, &incomplete):
		body["missing"] = incomplete.Missing
	case errors.As(err, &structural):
		body["violations"] = structural.Violations
	}
	if status >= http.StatusInternalServerError {
		log.Printf("[server] %d: %v", status, err)
	}
	s.jsonResponse(w, status, body)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	return body, nil
}

func decodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}
