package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/resume-builder/internal/assist"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/preview"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func createSession(t *testing.T, h http.Handler, body string) string {
	t.Helper()
	w := do(t, h, http.MethodPost, "/sessions", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[SessionResponse](t, w).SessionID
}

// addContact fills the contact section and returns the last revision
func addContact(t *testing.T, h http.Handler, id string) uint64 {
	t.Helper()
	w := do(t, h, http.MethodPost, "/sessions/"+id+"/edits", `{"op":"add_section","kind":"contact_info","section_id":"c","entry_id":"ce"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[EditResponse](t, w)
	assert.Equal(t, "c", res.SectionID)
	assert.Equal(t, "ce", res.EntryID)

	w = do(t, h, http.MethodPost, "/sessions/"+id+"/edits", `{"op":"batch","ops":[
		{"op":"set_field","section_id":"c","entry_id":"ce","field":"full_name","value":"Jane Doe"},
		{"op":"set_field","section_id":"c","entry_id":"ce","field":"email","value":"jane@example.com"}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[EditResponse](t, w).Revision
}

func TestSessionLifecycle(t *testing.T) {
	h := newTestServer(t).Handler()
	id := createSession(t, h, "")

	rev := addContact(t, h, id)
	assert.Equal(t, uint64(2), rev, "a batch is one revision")

	w := do(t, h, http.MethodGet, "/sessions/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[SessionResponse](t, w)
	assert.Equal(t, uint64(2), got.Revision)
	assert.True(t, got.CanUndo)
	assert.False(t, got.CanRedo)
	require.NotNil(t, got.Document)
	require.Len(t, got.Document.Sections, 1)
	assert.Equal(t, "Jane Doe", got.Document.Sections[0].Entries[0].Fields["full_name"])

	w = do(t, h, http.MethodGet, "/sessions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id)

	w = do(t, h, http.MethodDelete, "/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSession_FromDocumentFile(t *testing.T) {
	h := newTestServer(t).Handler()

	id := createSession(t, h, `{"sections":[{"kind":"summary","entries":[{"fields":{"text":"Hello"}}]}]}`)
	w := do(t, h, http.MethodGet, "/sessions/"+id, "")
	got := decode[SessionResponse](t, w)
	assert.Equal(t, uint64(1), got.Revision)
	require.Len(t, got.Document.Sections, 1)
	assert.Equal(t, "summary", got.Document.Sections[0].Kind)
}

func TestCreateSession_BadDocument(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "malformed json", body: `{"sections": [`, status: http.StatusBadRequest},
		{name: "missing kind", body: `{"sections": [{"title": "x"}]}`, status: http.StatusBadRequest},
		{name: "unknown kind", body: `{"sections": [{"kind": "hobbies"}]}`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/sessions", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestApplyEdit_Errors(t *testing.T) {
	h := newTestServer(t).Handler()
	id := createSession(t, h, "")
	addContact(t, h, id)

	tests := []struct {
		name   string
		body   string
		status int
		kind   string
	}{
		{name: "not json", body: `nope`, status: http.StatusBadRequest, kind: "invalid_operation"},
		{name: "unknown op", body: `{"op":"explode"}`, status: http.StatusBadRequest, kind: "invalid_operation"},
		{name: "second contact", body: `{"op":"add_section","kind":"contact_info"}`, status: http.StatusConflict, kind: "duplicate_singular_section"},
		{name: "missing section", body: `{"op":"remove_section","section_id":"nope"}`, status: http.StatusNotFound, kind: "not_found"},
		{name: "wrong value type", body: `{"op":"set_field","section_id":"c","entry_id":"ce","field":"full_name","value":["a"]}`, status: http.StatusUnprocessableEntity, kind: "type_mismatch"},
		{name: "move out of range", body: `{"op":"move_section","section_id":"c","to":3}`, status: http.StatusUnprocessableEntity, kind: "out_of_range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/sessions/"+id+"/edits", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			body := decode[map[string]any](t, w)
			assert.Equal(t, tt.kind, body["kind"])
		})
	}

	w := do(t, h, http.MethodGet, "/sessions/"+id, "")
	assert.Equal(t, uint64(2), decode[SessionResponse](t, w).Revision, "failed edits leave the revision unchanged")
}

func TestUndoRedo(t *testing.T) {
	h := newTestServer(t).Handler()
	id := createSession(t, h, "")

	w := do(t, h, http.MethodPost, "/sessions/"+id+"/undo", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	addContact(t, h, id)

	w = do(t, h, http.MethodPost, "/sessions/"+id+"/undo", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint64(3), decode[EditResponse](t, w).Revision)

	w = do(t, h, http.MethodGet, "/sessions/"+id+"/preview", "")
	snap := decode[preview.Snapshot](t, w)
	assert.Equal(t, uint64(3), snap.Revision)
	require.Len(t, snap.Sections, 1)
	assert.Empty(t, snap.Sections[0].Entries[0].Display.Heading)

	w = do(t, h, http.MethodPost, "/sessions/"+id+"/redo", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint64(4), decode[EditResponse](t, w).Revision)

	w = do(t, h, http.MethodPost, "/sessions/"+id+"/redo", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPreview(t *testing.T) {
	h := newTestServer(t).Handler()
	id := createSession(t, h, "")
	rev := addContact(t, h, id)

	w := do(t, h, http.MethodGet, "/sessions/"+id+"/preview", "")
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[preview.Snapshot](t, w)
	assert.Equal(t, rev, snap.Revision, "preview reflects the latest edit without waiting for the debounce")
	assert.True(t, snap.Complete)

	w = do(t, h, http.MethodGet, "/sessions/"+id+"/preview?format=html", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Jane Doe")

	w = do(t, h, http.MethodGet, "/sessions/"+id+"/preview?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidation(t *testing.T) {
	h := newTestServer(t).Handler()
	id := createSession(t, h, "")

	w := do(t, h, http.MethodGet, "/sessions/"+id+"/validation", "")
	require.Equal(t, http.StatusOK, w.Code)
	result := decode[types.ValidationResult](t, w)
	assert.Empty(t, result.Structural)
	assert.Len(t, result.Missing, 2)
}

func TestExport(t *testing.T) {
	h := newTestServer(t).Handler()
	id := createSession(t, h, "")

	w := do(t, h, http.MethodPost, "/sessions/"+id+"/export", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode[map[string]any](t, w)
	missing, ok := body["missing"].([]any)
	require.True(t, ok, w.Body.String())
	assert.Len(t, missing, 2)

	addContact(t, h, id)

	tests := []struct {
		format      string
		contentType string
		contains    string
	}{
		{format: "", contentType: "application/json", contains: `"full_name"`},
		{format: "json", contentType: "application/json", contains: "jane@example.com"},
		{format: "html", contentType: "text/html", contains: "Jane Doe"},
		{format: "latex", contentType: "", contains: "Jane Doe"},
	}
	for _, tt := range tests {
		t.Run("format "+tt.format, func(t *testing.T) {
			path := "/sessions/" + id + "/export"
			if tt.format != "" {
				path += "?format=" + tt.format
			}
			w := do(t, h, http.MethodPost, path, "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Contains(t, w.Header().Get("Content-Type"), tt.contentType)
			assert.Equal(t, "2", w.Header().Get("X-Resume-Revision"))
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}

	w = do(t, h, http.MethodPost, "/sessions/"+id+"/export?format=docx", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummary_FallsBackWithoutModel(t *testing.T) {
	h := newTestServer(t).Handler()
	id := createSession(t, h, "")
	addContact(t, h, id)

	w := do(t, h, http.MethodPost, "/sessions/"+id+"/summary", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[SummaryResponse](t, w)
	assert.Equal(t, assist.FallbackSummary, res.Summary)
	assert.Equal(t, uint64(3), res.Revision)

	w = do(t, h, http.MethodGet, "/sessions/"+id, "")
	doc := decode[SessionResponse](t, w).Document
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "summary", doc.Sections[1].Kind, "summary goes right after contact")

	w = do(t, h, http.MethodPost, "/sessions/"+id+"/summary", `{"mode":"rewrite"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, assist.FallbackSummary, decode[SummaryResponse](t, w).Summary, "the current summary is kept")

	w = do(t, h, http.MethodPost, "/sessions/"+id+"/summary", `{"mode":"poem"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateSession_LogsOnce(t *testing.T) {
	h := newTestServer(t).Handler()

	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })

	id := createSession(t, h, "")
	assert.Equal(t, 1, strings.Count(buf.String(), "created "+id))
}

// editingClient commits an edit through the API while the model call is in flight
type editingClient struct {
	edit  func()
	reply string
}

func (c *editingClient) GenerateContent(context.Context, string, llm.ModelTier) (string, error) {
	c.edit()
	return c.reply, nil
}

func (c *editingClient) Close() error { return nil }

func TestSummary_AppliesToDocumentCommittedDuringDraft(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()
	id := createSession(t, h, "")
	addContact(t, h, id)

	srv.drafter = assist.NewDrafter(&editingClient{
		reply: "Curious engineer who ships.",
		edit: func() {
			w := do(t, h, http.MethodPost, "/sessions/"+id+"/edits", `{"op":"batch","ops":[
				{"op":"add_section","kind":"summary","section_id":"s","entry_id":"se"},
				{"op":"set_field","section_id":"s","entry_id":"se","field":"text","value":"Typed by hand."}]}`)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		},
	})

	w := do(t, h, http.MethodPost, "/sessions/"+id+"/summary", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[SummaryResponse](t, w)
	assert.Equal(t, uint64(4), res.Revision)

	w = do(t, h, http.MethodGet, "/sessions/"+id, "")
	doc := decode[SessionResponse](t, w).Document
	require.Len(t, doc.Sections, 2, "the summary written during the draft is reused")
	assert.Equal(t, "s", doc.Sections[1].ID)
}

func TestUnknownSession(t *testing.T) {
	h := newTestServer(t).Handler()

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/sessions/nope"},
		{http.MethodDelete, "/sessions/nope"},
		{http.MethodPost, "/sessions/nope/edits"},
		{http.MethodPost, "/sessions/nope/undo"},
		{http.MethodGet, "/sessions/nope/preview"},
		{http.MethodGet, "/sessions/nope/validation"},
		{http.MethodPost, "/sessions/nope/export"},
	} {
		w := do(t, h, tc.method, tc.path, `{"op":"reset"}`)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestPreviewStream(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	h := s.Handler()
	id := createSession(t, h, "")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/sessions/"+id+"/preview/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan preview.Snapshot, 8)
	go func() {
		defer close(events)
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			line := scanner.Text()
			if data, ok := strings.CutPrefix(line, "data: "); ok {
				var snap preview.Snapshot
				if json.Unmarshal([]byte(data), &snap) == nil {
					events <- snap
				}
			}
		}
	}()

	next := func() preview.Snapshot {
		select {
		case snap, ok := <-events:
			require.True(t, ok, "stream ended")
			return snap
		case <-ctx.Done():
			t.Fatal("timed out waiting for a preview event")
		}
		return preview.Snapshot{}
	}

	assert.Equal(t, uint64(0), next().Revision)

	addContact(t, h, id)
	for {
		snap := next()
		if snap.Revision == 2 {
			assert.Len(t, snap.Sections, 1)
			break
		}
	}
}
