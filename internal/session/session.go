package session

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/jonathan/resume-builder/internal/edit"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/preview"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
	"golang.org/x/sync/singleflight"
)

// DefaultDebounce is the quiet period after an edit before the preview is projected
const DefaultDebounce = 75 * time.Millisecond

// Options configures a Session
type Options struct {
	Debounce     time.Duration
	HistoryLimit int
	IDSource     edit.IDSource
	Verbose      bool
}

// Session is the single owner of one document. Edits are applied in the
// order they are submitted; previews always reflect the latest committed
// revision once Preview returns.
type Session struct {
	id      string
	opts    Options
	created time.Time

	mu         sync.Mutex
	engine     *edit.Engine
	projector  *preview.Projector
	latest     *preview.Snapshot
	timer      *time.Timer
	lastActive time.Time
	closed     bool
	subs       map[int]chan *preview.Snapshot
	nextSub    int

	group singleflight.Group
}

// New creates a session over doc, or over an empty document when doc is nil
func New(id string, doc *types.ResumeDocument, opts Options) *Session {
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}
	engineOpts := []edit.Option{edit.WithHistoryLimit(opts.HistoryLimit), edit.WithDocument(doc)}
	if opts.IDSource != nil {
		engineOpts = append(engineOpts, edit.WithIDSource(opts.IDSource))
	}
	now := time.Now()
	return &Session{
		id:         id,
		opts:       opts,
		created:    now,
		engine:     edit.NewEngine(engineOpts...),
		projector:  preview.NewProjector(),
		lastActive: now,
		subs:       make(map[int]chan *preview.Snapshot),
	}
}

// ID returns the session id
func (s *Session) ID() string { return s.id }

// CreatedAt returns when the session was created
func (s *Session) CreatedAt() time.Time { return s.created }

// LastActive returns the time of the last edit or read
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Revision returns the latest committed revision
func (s *Session) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Revision()
}

// Apply commits op and schedules a preview projection
func (s *Session) Apply(op edit.Operation) (edit.Result, error) {
	return s.commit(func(e *edit.Engine) (edit.Result, error) { return e.Apply(op) })
}

// ApplyLatest builds an operation from the committed document and applies
// it under the same lock. No other edit can land between the read and the
// commit.
func (s *Session) ApplyLatest(build func(doc *types.ResumeDocument) edit.Operation) (edit.Result, error) {
	return s.commit(func(e *edit.Engine) (edit.Result, error) { return e.Apply(build(e.Snapshot())) })
}

// Undo restores the content before the last change
func (s *Session) Undo() (edit.Result, error) {
	return s.commit((*edit.Engine).Undo)
}

// Redo reapplies the last undone change
func (s *Session) Redo() (edit.Result, error) {
	return s.commit((*edit.Engine).Redo)
}

func (s *Session) commit(fn func(*edit.Engine) (edit.Result, error)) (edit.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return edit.Result{}, &ClosedError{ID: s.id}
	}
	s.lastActive = time.Now()

	res, err := fn(s.engine)
	if err != nil {
		return edit.Result{}, err
	}
	if s.opts.Verbose {
		log.Printf("[session] %s: revision %d", s.id, res.Revision)
	}
	s.scheduleLocked()
	return res, nil
}

// scheduleLocked (re)starts the debounce timer. s.mu must be held.
func (s *Session) scheduleLocked() {
	if s.timer == nil {
		s.timer = time.AfterFunc(s.opts.Debounce, s.flush)
		return
	}
	s.timer.Reset(s.opts.Debounce)
}

func (s *Session) flush() {
	if _, err := s.Preview(context.Background()); err != nil && s.opts.Verbose {
		log.Printf("[session] %s: background preview failed: %v", s.id, err)
	}
}

// Document returns a deep copy of the committed document
func (s *Session) Document() *types.ResumeDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
	return s.engine.Snapshot()
}

// CanUndo reports whether there is a change to undo
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.History().CanUndo()
}

// CanRedo reports whether there is an undone change to redo
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.History().CanRedo()
}

// Preview returns the snapshot of the latest committed revision, projecting
// it first when the debounce timer has not fired yet. Concurrent callers
// waiting on the same revision share one projection.
func (s *Session) Preview(ctx context.Context) (*preview.Snapshot, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, &ClosedError{ID: s.id}
	}
	s.lastActive = time.Now()
	rev := s.engine.Revision()
	if s.latest != nil && s.latest.Revision == rev {
		snap := s.latest
		s.mu.Unlock()
		return snap, nil
	}
	s.mu.Unlock()

	ch := s.group.DoChan(strconv.FormatUint(rev, 10), func() (any, error) {
		return s.project(), nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		snap := res.Val.(*preview.Snapshot)
		if snap.Revision < rev {
			return nil, fmt.Errorf("failed to project revision %d: got %d", rev, snap.Revision)
		}
		return snap, nil
	}
}

// project projects the latest committed document and publishes the result
func (s *Session) project() *preview.Snapshot {
	s.mu.Lock()
	doc := s.engine.Snapshot()
	if s.latest != nil && s.latest.Revision >= doc.Revision {
		snap := s.latest
		s.mu.Unlock()
		return snap
	}
	s.mu.Unlock()

	snap := s.projector.Project(doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest != nil && s.latest.Revision >= snap.Revision {
		return s.latest
	}
	s.latest = snap
	if s.opts.Verbose {
		log.Printf("[session] %s: projected revision %d (%d sections)", s.id, snap.Revision, len(snap.Sections))
	}
	for _, ch := range s.subs {
		publish(ch, snap)
	}
	return snap
}

// publish delivers snap, replacing an undelivered older snapshot
func publish(ch chan *preview.Snapshot, snap *preview.Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}

// Validate validates the committed document
func (s *Session) Validate() *types.ValidationResult {
	return types.Validate(s.Document())
}

// Exported is the output of one export together with the revision it was
// serialized from
type Exported struct {
	Revision uint64
	Input    *export.RenderInput
	Data     []byte
}

// Export serializes the committed document and renders it with r.
// A nil renderer returns the canonical RenderInput JSON.
func (s *Session) Export(ctx context.Context, r rendering.Renderer) (*Exported, error) {
	doc := s.Document()

	input, err := export.Serialize(ctx, doc)
	if err != nil {
		return nil, err
	}
	if r == nil {
		data, err := export.Marshal(input)
		if err != nil {
			return nil, err
		}
		return &Exported{Revision: doc.Revision, Input: input, Data: data}, nil
	}

	out, err := r.Render(ctx, input)
	if err != nil {
		return nil, err
	}
	if s.opts.Verbose {
		log.Printf("[export] %s: revision %d rendered with %s (%d bytes)", s.id, doc.Revision, r.Name(), len(out))
	}
	return &Exported{Revision: doc.Revision, Input: input, Data: out}, nil
}

// Subscribe returns a channel receiving every published snapshot, starting
// with the current one when available. Slow readers only see the newest
// snapshot. The cancel func must be called to release the subscription.
func (s *Session) Subscribe() (<-chan *preview.Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan *preview.Snapshot, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	if s.latest != nil {
		ch <- s.latest
	}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(ch)
			}
		})
	}
}

// Close stops pending projections and closes every subscription
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// Stats returns the projector cache statistics
func (s *Session) Stats() preview.Stats {
	return s.projector.Stats()
}
