package session

import (
	"errors"
	"testing"
	"time"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Lifecycle(t *testing.T) {
	m := NewManager(ManagerConfig{Session: Options{Debounce: time.Hour}})
	defer m.CloseAll()

	s, err := m.Create(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, m.Delete(s.ID()))
	assert.Equal(t, 0, m.Len())

	_, err = m.Get(s.ID())
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, s.ID(), notFound.ID)

	err = m.Delete(s.ID())
	assert.True(t, errors.As(err, &notFound))
}

func TestManager_CreateFromDocument(t *testing.T) {
	m := NewManager(ManagerConfig{})
	defer m.CloseAll()

	doc := types.NewDocument()
	doc.Sections = append(doc.Sections, &types.Section{ID: "sum", Kind: types.KindSummary, Title: "Summary"})
	doc.Revision = 7

	s, err := m.Create(doc)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), s.Revision())

	doc.Sections[0].Title = "Changed"
	assert.Equal(t, "Summary", s.Document().Section("sum").Title, "the session owns its own copy")
}

func TestManager_MaxSessions(t *testing.T) {
	m := NewManager(ManagerConfig{MaxSessions: 2})
	defer m.CloseAll()

	for i := 0; i < 2; i++ {
		_, err := m.Create(nil)
		require.NoError(t, err)
	}
	_, err := m.Create(nil)
	var limit *LimitError
	require.True(t, errors.As(err, &limit))
	assert.Equal(t, 2, limit.Max)
}

func TestManager_EvictIdle(t *testing.T) {
	m := NewManager(ManagerConfig{IdleTimeout: time.Minute})
	defer m.CloseAll()

	stale, err := m.Create(nil)
	require.NoError(t, err)
	fresh, err := m.Create(nil)
	require.NoError(t, err)

	now := time.Now()
	m.now = func() time.Time { return now.Add(2 * time.Minute) }
	fresh.mu.Lock()
	fresh.lastActive = now.Add(90 * time.Second)
	fresh.mu.Unlock()

	assert.Equal(t, 1, m.EvictIdle())
	assert.Equal(t, []string{fresh.ID()}, m.IDs())

	_, err = stale.Apply(nil)
	var closed *ClosedError
	assert.True(t, errors.As(err, &closed))
}
