package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"dbassistant/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu    sync.Mutex
	snaps map[string]models.PanelSnapshot
}

func newMemoryStore() *memoryStore {
	return &memoryStore{snaps: map[string]models.PanelSnapshot{}}
}

func (m *memoryStore) SaveSnapshot(id string, snap models.PanelSnapshot, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[id] = snap
	return nil
}

func (m *memoryStore) LoadSnapshot(id string) (models.PanelSnapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snaps[id]
	return snap, ok, nil
}

func (m *memoryStore) DeleteSnapshot(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snaps, id)
	return nil
}

func (m *memoryStore) get(id string) (models.PanelSnapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snaps[id]
	return snap, ok
}

func catalogLoaded(p *Panel) func() bool {
	return func() bool { return !p.State().LoadingCatalog }
}

func TestSessions_MountsOncePerID(t *testing.T) {
	fb := &fakeBackend{dbResp: &models.DatabasesResponse{Success: true, Databases: threeDatabases()}}
	s := NewSessions(SessionsConfig{Backend: fb, TTL: time.Minute, Logger: zerolog.Nop()})

	p1 := s.Get(context.Background(), "a")
	p2 := s.Get(context.Background(), "a")
	p3 := s.Get(context.Background(), "b")

	assert.Same(t, p1, p2)
	assert.NotSame(t, p1, p3)
	assert.Equal(t, 2, s.Count())

	require.Eventually(t, catalogLoaded(p1), time.Second, 5*time.Millisecond)
	require.Eventually(t, catalogLoaded(p3), time.Second, 5*time.Millisecond)
	assert.Equal(t, 3, p1.State().Catalog.Len())

	fb.mu.Lock()
	assert.Equal(t, 2, fb.dbCalls)
	fb.mu.Unlock()
}

func TestSessions_CatalogLoadSurvivesRequestCancel(t *testing.T) {
	fb := &fakeBackend{dbResp: &models.DatabasesResponse{Success: true, Databases: threeDatabases()}}
	s := NewSessions(SessionsConfig{Backend: fb, TTL: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	p := s.Get(ctx, "a")
	cancel()

	require.Eventually(t, catalogLoaded(p), time.Second, 5*time.Millisecond)
	assert.Equal(t, 3, p.State().Catalog.Len())
}

func TestSessions_PanelOptionsApplied(t *testing.T) {
	fb := &fakeBackend{dbResp: &models.DatabasesResponse{Success: true}}
	s := NewSessions(SessionsConfig{
		Backend:      fb,
		TTL:          time.Minute,
		PanelOptions: []PanelOption{WithDefaultDatabase("imdb"), WithMultipleCharts(false)},
	})

	st := s.Get(context.Background(), "a").State()
	assert.Equal(t, "imdb", st.Database)
	assert.False(t, st.MultipleCharts)
}

func TestSessions_SnapshotsAndRestores(t *testing.T) {
	store := newMemoryStore()
	fb := &fakeBackend{
		dbResp:  &models.DatabasesResponse{Success: true, Databases: threeDatabases()},
		askResp: &models.AskResponse{Success: false, Error: "table not found"},
	}
	s := NewSessions(SessionsConfig{Backend: fb, TTL: time.Minute, Store: store})

	p := s.Get(context.Background(), "a")
	require.Eventually(t, catalogLoaded(p), time.Second, 5*time.Millisecond)
	require.NoError(t, p.Submit(context.Background(), models.Query{Question: "q", Database: "world"}))

	snap, ok := store.get("a")
	require.True(t, ok)
	require.NotNil(t, snap.Error)
	assert.Equal(t, "table not found", *snap.Error)
	assert.True(t, snap.CatalogLoaded)

	// A second manager sharing the store plays the part of a restarted server.
	restarted := NewSessions(SessionsConfig{Backend: fb, TTL: time.Minute, Store: store})
	restored := restarted.Get(context.Background(), "a")
	st := restored.State()
	assert.Equal(t, "world", st.Database)
	assert.Equal(t, "q", st.Question)
	require.NotNil(t, st.Error)
	assert.Equal(t, 3, st.Catalog.Len())
	assert.False(t, st.LoadingCatalog)

	fb.mu.Lock()
	assert.Equal(t, 1, fb.dbCalls)
	fb.mu.Unlock()
}

func TestSessions_Drop(t *testing.T) {
	store := newMemoryStore()
	fb := &fakeBackend{dbResp: &models.DatabasesResponse{Success: true}}
	s := NewSessions(SessionsConfig{Backend: fb, TTL: time.Minute, Store: store})

	p := s.Get(context.Background(), "a")
	require.Eventually(t, catalogLoaded(p), time.Second, 5*time.Millisecond)
	_, ok := store.get("a")
	require.True(t, ok)

	s.Drop("a")
	_, ok = s.Lookup("a")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Count())
	_, ok = store.get("a")
	assert.False(t, ok)

	// A request still holding the dropped panel must not save it again.
	require.NoError(t, p.SetQuestion("late"))
	_, ok = store.get("a")
	assert.False(t, ok)

	// The next request with the same id starts over.
	fresh := s.Get(context.Background(), "a")
	assert.NotSame(t, p, fresh)
	assert.Empty(t, fresh.State().Question)
}

func TestSessions_DropUnknownID(t *testing.T) {
	store := newMemoryStore()
	s := NewSessions(SessionsConfig{Backend: &fakeBackend{}, TTL: time.Minute, Store: store})

	assert.NotPanics(t, func() { s.Drop("never-seen") })
	assert.Equal(t, 0, s.Count())
}
