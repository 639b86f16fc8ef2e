package service

import (
	"context"
	"sync"
	"time"

	"dbassistant/cache"
	"dbassistant/metrics"
	"dbassistant/models"

	"github.com/rs/zerolog"
)

// SnapshotStore persists panel snapshots between restarts.
type SnapshotStore interface {
	SaveSnapshot(sessionID string, snap models.PanelSnapshot, ttl time.Duration) error
	LoadSnapshot(sessionID string) (models.PanelSnapshot, bool, error)
	DeleteSnapshot(sessionID string) error
}

type SessionsConfig struct {
	Backend Backend
	TTL     time.Duration
	Store   SnapshotStore // optional
	Logger  zerolog.Logger
	Metrics metrics.Collector
	// PanelOptions are applied to every panel the manager creates.
	PanelOptions []PanelOption
}

// Sessions hands out one panel per session id. Live panels sit in a TTL
// cache; with a store configured they are also snapshotted on every change
// and restored on a cache miss.
type Sessions struct {
	mu      sync.Mutex
	panels  *cache.Cache[*Panel]
	backend Backend
	store   SnapshotStore
	ttl     time.Duration
	logger  zerolog.Logger
	metrics metrics.Collector
	opts    []PanelOption
}

func NewSessions(cfg SessionsConfig) *Sessions {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoOpCollector()
	}
	s := &Sessions{
		panels:  cache.New[*Panel](cfg.TTL),
		backend: cfg.Backend,
		store:   cfg.Store,
		ttl:     cfg.TTL,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		opts:    cfg.PanelOptions,
	}
	s.panels.OnEvicted(func(id string, _ *Panel) {
		s.logger.Debug().Str("session", id).Msg("Session evicted")
		s.metrics.SetActiveSessions(s.panels.Count())
	})
	return s
}

// Get returns the panel of a session, mounting a new one when needed. A
// newly mounted panel starts loading its catalog in the background; that
// load outlives ctx's cancellation but keeps its values.
func (s *Sessions) Get(ctx context.Context, id string) *Panel {
	s.mu.Lock()
	if p, ok := s.panels.Get(id); ok {
		s.panels.Set(id, p)
		s.mu.Unlock()
		return p
	}

	p := s.mount(id)
	s.panels.Set(id, p)
	s.metrics.SetActiveSessions(s.panels.Count())
	s.mu.Unlock()

	go p.LoadCatalog(context.WithoutCancel(ctx))
	return p
}

// Lookup returns a live panel without mounting one.
func (s *Sessions) Lookup(id string) (*Panel, bool) {
	return s.panels.Get(id)
}

// Drop forgets a session and its snapshot. A live panel stops saving
// snapshots first so a late catalog load cannot bring the session back.
func (s *Sessions) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.Lookup(id); ok {
		p.detach()
	}
	s.panels.Delete(id)
	if s.store != nil {
		if err := s.store.DeleteSnapshot(id); err != nil {
			s.logger.Error().Err(err).Str("session", id).Msg("Failed to delete snapshot")
		}
	}
}

func (s *Sessions) Count() int {
	return s.panels.Count()
}

func (s *Sessions) mount(id string) *Panel {
	log := s.logger.With().Str("session", id).Logger()
	opts := append([]PanelOption{}, s.opts...)
	opts = append(opts, WithPanelLogger(log), WithPanelMetrics(s.metrics))
	if s.store != nil {
		opts = append(opts, WithOnChange(func(snap models.PanelSnapshot) {
			if err := s.store.SaveSnapshot(id, snap, s.ttl); err != nil {
				log.Error().Err(err).Msg("Failed to save snapshot")
			}
		}))
	}

	if s.store != nil {
		snap, ok, err := s.store.LoadSnapshot(id)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load snapshot, starting fresh")
		} else if ok {
			log.Debug().Msg("Session restored")
			return RestorePanel(s.backend, snap, opts...)
		}
	}

	log.Debug().Msg("Session mounted")
	return NewPanel(s.backend, opts...)
}
