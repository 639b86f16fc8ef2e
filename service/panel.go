package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"dbassistant/backend"
	"dbassistant/config"
	"dbassistant/metrics"
	"dbassistant/models"
	"dbassistant/validation"

	"github.com/rs/zerolog"
)

var (
	ErrEmptyQuestion   = validation.ErrEmptyQuestion
	ErrUnknownDatabase = validation.ErrUnknownDatabase
	ErrBusy            = errors.New("a question is already being answered")
	ErrNoSuchSample    = errors.New("no such sample question")
)

const (
	ConnectErrorMessage = "Failed to connect to the backend"
	UnknownErrorMessage = "Unknown error occurred"
)

// Backend is the part of the analytics client a panel uses.
type Backend interface {
	Ask(ctx context.Context, req models.AskRequest) (*models.AskResponse, error)
	Databases(ctx context.Context) (*models.DatabasesResponse, error)
}

// State is the full state of one panel. Result and Error are never both set.
type State struct {
	Question       string
	Database       string
	MultipleCharts bool
	Catalog        models.Catalog
	LoadingCatalog bool
	Loading        bool
	Result         *models.ChartResult
	Narrative      *models.Narrative
	Error          *string
}

// Panel is the query panel of one user: it holds what was typed and
// selected, runs submissions against the backend and keeps the outcome.
type Panel struct {
	mu               sync.Mutex
	state            State
	catalogRequested bool

	backend         Backend
	defaultDatabase string
	logger          zerolog.Logger
	metrics         metrics.Collector
	onChange        func(models.PanelSnapshot)
}

type PanelOption func(*Panel)

func WithDefaultDatabase(db string) PanelOption {
	return func(p *Panel) {
		if db = strings.TrimSpace(db); db != "" {
			p.defaultDatabase = db
		}
	}
}

func WithMultipleCharts(enabled bool) PanelOption {
	return func(p *Panel) { p.state.MultipleCharts = enabled }
}

func WithPanelLogger(l zerolog.Logger) PanelOption {
	return func(p *Panel) { p.logger = l }
}

func WithPanelMetrics(m metrics.Collector) PanelOption {
	return func(p *Panel) { p.metrics = m }
}

// WithOnChange registers fn to receive a snapshot after every state change.
// fn runs with the panel locked and must not call back into the panel.
func WithOnChange(fn func(models.PanelSnapshot)) PanelOption {
	return func(p *Panel) { p.onChange = fn }
}

// NewPanel returns a freshly mounted panel: default database selected,
// multiple charts on, catalog not loaded yet.
func NewPanel(b Backend, opts ...PanelOption) *Panel {
	p := &Panel{
		backend:         b,
		defaultDatabase: config.DefaultDatabase,
		logger:          zerolog.Nop(),
		metrics:         metrics.NewNoOpCollector(),
		state: State{
			MultipleCharts: true,
			LoadingCatalog: true,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.state.Database = p.defaultDatabase
	return p
}

// RestorePanel rebuilds a panel from a snapshot. If the snapshot was taken
// before the catalog settled, the catalog will be requested again.
func RestorePanel(b Backend, snap models.PanelSnapshot, opts ...PanelOption) *Panel {
	p := NewPanel(b, opts...)
	p.state.Question = snap.Question
	if snap.Database != "" {
		p.state.Database = snap.Database
	}
	p.state.MultipleCharts = snap.MultipleCharts
	p.state.Catalog = snap.Catalog
	p.state.Result = snap.Result
	p.state.Narrative = snap.Narrative
	p.state.Error = snap.Error
	if p.state.Result != nil {
		p.state.Error = nil
	}
	p.catalogRequested = snap.CatalogLoaded
	p.state.LoadingCatalog = !snap.CatalogLoaded
	return p
}

// State returns a copy of the current state.
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// View renders the current state.
func (p *Panel) View() View {
	return BuildView(p.State())
}

// Snapshot returns the persistable part of the state.
func (p *Panel) Snapshot() models.PanelSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Panel) snapshotLocked() models.PanelSnapshot {
	return models.PanelSnapshot{
		Question:       p.state.Question,
		Database:       p.state.Database,
		MultipleCharts: p.state.MultipleCharts,
		Result:         p.state.Result,
		Narrative:      p.state.Narrative,
		Error:          p.state.Error,
		Catalog:        p.state.Catalog,
		CatalogLoaded:  p.catalogRequested && !p.state.LoadingCatalog,
		UpdatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
}

// update applies fn under the lock and reports the new snapshot when fn
// returns nil. Reporting happens under the lock so snapshots arrive in order.
// detach stops change notifications.
func (p *Panel) detach() {
	p.mu.Lock()
	p.onChange = nil
	p.mu.Unlock()
}

func (p *Panel) update(fn func(s *State) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := fn(&p.state); err != nil {
		return err
	}
	if p.onChange != nil {
		p.onChange(p.snapshotLocked())
	}
	return nil
}

// Submit sends q to the backend and stores the outcome. Precondition
// failures return an error and leave the state untouched; backend and
// transport failures end up in the state's Error and return nil.
func (p *Panel) Submit(ctx context.Context, q models.Query) error {
	req, err := p.begin(q)
	if err != nil {
		return err
	}
	p.finish(ctx, req)
	return nil
}

// SubmitAsync checks q and marks the panel loading like Submit, then asks
// the backend in the background. The returned channel is closed once the
// outcome is stored.
func (p *Panel) SubmitAsync(ctx context.Context, q models.Query) (<-chan struct{}, error) {
	req, err := p.begin(q)
	if err != nil {
		return nil, err
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.finish(ctx, req)
	}()
	return done, nil
}

func (p *Panel) begin(q models.Query) (models.AskRequest, error) {
	question, err := validation.Question(q.Question)
	if err != nil {
		p.metrics.IncSubmission(q.Database, metrics.OutcomeRejected)
		return models.AskRequest{}, err
	}

	var req models.AskRequest
	err = p.update(func(s *State) error {
		if s.Loading {
			return ErrBusy
		}
		database, err := validation.Database(q.Database, s.Catalog, p.defaultDatabase)
		if err != nil {
			return err
		}

		s.Question = q.Question
		s.Database = database
		s.MultipleCharts = q.MultipleCharts
		s.Result = nil
		s.Narrative = nil
		s.Error = nil
		s.Loading = true

		req = models.AskRequest{Question: question, Database: database, MultipleCharts: q.MultipleCharts}
		return nil
	})
	if err != nil {
		p.metrics.IncSubmission(q.Database, metrics.OutcomeRejected)
		return models.AskRequest{}, err
	}
	return req, nil
}

func (p *Panel) finish(ctx context.Context, req models.AskRequest) {
	log := p.logger.With().Str("database", req.Database).Bool("multiple_charts", req.MultipleCharts).Logger()
	log.Info().Str("question", req.Question).Msg("Submitting question")

	resp, callErr := p.backend.Ask(ctx, req)

	outcome := metrics.OutcomeSuccess
	_ = p.update(func(s *State) error {
		s.Loading = false
		switch {
		case callErr != nil:
			outcome = metrics.OutcomeTransport
			msg := ConnectErrorMessage
			var te *backend.TransportError
			if errors.As(callErr, &te) && te.ServerMessage != "" {
				msg = te.ServerMessage
			}
			s.Error = &msg
			log.Warn().Err(callErr).Msg("Question failed to reach the backend")
		case resp.Success:
			result := resp.Data
			if result == nil {
				result = &models.ChartResult{List: true}
			}
			s.Result = result
			s.Narrative = resp.Narrative
			log.Info().Int("charts", len(result.Charts)).Bool("narrative", resp.Narrative != nil).Msg("Question answered")
		default:
			outcome = metrics.OutcomeAppError
			msg := resp.Error
			if msg == "" {
				msg = UnknownErrorMessage
			}
			s.Error = &msg
			log.Info().Str("error", msg).Msg("Backend could not answer question")
		}
		return nil
	})
	p.metrics.IncSubmission(req.Database, outcome)
}

// LoadCatalog fetches the database catalog. Only the first call does any
// work; failures are logged and leave the catalog empty.
func (p *Panel) LoadCatalog(ctx context.Context) {
	p.mu.Lock()
	if p.catalogRequested {
		p.mu.Unlock()
		return
	}
	p.catalogRequested = true
	p.state.LoadingCatalog = true
	p.mu.Unlock()

	resp, err := p.backend.Databases(ctx)

	_ = p.update(func(s *State) error {
		s.LoadingCatalog = false
		switch {
		case err != nil:
			p.metrics.IncCatalogLoad(metrics.OutcomeTransport)
			p.logger.Error().Err(err).Msg("Failed to load databases")
		case !resp.Success:
			p.metrics.IncCatalogLoad(metrics.OutcomeAppError)
			p.logger.Error().Str("error", resp.Error).Msg("Failed to load databases")
		default:
			p.metrics.IncCatalogLoad(metrics.OutcomeSuccess)
			s.Catalog = resp.Databases
			p.logger.Debug().Int("databases", resp.Databases.Len()).Msg("Loaded databases")
		}
		return nil
	})
}

// Clear drops the question and whatever answer or error is shown. Loading
// and catalog state are left alone.
func (p *Panel) Clear() {
	_ = p.update(func(s *State) error {
		s.Question = ""
		s.Result = nil
		s.Narrative = nil
		s.Error = nil
		return nil
	})
}

// SetQuestion replaces the text of the question box.
func (p *Panel) SetQuestion(text string) error {
	return p.update(func(s *State) error {
		if s.Loading {
			return ErrBusy
		}
		s.Question = text
		return nil
	})
}

// SelectSample copies a sample question of the selected database into the
// question box. It never submits.
func (p *Panel) SelectSample(index int) error {
	return p.update(func(s *State) error {
		if s.Loading {
			return ErrBusy
		}
		samples := config.SampleQuestions(s.Database)
		if index < 0 || index >= len(samples) {
			return ErrNoSuchSample
		}
		s.Question = samples[index]
		return nil
	})
}

// SelectDatabase changes the selected database.
func (p *Panel) SelectDatabase(database string) error {
	return p.update(func(s *State) error {
		if s.Loading {
			return ErrBusy
		}
		resolved, err := validation.Database(database, s.Catalog, p.defaultDatabase)
		if err != nil {
			return err
		}
		s.Database = resolved
		return nil
	})
}

func (p *Panel) SetMultipleCharts(enabled bool) error {
	return p.update(func(s *State) error {
		if s.Loading {
			return ErrBusy
		}
		s.MultipleCharts = enabled
		return nil
	})
}
