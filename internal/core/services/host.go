package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
	"github.com/custodia-labs/proxsearch/internal/core/ports/driven"
	"github.com/custodia-labs/proxsearch/internal/core/ports/driving"
	"github.com/custodia-labs/proxsearch/internal/logger"
)

// Ensure Host implements the interface.
var _ driving.Host = (*Host)(nil)

// DefaultMaxPending bounds the searches queued before the engine is ready.
const DefaultMaxPending = 1024

// SearchBuilder constructs the search service once the host initialises.
type SearchBuilder func(ctx context.Context) (driving.SearchService, error)

// PipelineBuilder turns processor names into a pipeline.
type PipelineBuilder func(names []string) (driven.TextPipeline, error)

// NewSearchBuilder returns a SearchBuilder that reads the current settings,
// builds an engine with the configured cap and the configured pipeline.
func NewSearchBuilder(
	settings driving.SettingsService,
	factory driven.EngineFactory,
	loaders driven.LoaderRegistry,
	pipelines PipelineBuilder,
) SearchBuilder {
	return func(_ context.Context) (driving.SearchService, error) {
		cfg, err := settings.Get()
		if err != nil {
			return nil, fmt.Errorf("read settings: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("settings: %w", err)
		}

		eng, err := factory(cfg.MaxMatches)
		if err != nil {
			return nil, fmt.Errorf("build engine: %w", err)
		}

		var pipeline driven.TextPipeline
		if pipelines != nil {
			pipeline, err = pipelines(cfg.Preprocess)
			if err != nil {
				return nil, fmt.Errorf("build pipeline: %w", err)
			}
		}

		svc := NewSearchService(eng, loaders, pipeline)
		svc.SetDefaults(cfg)
		svc.SetEngineFactory(factory)
		return svc, nil
	}
}

// Host owns the engine lifecycle and answers protocol messages.
//
// Searches that arrive before the engine is ready are queued and answered
// in arrival order once initialisation succeeds. If it fails, queued
// searches are answered with a not_ready error. Handle is safe for
// concurrent use; the Emitter may therefore be called concurrently.
type Host struct {
	mu         sync.Mutex
	state      domain.EngineState
	pending    []domain.RunSearch
	maxPending int
	search     driving.SearchService

	build SearchBuilder
	emit  driving.Emitter
	newID func() string
}

// NewHost creates a host in the uninitialised state.
func NewHost(build SearchBuilder, emit driving.Emitter) *Host {
	return &Host{
		state:      domain.EngineUninitialized,
		maxPending: DefaultMaxPending,
		build:      build,
		emit:       emit,
		newID:      uuid.NewString,
	}
}

// SetMaxPending sets the queue bound. Values below 1 are ignored.
func (h *Host) SetMaxPending(n int) {
	if n < 1 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.maxPending = n
}

// State returns the current lifecycle state.
func (h *Host) State() domain.EngineState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Pending returns the number of queued searches.
func (h *Host) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pending)
}

// Init builds the engine. It emits Initialized or EngineError.
// Calling Init while ready re-emits Initialized; calling it while an
// initialisation is running does nothing. A failed host may be retried.
func (h *Host) Init(ctx context.Context) error {
	h.mu.Lock()
	switch h.state {
	case domain.EngineReady:
		h.mu.Unlock()
		h.emit(domain.Initialized{ID: h.newID()})
		return nil
	case domain.EngineInitializing:
		h.mu.Unlock()
		return nil
	}
	h.state = domain.EngineInitializing
	h.mu.Unlock()

	logger.Section("Engine Initialisation")
	search, err := h.build(ctx)
	if err != nil {
		h.fail(err)
		return fmt.Errorf("%w: %v", domain.ErrEngineFailed, err)
	}

	h.mu.Lock()
	h.search = search
	h.mu.Unlock()

	logger.Info("Engine ready")
	h.emit(domain.Initialized{ID: h.newID()})
	h.drain(ctx)
	return nil
}

// fail enters the error state and rejects everything queued.
func (h *Host) fail(err error) {
	h.mu.Lock()
	h.state = domain.EngineFailed
	queued := h.pending
	h.pending = nil
	h.mu.Unlock()

	logger.Warn("Engine initialisation failed: %v", err)
	h.emit(domain.EngineError{ID: h.newID(), Message: err.Error()})
	for _, m := range queued {
		h.reject(m.ID, domain.ErrEngineFailed)
	}
}

// drain runs queued searches until the queue stays empty, then marks the
// host ready. Searches arriving meanwhile join the queue, keeping order.
func (h *Host) drain(ctx context.Context) {
	for {
		h.mu.Lock()
		if len(h.pending) == 0 {
			h.state = domain.EngineReady
			h.mu.Unlock()
			return
		}
		batch := h.pending
		h.pending = nil
		h.mu.Unlock()

		logger.Debug("Draining %d queued searches", len(batch))
		for _, m := range batch {
			h.run(ctx, m)
		}
	}
}

// Handle processes one inbound message.
func (h *Host) Handle(ctx context.Context, msg domain.Message) {
	switch m := msg.(type) {
	case domain.Init:
		_ = h.Init(ctx)
	case domain.RunSearch:
		h.handleSearch(ctx, m)
	default:
		id := ""
		if msg != nil {
			id = msg.MessageID()
		}
		h.reject(id, fmt.Errorf("%w: message %s", domain.ErrUnsupportedType, typeOf(msg)))
	}
}

func (h *Host) handleSearch(ctx context.Context, m domain.RunSearch) {
	if err := ValidateRequest(m.Request); err != nil {
		h.reject(m.ID, err)
		return
	}

	h.mu.Lock()
	switch h.state {
	case domain.EngineReady:
		h.mu.Unlock()
		h.run(ctx, m)
	case domain.EngineFailed:
		h.mu.Unlock()
		h.reject(m.ID, domain.ErrEngineFailed)
	default:
		if len(h.pending) >= h.maxPending {
			h.mu.Unlock()
			h.reject(m.ID, fmt.Errorf("%w: %d searches already queued", domain.ErrAllocationFailure, h.maxPending))
			return
		}
		h.pending = append(h.pending, m)
		logger.Debug("Queued search %s (%d pending)", m.ID, len(h.pending))
		h.mu.Unlock()
	}
}

func (h *Host) run(ctx context.Context, m domain.RunSearch) {
	h.mu.Lock()
	search := h.search
	h.mu.Unlock()

	res, err := search.Search(ctx, m.Request)
	if err != nil {
		h.reject(m.ID, err)
		return
	}

	h.emit(domain.SearchComplete{
		ID:        h.newID(),
		RequestID: m.ID,
		Matches:   res.Matches,
		Truncated: res.Truncated,
		Elapsed:   res.Elapsed,
	})
}

func (h *Host) reject(requestID string, err error) {
	h.emit(domain.SearchError{
		ID:        h.newID(),
		RequestID: requestID,
		Message:   err.Error(),
		Code:      domain.ErrorCode(err),
	})
}

func typeOf(msg domain.Message) string {
	if msg == nil {
		return "<nil>"
	}
	return string(msg.Type())
}
