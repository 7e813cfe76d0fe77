package driving

import (
	"context"

	"github.com/custodia-labs/proxsearch/internal/core/domain"
)

// Emitter receives messages produced by a Host.
type Emitter func(msg domain.Message)

// Host owns the engine lifecycle and answers protocol messages.
type Host interface {
	// Init builds the engine and drains searches queued before readiness.
	Init(ctx context.Context) error

	// Handle processes one inbound message. Replies go to the Emitter.
	Handle(ctx context.Context, msg domain.Message)

	// State returns the current lifecycle state.
	State() domain.EngineState

	// Pending returns the number of queued searches.
	Pending() int
}
