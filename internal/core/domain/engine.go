package domain

// EngineState is the lifecycle state of a search host.
type EngineState int

const (
	// EngineUninitialized is the state before Init is called.
	EngineUninitialized EngineState = iota

	// EngineInitializing is the state while the engine is being built.
	EngineInitializing

	// EngineReady accepts searches.
	EngineReady

	// EngineFailed is entered when initialisation fails.
	EngineFailed
)

// String returns the string representation.
func (s EngineState) String() string {
	switch s {
	case EngineUninitialized:
		return "uninitialized"
	case EngineInitializing:
		return "initializing"
	case EngineReady:
		return "ready"
	case EngineFailed:
		return "error"
	default:
		return unknownDescription
	}
}
