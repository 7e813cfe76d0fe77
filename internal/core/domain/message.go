package domain

import "time"

// MessageType identifies a host protocol message.
// The values are the wire names used since the first extension release.
type MessageType string

// Protocol message types.
const (
	MessageInit           MessageType = "WASM_INIT"
	MessageInitialized    MessageType = "WASM_INITIALIZED"
	MessageEngineError    MessageType = "WASM_ERROR"
	MessageRunSearch      MessageType = "RUN_SEARCH"
	MessageSearchComplete MessageType = "SEARCH_COMPLETE"
	MessageSearchError    MessageType = "SEARCH_ERROR"
)

// IsValid returns true if the type is part of the protocol.
func (t MessageType) IsValid() bool {
	switch t {
	case MessageInit, MessageInitialized, MessageEngineError,
		MessageRunSearch, MessageSearchComplete, MessageSearchError:
		return true
	default:
		return false
	}
}

// Message is the closed set of messages exchanged with a search host.
// Only types in this package implement it.
type Message interface {
	// Type returns the wire type of the message.
	Type() MessageType

	// MessageID returns the message identifier.
	MessageID() string

	isMessage()
}

// Init asks the host to build its engine.
type Init struct {
	ID string
}

// Initialized reports the host is ready.
type Initialized struct {
	ID string
}

// EngineError reports host initialisation failed.
type EngineError struct {
	ID      string
	Message string
}

// RunSearch asks the host to run one search.
type RunSearch struct {
	ID      string
	Request SearchRequest
}

// SearchComplete answers a RunSearch.
type SearchComplete struct {
	ID        string
	RequestID string
	Matches   []MatchView
	Truncated bool
	Elapsed   time.Duration
}

// SearchError answers a RunSearch that failed.
type SearchError struct {
	ID        string
	RequestID string
	Message   string
	Code      string
}

func (Init) Type() MessageType           { return MessageInit }
func (Initialized) Type() MessageType    { return MessageInitialized }
func (EngineError) Type() MessageType    { return MessageEngineError }
func (RunSearch) Type() MessageType      { return MessageRunSearch }
func (SearchComplete) Type() MessageType { return MessageSearchComplete }
func (SearchError) Type() MessageType    { return MessageSearchError }

func (m Init) MessageID() string           { return m.ID }
func (m Initialized) MessageID() string    { return m.ID }
func (m EngineError) MessageID() string    { return m.ID }
func (m RunSearch) MessageID() string      { return m.ID }
func (m SearchComplete) MessageID() string { return m.ID }
func (m SearchError) MessageID() string    { return m.ID }

func (Init) isMessage()           {}
func (Initialized) isMessage()    {}
func (EngineError) isMessage()    {}
func (RunSearch) isMessage()      {}
func (SearchComplete) isMessage() {}
func (SearchError) isMessage()    {}
