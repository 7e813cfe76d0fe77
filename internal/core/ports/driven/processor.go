package driven

import "context"

// TextProcessor rewrites document text before it is searched.
// Processors are chained in a pipeline (e.g., zero-width stripping,
// whitespace collapsing). Offsets reported by the engine refer to the
// output of the last processor.
type TextProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process returns the rewritten text.
	Process(ctx context.Context, text string) (string, error)
}

// TextPipeline chains multiple TextProcessors.
type TextPipeline interface {
	// Process runs the text through all processors in order.
	Process(ctx context.Context, text string) (string, error)
}
