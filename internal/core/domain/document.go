package domain

// RawDocument represents the bytes of a file before loading.
type RawDocument struct {
	// URI is the original location (file path or "-" for stdin).
	URI string

	// MIMEType is the content type (e.g., "text/html").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}

// Document is the flattened visible text of a file.
// Content is the buffer the engine searches; offsets index into it.
type Document struct {
	// ID is the unique identifier for this load.
	ID string

	// URI is the original location.
	URI string

	// Title is the human-readable title.
	Title string

	// MIMEType is the content type the document was loaded as.
	MIMEType string

	// Content is the visible text after loading.
	Content string
}
