// Package loaders provides implementations of the DocumentLoader interface
// for the formats proxsearch can search. Each loader knows how to extract
// the visible text of a specific MIME type.
//
// Loaders are registered with the Registry at startup. The Registry picks
// the highest-priority loader for a document's MIME type, detecting the
// type from the file extension or the content when it is not given.
package loaders
