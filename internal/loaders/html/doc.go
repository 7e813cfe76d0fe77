// Package html provides a DocumentLoader for HTML documents.
// It flattens the visible text nodes of the page, skipping scripts,
// styles and other non-rendered elements, and puts block elements on
// their own lines.
package html
