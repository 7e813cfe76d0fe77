// Package filesystem resolves local paths and watches single files for
// changes, feeding the watch command.
package filesystem
