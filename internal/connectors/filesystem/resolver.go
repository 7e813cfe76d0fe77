package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath converts a file:// URI or a "~/" path to a local path.
// Other paths, including "-" for stdin, pass through unchanged.
func ResolvePath(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		return strings.TrimPrefix(uri, "file://")
	}
	if strings.HasPrefix(uri, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return uri
		}
		return filepath.Join(home, uri[2:])
	}
	return uri
}
