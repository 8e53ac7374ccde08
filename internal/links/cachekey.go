package links

import (
	"fmt"
	"path/filepath"

	"github.com/kennygrant/sanitize"
)

// SnapshotName builds a filesystem-safe debug snapshot filename for a
// verified task's URL. Nothing in the command-line tool calls it. Grounded on the teacher crawler's own sanitizeFilename
// helper, delegated to the real sanitize library instead of a hand-rolled
// regexp.
func SnapshotName(taskID int, rawURL string) string {
	name := fmt.Sprintf("%d-%s", taskID, sanitize.BaseName(rawURL))
	return filepath.Clean(name) + ".html"
}
