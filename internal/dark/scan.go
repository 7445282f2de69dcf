package dark

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/glint-photonics/darkcal/internal/fsutil"
)

// ErrNoFiles is returned when the file selection is empty: nothing matched
// the keyword, or the index bounds sliced the match list down to nothing.
var ErrNoFiles = fmt.Errorf("dark: no exposure files selected")

// SelectExposures lists dir, keeps regular files whose name contains keyword
// (files with a .txt suffix are always excluded), sorts them by name as a
// proxy for acquisition order, and slices the result with [first, last).
// A negative first means 0; a negative last means end-of-list; out-of-range
// bounds clamp. An empty selection is a configuration error, raised before
// any exposure is read.
func SelectExposures(fsys fsutil.FileSystem, dir, keyword string, first, last int) ([]string, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("dark: list data folder %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.Contains(name, keyword) || strings.HasSuffix(name, ".txt") {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: keyword %q matched nothing in %s", ErrNoFiles, keyword, dir)
	}
	// ReadDir order is already lexical for the OS filesystem; keep the
	// contract explicit since the drift series inherit this ordering.

	if first < 0 {
		first = 0
	}
	if last < 0 || last > len(names) {
		last = len(names)
	}
	if first >= last {
		return nil, fmt.Errorf("%w: bounds [%d, %d) on %d matches", ErrNoFiles, first, last, len(names))
	}

	paths := make([]string, 0, last-first)
	for _, name := range names[first:last] {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}
