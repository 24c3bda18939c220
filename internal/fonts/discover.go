package fonts

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// discover lists TrueType files below roots, bold-named files first. Roots
// may contain glob patterns. Unreadable directories are skipped.
func discover(roots []string) []string {
	var bold, rest []string
	seen := map[string]struct{}{}
	for _, root := range expandRoots(roots) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".ttf") {
				return nil
			}
			if _, dup := seen[path]; dup {
				return nil
			}
			seen[path] = struct{}{}
			if strings.Contains(strings.ToLower(filepath.Base(path)), "bold") {
				bold = append(bold, path)
			} else {
				rest = append(rest, path)
			}
			return nil
		})
	}
	sort.Strings(bold)
	sort.Strings(rest)
	return append(bold, rest...)
}

func expandRoots(roots []string) []string {
	out := make([]string, 0, len(roots))
	for _, r := range roots {
		if !hasMeta(r) {
			out = append(out, r)
			continue
		}
		matches, err := filepath.Glob(r)
		if err != nil {
			continue
		}
		out = append(out, matches...)
	}
	return out
}
