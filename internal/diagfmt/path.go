package diagfmt

import (
	"path/filepath"
	"strings"

	"supra/internal/source"
)

func formatPath(f *source.File, mode PathMode, baseDir string) string {
	switch mode {
	case PathModeAbsolute:
		return f.Path
	case PathModeBasename:
		return filepath.Base(f.Path)
	case PathModeRelative:
		return f.RelPath(baseDir)
	default:
		rel := f.RelPath(baseDir)
		if strings.HasPrefix(rel, "../") || rel == ".." {
			return f.Path
		}
		return rel
	}
}
