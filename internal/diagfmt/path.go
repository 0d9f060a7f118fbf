package diagfmt

import (
	"path/filepath"

	"packfmt/internal/source"
)

// autoPathLimit is the longest path PathModeAuto prints unshortened.
const autoPathLimit = 40

func formatPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f := fs.Get(id)
	if f.Flags&source.FileVirtual != 0 {
		return f.Path
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(filepath.FromSlash(f.Path)); err == nil {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case PathModeRelative:
		return fs.DisplayPath(id)
	case PathModeBasename:
		return filepath.Base(f.Path)
	}
	p := fs.DisplayPath(id)
	if len(p) > autoPathLimit {
		return filepath.Base(p)
	}
	return p
}
