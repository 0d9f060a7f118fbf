package diagfmt

import (
	"fmt"
	"strings"

	"packfmt/internal/observ"
)

// PathMode specifies how template paths are displayed.
type PathMode uint8

const (
	// PathModeAuto prints the path relative to the working directory, or
	// just the base name when that is still too long.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode accepts auto|absolute|relative|basename.
func ParsePathMode(s string) (PathMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return PathModeAuto, nil
	case "absolute", "abs":
		return PathModeAbsolute, nil
	case "relative", "rel":
		return PathModeRelative, nil
	case "basename", "base":
		return PathModeBasename, nil
	}
	return PathModeAuto, fmt.Errorf("invalid path mode %q (expected auto|absolute|relative|basename)", s)
}

type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	ShowNotes bool // печатать notes со своим сниппетом
}

type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
	Timings          *observ.Timer // optional
}
