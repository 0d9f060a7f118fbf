package version

import (
	"fmt"

	"github.com/fatih/color"
)

// Version information for the packfmt CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Info is the serializable build description.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	Grammar   string `json:"grammar"`
}

// Current returns the build description; grammar names the template
// versions the decoder understands.
func Current(grammar string) Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		Grammar:   grammar,
	}
}

// Colored renders Version with major, minor and patch in separate colors.
// Versions that do not look like X.Y.Z are returned unchanged.
func Colored(enabled bool) string {
	var major, minor, patch int
	var rest string
	n, _ := fmt.Sscanf(Version, "%d.%d.%d%s", &major, &minor, &patch, &rest)
	if n < 3 {
		return Version
	}
	paint := func(c *color.Color, v int) string {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.Sprint(v)
	}
	return paint(versionMajorColor, major) + "." + paint(versionMinorColor, minor) + "." + paint(versionPatchColor, patch) + rest
}
