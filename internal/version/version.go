package version

import "fmt"

//nolint:gochecknoglobals // these are overridden at build time with -ldflags
var (
	Version = "unknown"
	Commit  = "unknown"
)

//nolint:gochecknoglobals
var FullVersion = ""

func init() {
	FullVersion = fmt.Sprintf("%s-%s", Version, Commit)
}
