// Package version holds build information for the hey binary.
package version

import (
	"fmt"
	"runtime"
)

// Build-time variables - set via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info contains all version information
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	OS        string
	Arch      string
}

// Get returns the current version info
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// String returns the line printed by --version
func (i Info) String() string {
	return fmt.Sprintf("%s (%s) built %s, %s %s/%s",
		i.Version, i.CommitShort(), i.BuildDate, i.GoVersion, i.OS, i.Arch)
}

// UserAgent returns a User-Agent string for HTTP clients
func (i Info) UserAgent(binaryName string) string {
	return fmt.Sprintf("%s/%s", binaryName, i.Version)
}

// CommitShort returns the first 7 characters of the commit hash
func (i Info) CommitShort() string {
	if len(i.Commit) >= 7 {
		return i.Commit[:7]
	}
	return i.Commit
}
