// Package version holds build metadata injected with ldflags:
//
//	go build -ldflags "-X github.com/dress2mydoor/dress2mydoor/internal/version.Version=1.2.0 \
//	  -X github.com/dress2mydoor/dress2mydoor/internal/version.Commit=$(git rev-parse --short HEAD)"
package version

import (
	"fmt"
	"runtime"
	"strings"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info is the structured form printed by "version --json".
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the current build information.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns the version, with the short commit when known.
func String() string {
	if Commit == "unknown" || Commit == "" {
		return Version
	}
	return Version + "+" + Commit
}

// Full returns a multi-line description for the version command.
func Full() string {
	i := Get()
	var sb strings.Builder
	fmt.Fprintf(&sb, "dress2mydoor %s\n", String())
	fmt.Fprintf(&sb, "  Built:      %s\n", i.BuildDate)
	fmt.Fprintf(&sb, "  Go version: %s\n", i.GoVersion)
	fmt.Fprintf(&sb, "  OS/Arch:    %s", i.Platform)
	return sb.String()
}
