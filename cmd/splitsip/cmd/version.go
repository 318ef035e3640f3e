package cmd

import (
	"fmt"
	"strings"
)

// Build information, set with -ldflags "-X github.com/oneconcern/splitsip/cmd/splitsip/cmd.Version=..."
var (
	Version   string
	BuildDate string
	GitCommit string
	GitState  string
)

// VersionInfo describes the build of splitsip
type VersionInfo struct {
	Version   string `json:"version,omitempty"`
	BuildDate string `json:"buildDate,omitempty"`
	GitCommit string `json:"gitCommit,omitempty"`
	GitState  string `json:"gitState,omitempty"`
}

// NewVersionInfo yields the version of this build.
// Unreleased builds report "dev".
func NewVersionInfo() VersionInfo {
	ver := VersionInfo{
		Version:   "dev",
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GitState:  GitState,
	}
	if Version != "" {
		ver.Version = Version
		if ver.GitState == "" {
			ver.GitState = "clean"
		}
	}
	return ver
}

func (v VersionInfo) String() string {
	var b strings.Builder
	for _, line := range [][2]string{
		{"Version", v.Version},
		{"Build date", v.BuildDate},
		{"Commit", v.GitCommit},
		{"Working tree", v.GitState},
	} {
		if line[1] == "" {
			continue
		}
		fmt.Fprintf(&b, "%-13s %s\n", line[0]+":", line[1])
	}
	return b.String()
}
