// Package buildinfo reports the version of the running binary.
//
// Values set with -ldflags take precedence:
//
//	go build -ldflags "-X github.com/mergington/activityboard/buildinfo.gitCommit=$(git rev-parse HEAD)"
//
// Otherwise the VCS stamp embedded by the Go toolchain is used when present.
package buildinfo

import "runtime/debug"

const unknown = "unknown"

// Properties describes a build.
type Properties struct {
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
	Modified  bool   `json:"modified"`
}

var (
	buildTime = unknown
	gitCommit = unknown
)

var readBuildInfo = debug.ReadBuildInfo

// Get returns the current build properties.
func Get() Properties {
	props := Properties{
		BuildTime: buildTime,
		GitCommit: gitCommit,
	}

	info, ok := readBuildInfo()
	if !ok {
		return props
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if props.GitCommit == unknown {
				props.GitCommit = s.Value
			}
		case "vcs.time":
			if props.BuildTime == unknown {
				props.BuildTime = s.Value
			}
		case "vcs.modified":
			props.Modified = s.Value == "true"
		}
	}
	return props
}
