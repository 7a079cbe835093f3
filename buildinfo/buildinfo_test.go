package buildinfo

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withBuildInfo(t *testing.T, info *debug.BuildInfo, ok bool) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, ok }
	t.Cleanup(func() { readBuildInfo = orig })
}

func TestGet(t *testing.T) {
	stamped := &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: "abc123"},
		{Key: "vcs.time", Value: "2025-01-02T03:04:05Z"},
		{Key: "vcs.modified", Value: "true"},
	}}

	tests := []struct {
		name     string
		info     *debug.BuildInfo
		ok       bool
		ldCommit string
		want     Properties
	}{
		{
			name: "no build info",
			want: Properties{BuildTime: unknown, GitCommit: unknown},
		},
		{
			name: "vcs stamp",
			info: stamped,
			ok:   true,
			want: Properties{BuildTime: "2025-01-02T03:04:05Z", GitCommit: "abc123", Modified: true},
		},
		{
			name:     "ldflags win over vcs stamp",
			info:     stamped,
			ok:       true,
			ldCommit: "deadbeef",
			want:     Properties{BuildTime: "2025-01-02T03:04:05Z", GitCommit: "deadbeef", Modified: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withBuildInfo(t, tt.info, tt.ok)
			if tt.ldCommit != "" {
				orig := gitCommit
				gitCommit = tt.ldCommit
				t.Cleanup(func() { gitCommit = orig })
			}

			assert.Equal(t, tt.want, Get())
		})
	}
}
