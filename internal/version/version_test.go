package version

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetUsesInjectedValues(t *testing.T) {
	oldVersion, oldCommit, oldTime := Version, GitCommit, BuildTime
	defer func() { Version, GitCommit, BuildTime = oldVersion, oldCommit, oldTime }()

	Version = "v1.2.0"
	GitCommit = "abcdef1234567"
	BuildTime = "2026-01-02T03:04:05Z"

	info := Get()
	assert.Equal(t, "v1.2.0", info.Version)
	assert.Equal(t, "abcdef1234567", info.GitCommit)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), info.BuildTime)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, "v1.2.0 (abcdef1)", info.Short())
	assert.Contains(t, info.String(), "Commit: abcdef1234567")
	assert.Contains(t, info.String(), "Built: 2026-01-02T03:04:05Z")
}

func TestShort(t *testing.T) {
	assert.Equal(t, "dev", Info{Version: "dev", GitCommit: "unknown"}.Short())
	assert.Equal(t, "dev-abc1234", Info{Version: "dev-abc1234", GitCommit: "abc1234ffff"}.Short())
	assert.Equal(t, "v1.0.0", Info{Version: "v1.0.0", GitCommit: "abc"}.Short())
}

func TestStringOmitsUnknowns(t *testing.T) {
	out := Info{Version: "dev", GitCommit: "unknown", GoVersion: "go1.24", Platform: "linux/amd64"}.String()
	assert.Equal(t, "Version: dev\nGo: go1.24\nPlatform: linux/amd64", out)
}
