package version

import (
	"fmt"
	"runtime"
)

var (
	// These variables are set via -ldflags during build
	gitCommit  = "unknown"
	appVersion = "dev"
	buildTime  = "unknown"
)

type Info struct {
	GitCommit  string `json:"git_commit"`
	AppVersion string `json:"app_version"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

func Get() Info {
	return Info{
		GitCommit:  gitCommit,
		AppVersion: appVersion,
		BuildTime:  buildTime,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// UserAgent identifies obsprobe in outgoing requests.
func (i Info) UserAgent() string {
	return fmt.Sprintf("obsprobe/%s (%s)", i.AppVersion, i.Platform)
}

func (i Info) String() string {
	return fmt.Sprintf("obsprobe %s\nGit Commit: %s\nBuild Time: %s\nGo Version: %s\nPlatform: %s",
		i.AppVersion, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}
