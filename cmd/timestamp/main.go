// Package main provides the CLI entry point for timestamp.
package main

import (
	"os"
	"runtime/debug"
	"strings"

	"github.com/alexander-akhmetov/timestamp/internal/cmd"
)

// Version information set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	fillVersionFromBuildInfo()
	cmd.SetVersionInfo(version, commit, date)
	os.Exit(cmd.ExitCode(cmd.Execute()))
}

func fillVersionFromBuildInfo() {
	if version != "dev" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	version, commit, date = buildVersion(info)
}

// buildVersion derives version, short commit and commit time from the
// module and VCS stamps the go tool embeds. Missing values become "dev"
// or "unknown".
func buildVersion(info *debug.BuildInfo) (v, c, d string) {
	v, c, d = "dev", "unknown", "unknown"
	if mv := info.Main.Version; mv != "" && mv != "(devel)" {
		v = mv
	}

	vcs := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		if strings.HasPrefix(s.Key, "vcs.") {
			vcs[s.Key] = s.Value
		}
	}
	if rev := vcs["vcs.revision"]; len(rev) >= 7 {
		c = rev[:7]
		if vcs["vcs.modified"] == "true" {
			c += "-dirty"
		}
	}
	if t := vcs["vcs.time"]; t != "" {
		d = t
	}
	return v, c, d
}
