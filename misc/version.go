// Package misc keeps build time information about the program.
package misc

import "runtime/debug"

// Set with -ldflags "-X stylefmt/misc.version=... -X stylefmt/misc.gitHash=..."
var (
	version = ""
	gitHash = ""
)

const appName = "stylefmt"

func GetAppName() string {
	return appName
}

// GetVersion returns program version, falling back to module information
// recorded by the go tool when version was not set at link time.
func GetVersion() string {
	if len(version) > 0 {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && len(bi.Main.Version) > 0 && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return "dev"
}

func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
