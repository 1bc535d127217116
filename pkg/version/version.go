// Package version exposes build-time version information for the omniprof binary.
package version

import "runtime/debug"

// Version is the semantic version of the binary, injected at build time via ldflags.
var Version = "dev"

// Commit is the Git commit hash the binary was built from.
var Commit = "none"

// Date is the build timestamp.
var Date = "unknown"

// InitBinaryVersion fills in version information from Go build info when
// ldflags did not inject it (for example with plain `go install`).
func InitBinaryVersion() {
	if Version != "dev" {
		return
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			Commit = setting.Value
		}

		if setting.Key == "vcs.time" {
			Date = setting.Value
		}
	}
}
