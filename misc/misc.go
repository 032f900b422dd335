// Package misc keeps small helpers with no better home: program identity and
// build information used for logging and generated file names.
package misc

import (
	"runtime/debug"
	"strings"
)

const appName = "extlint"

// GetAppName returns short program name used in logs, temporary file names and
// generated report entries.
func GetAppName() string {
	return appName
}

// GetVersion returns module version as recorded by the toolchain, "devel" when
// built from a working tree.
func GetVersion() string {
	if bi, ok := debug.ReadBuildInfo(); ok && len(bi.Main.Version) > 0 {
		return bi.Main.Version
	}
	return "devel"
}

// GetGitHash returns short VCS revision if stamped into the binary.
func GetGitHash() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			if len(s.Value) > 12 {
				return s.Value[:12]
			}
			return s.Value
		}
	}
	return "unknown"
}

// Modified reports if binary was built from modified working tree.
func Modified() bool {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return false
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.modified" {
			return strings.EqualFold(s.Value, "true")
		}
	}
	return false
}
