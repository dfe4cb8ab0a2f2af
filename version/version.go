// Package version reports the version of a bats-go binary.
package version

import "runtime/debug"

// Version can be stamped at build time:
//
//	go build -ldflags "-X github.com/wmedrano/bats-go/version.Version=$(git describe --dirty)"
var Version string

// VersionOrHash is Version when stamped, otherwise the VCS revision baked
// into the binary, or "" when neither is known.
var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	return vcsHash()
}()

func vcsHash() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if revision != "" && modified {
		revision += "-dirty"
	}
	return revision
}
