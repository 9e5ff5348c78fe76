// Package buildinfo holds version metadata stamped by the release build:
//
//	go build -ldflags "-X github.com/cleared-dev/concilia/internal/buildinfo.Version=v1.2.0"
package buildinfo

var (
	// Version will be set via ldflags during build.
	Version = "dev"
	// Commit will be set via ldflags during build.
	Commit = "none"
	// Date will be set via ldflags during build.
	Date = "unknown"
)
