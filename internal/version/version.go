// Package version holds the build version, overridden at link time:
//
//	go build -ldflags "-X clinvartab/internal/version.Version=v1.2.0" ./cmd/clinvar-xml-tab
package version

// Version is the semantic version of the binary.
var Version = "0.3.0-dev"
