// Package version records the build version of the browser.
package version

// Version is the current release tag. Release builds override it via
// -ldflags "-X .../pkg/version.Version=v1.2.3".
var Version = "v0.1.0"
