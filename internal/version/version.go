package version

// Version is the release version, set at build time via -ldflags.
var Version = "dev"
