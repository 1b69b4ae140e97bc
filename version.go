package marquee

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/identify-labs/marquee.Version=...".
var Version = "0.1.0-dev"
