package version

// Version is the version of the linkerland binary.
// It is set using `go build -ldflags "-X linkerland.dev/cli/internal/version.Version=v1.2.3"`.
var Version string
