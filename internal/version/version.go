package version

// Version is the current version of coinlab.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/coinlab/internal/version.Version=1.2.3"
// The value "main" marks a development build.
var Version = "v0.3.0"

// GetVersion returns the current version.
func GetVersion() string {
	return Version
}
