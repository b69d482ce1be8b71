package version

// Version is the current diffmate release. Builds can override it with
// -ldflags "-X github.com/thomas-vilte/diffmate/internal/version.Version=...".
var Version = "0.1.0"

// FullVersion returns the version with the v prefix
func FullVersion() string {
	return "v" + Version
}
