package version

// Version is the CLI version. Release builds override it with
// -ldflags "-X github.com/ansys/conceptev-go/internal/version.Version=...".
var Version = "0.1.0-dev"
