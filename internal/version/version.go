package version

import (
	"runtime"
	"time"
)

// Set at build time with -ldflags "-X github.com/ablemap/ablemap/internal/version.Version=...".
var (
	Name      = "ablemap"
	Version   = "dev"                           // ex: v0.3.0
	Commit    = "none"                          // ex: abcd123
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2026-10-16T09:12:00Z
	GoVersion = runtime.Version()
)

// UserAgent is sent by the API client and the identity provider client.
func UserAgent() string {
	return Name + "/" + Version
}
