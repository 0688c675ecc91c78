package deps

import (
	"context"
	"time"

	"github.com/ablemap/ablemap/internal/domain"
	"github.com/ablemap/ablemap/internal/identity"
	"github.com/ablemap/ablemap/internal/logger"
	"github.com/ablemap/ablemap/internal/scheduler"
	"github.com/ablemap/ablemap/internal/service"
)

// Check is one backing component reported by /readyz and /infra.
type Check struct {
	Name     string
	Critical bool   // a failing critical check makes /readyz return 503
	Impact   string // what degrades when the component is down
	Ping     func(ctx context.Context) error
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed to access the ops endpoints
	AllowedCIDRS []string         // IPs allowed to access readyz/infra/metrics/reload
	TrustProxy   bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)

	RateLimitBurst     int // write endpoints, per client IP
	RateLimitPerMinute int

	Bookmarks *service.BookmarkService  // bookmark authorization boundary
	Identity  *identity.Resolver        // credential -> subject -> user
	Feedback  domain.FeedbackStore      // satisfaction votes
	Reports   domain.AccessibilityStore // accessibility reports per place

	Checks        []Check                        // components pinged by readyz/infra
	ReloadTrigger chan struct{}                  // manual accessibility reimport (nil if importer disabled)
	ReloadStatus  func() scheduler.ReloadStatus // nil if importer disabled
}

// Now returns d.TimeNow() or time.Now() when unset.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
