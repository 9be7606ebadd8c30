package deps

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/promptlib/internal/logger"
	"github.com/MrSnakeDoc/promptlib/internal/repository"
)

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Version         string
	Commit          string
	BuildDate       string
	GoVersion       string
	TimeNow         func() time.Time       // for testing, defaults to time.Now
	AllowedHosts    []string               // Host headers allowed to access the server
	AllowedCIDRS    []string               // IPs allowed to access the API and ops endpoints
	TrustProxy      bool                   // true if running behind a trusted reverse proxy
	CORSOrigins     []string               // browser origins allowed to call the API
	RateLimitBurst  int                    // token bucket size for mutating routes
	RateLimitPerMin int                    // token refill per client IP per minute
	Repository      *repository.Repository // canonical prompt collection
	Store           Pinger                 // storage backend behind the repository
	StoreType       string                 // memory, file, redis or sqlite
	MetricsHandler  http.Handler           // nil disables /metrics
	SyncTrigger     chan struct{}          // Channel to trigger a manual store sync
	SnapshotTrigger chan struct{}          // Channel to trigger a manual snapshot (nil if snapshots disabled)
}

// Now returns d.TimeNow() or time.Now when unset.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
