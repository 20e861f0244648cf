package deps

import (
	"time"

	"github.com/MrSnakeDoc/shelf/internal/activity"
	"github.com/MrSnakeDoc/shelf/internal/library"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/store"
)

// SaveReporter exposes the outcome of the latest durable write.
type SaveReporter interface {
	LastSaveError() error
}

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time  // for testing, defaults to time.Now
	AllowedHosts   []string          // Host headers allowed to access the server
	AllowedCIDRS   []string          // IPs allowed to access healthz/readyz/reload endpoints
	TrustProxy     bool              // true if running behind a trusted reverse proxy (e.g., cloudflared)
	AllowedOrigins []string          // CORS origins
	RateLimit      float64           // API requests per second per client, 0 = off
	RateBurst      int               // API burst size
	Library        *library.Library  // book store
	Activity       *activity.Tracker // reading-day tracker
	Store          store.KV          // durable backend, pinged by readyz
	Backend        string            // backend name, for readyz
	Saves          SaveReporter      // last persistence outcome
	ReloadTrigger  chan struct{}     // Channel to trigger manual seed reload (nil if seeding disabled)
}
