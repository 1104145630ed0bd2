package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nbscout/nbscout/internal/discovery"
	"github.com/nbscout/nbscout/internal/logger"
	"github.com/nbscout/nbscout/internal/recommend"
	"github.com/nbscout/nbscout/internal/store"
	"github.com/nbscout/nbscout/internal/store/rediscache"
)

type Deps struct {
	Logger            logger.Logger
	StartTime         time.Time
	Version           string
	Commit            string
	BuildDate         string
	GoVersion         string
	AllowedHosts      []string                // Host headers allowed to access the server
	AllowedCIDRS      []string                // IPs allowed to access infra endpoints
	TrustProxy        bool                    // true if running behind a trusted reverse proxy (e.g., cloudflared)
	Store             store.RecordStore       // Record store (postgres, or in-memory in dev mode)
	Cache             *rediscache.Cache       // Result cache + hot counters (nil if redis disabled)
	RedisClient       *redis.Client           // Redis client connection (nil if redis disabled)
	Orchestrator      *discovery.Orchestrator // Discovery pipeline entry point
	Generator         *recommend.Generator    // Recommendation pipeline entry point
	ReloadTrigger     chan struct{}           // Channel to trigger manual seed reload
	URLCheckTimeout   time.Duration           // Timeout for source URL validation on submissions
	SkipURLValidation bool                    // Skip source URL validation (useful for dev/local)
}
