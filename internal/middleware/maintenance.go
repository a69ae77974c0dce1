package middleware

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultMaintenanceTTL is how long a maintenance lookup is reused
const DefaultMaintenanceTTL = 30 * time.Second

type MaintenanceSource interface {
	GetMaintenanceMode(ctx context.Context) (bool, error)
}

// MaintenanceSwitch caches the maintenance setting so buyer requests do not
// each hit the database. When forced is set the site stays in maintenance
// regardless of the stored setting.
type MaintenanceSwitch struct {
	source MaintenanceSource
	forced bool
	ttl    time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	enabled bool
	checked time.Time
	now     func() time.Time
}

func NewMaintenanceSwitch(source MaintenanceSource, forced bool, ttl time.Duration, logger *zap.Logger) *MaintenanceSwitch {
	if ttl <= 0 {
		ttl = DefaultMaintenanceTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaintenanceSwitch{source: source, forced: forced, ttl: ttl, logger: logger, now: time.Now}
}

// Enabled reports the maintenance state. A failed lookup keeps the last
// known state so a database outage does not lock buyers out.
func (s *MaintenanceSwitch) Enabled() bool {
	if s.forced {
		return true
	}
	if s.source == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !s.checked.IsZero() && now.Sub(s.checked) < s.ttl {
		return s.enabled
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	enabled, err := s.source.GetMaintenanceMode(ctx)
	s.checked = now
	if err != nil {
		s.logger.Warn("maintenance lookup failed", zap.Error(err))
		return s.enabled
	}
	s.enabled = enabled
	return enabled
}

// Set records a state just written to the source so the change applies
// before the cached lookup expires.
func (s *MaintenanceSwitch) Set(enabled bool) {
	s.mu.Lock()
	s.enabled = enabled
	s.checked = s.now()
	s.mu.Unlock()
}
