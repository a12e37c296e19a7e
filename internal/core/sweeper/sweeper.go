package sweeper

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sergedenimes/denim-atelier-be/internal/modules/design/repositories"
	"github.com/sergedenimes/denim-atelier-be/internal/shared/utils"
)

// staleAfter is how long an unlocked session may sit untouched before it
// counts as abandoned.
const staleAfter = 24 * time.Hour

// Sweeper reports abandoned design sessions on a schedule. Sessions are
// never deleted; the report feeds cleanup and conversion tracking.
type Sweeper struct {
	cron     *cron.Cron
	sessions repositories.SessionRepo
}

func NewSweeper(sessions repositories.SessionRepo) *Sweeper {
	return &Sweeper{
		cron:     cron.New(),
		sessions: sessions,
	}
}

// Start registers the hourly sweep and starts the scheduler.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.sweep); err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}
	s.cron.Start()
	utils.LogInfo("Session sweeper started", map[string]interface{}{
		"interval":    "hourly",
		"stale_after": staleAfter.String(),
	})
	return nil
}

// Stop halts the scheduler. Already-running sweeps finish on their own.
func (s *Sweeper) Stop() {
	s.cron.Stop()
	utils.LogInfo("Session sweeper stopped", nil)
}

func (s *Sweeper) sweep() {
	cutoff := time.Now().UTC().Add(-staleAfter)
	count, err := s.sessions.CountStale(cutoff)
	if err != nil {
		utils.LogError("Session sweep failed", err, nil)
		return
	}
	utils.LogInfo("Session sweep complete", map[string]interface{}{
		"stale_sessions": count,
		"cutoff":         cutoff.Format(time.RFC3339),
	})
}
