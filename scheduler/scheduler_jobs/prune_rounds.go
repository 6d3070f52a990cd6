package scheduler_jobs

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"gorm.io/gorm"

	"tableBot/services/statsService"
)

// PruneRounds deletes round records older than the retention window.
func PruneRounds(db *gorm.DB, clock quartz.Clock, retention time.Duration, logger *log.Logger) error {
	cutoff := clock.Now().Add(-retention)
	deleted, err := statsService.PruneRounds(db, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		logger.Info("Pruned old rounds", "deleted", deleted, "cutoff", cutoff)
	}
	return nil
}
