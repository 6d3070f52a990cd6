package scheduler_jobs

import (
	"time"

	"github.com/charmbracelet/log"

	"tableBot/metrics"
	"tableBot/services/blackjackService"
)

// ReapSeats frees players left seated by rounds that never finished.
func ReapSeats(seats *blackjackService.Registry, ttl time.Duration, logger *log.Logger) int {
	reaped := seats.Reap(ttl)
	if reaped > 0 {
		logger.Warn("Released stale seats", "seats", reaped)
	}
	metrics.Metrics.SetSeatedRooms(seats.Rooms())
	return reaped
}
