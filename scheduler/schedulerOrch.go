package scheduler

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"tableBot/models"
	"tableBot/scheduler/scheduler_jobs"
	"tableBot/services/blackjackService"
)

func SetupCron(db *gorm.DB, seats *blackjackService.Registry, clock quartz.Clock, retention, seatTTL time.Duration, logger *log.Logger) *cron.Cron {
	cronService := cron.New(cron.WithSeconds())
	logger = logger.WithPrefix("cron")

	_, err := cronService.AddFunc("0 0 4 * * *", func() {
		// Every day at 4am
		err := scheduler_jobs.PruneRounds(db, clock, retention, logger)
		if err != nil {
			logger.Error("Pruning rounds failed", "err", err)
		}
	})
	if err != nil {
		logCronError(db, logger, err)
	}

	_, err = cronService.AddFunc("0 */10 * * * *", func() {
		// Every 10 minutes
		scheduler_jobs.ReapSeats(seats, seatTTL, logger)
	})
	if err != nil {
		logCronError(db, logger, err)
	}

	cronService.Start()
	return cronService
}

func logCronError(db *gorm.DB, logger *log.Logger, err error) {
	logger.Error("Could not schedule job", "err", err)
	errLog := models.ErrorLog{
		GuildID: "CRON ERR",
		Message: err.Error(),
	}
	db.Create(&errLog)
}
