package scheduler

import (
	"time"

	"finance_system/internal/service"

	"github.com/jasonlvhit/gocron"
	"github.com/sirupsen/logrus"
)

// Start schedules the daily automatic-transaction run at the given time
// of day (e.g. "00:00:00", UTC) and returns the scheduler's stop channel.
func Start(automatics *service.AutomaticTransactionService, at string) chan bool {
	s := gocron.NewScheduler()
	s.Every(1).Day().At(at).Do(func() { RunDaily(automatics) })
	return s.Start()
}

// RunDaily executes one materialization run for today. It is also called
// directly from the admin endpoint to catch up without waiting for the
// next tick.
func RunDaily(automatics *service.AutomaticTransactionService) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	logrus.WithField("date", today.Format("2006-01-02")).Info("Starting daily automatic transactions")
	processed, failed, err := automatics.RunDue(today)
	if err != nil {
		logrus.WithField("error", err.Error()).Error("Daily automatic transactions aborted")
		return
	}
	logrus.WithFields(logrus.Fields{
		"processed": processed,
		"failed":    failed,
	}).Info("Completed daily automatic transactions")
}
