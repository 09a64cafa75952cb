package schedule

import (
	"context"
	"time"

	"github.com/gorhill/cronexpr"
	log "github.com/sirupsen/logrus"
)

// NextRun returns the first point in time after moment matching cron or the zero time if
// the expression never matches again.
func NextRun(cron *cronexpr.Expression, moment time.Time) time.Time {
	if cron == nil {
		return time.Time{}
	}
	return cron.Next(moment)
}

// Every calls action at each point in time matching cron until ctx is cancelled.
func Every(ctx context.Context, cron *cronexpr.Expression, action func()) {
	for {
		next := NextRun(cron, time.Now())
		if next.IsZero() {
			log.Warn("Schedule has no further executions, stopping")
			return
		}

		log.Debugf("Next scheduled execution at %s", next)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			action()
		}
	}
}
