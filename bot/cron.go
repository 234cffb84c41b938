package bot

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"football-matches-notifier-bot/timezone"
)

const syncRunTimeout = time.Minute * 10

type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}

// Schedule registers both triggers on Tashkent wall-clock schedules. Runs of the same job never overlap.
func (t *Triggers) Schedule(syncSpec, notifySpec string) (*cron.Cron, error) {
	logger := cronLogger{logger: t.logger.Sugar()}
	c := cron.New(
		cron.WithLocation(timezone.Location()),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	_, err := c.AddFunc(syncSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncRunTimeout)
		defer cancel()
		if _, err := t.SyncWeek(ctx, nil); err != nil {
			t.logger.Warn("scheduled sync skipped", zap.Error(err))
		}
	})
	if err != nil {
		return nil, errors.Wrapf(err, "invalid sync schedule %q", syncSpec)
	}
	_, err = c.AddFunc(notifySpec, func() {
		// Notification runs have no deadline; the lock is refreshed while they last.
		if _, err := t.Notify(context.Background(), false); err != nil {
			t.logger.Warn("scheduled notification skipped", zap.Error(err))
		}
	})
	if err != nil {
		return nil, errors.Wrapf(err, "invalid notify schedule %q", notifySpec)
	}
	return c, nil
}
