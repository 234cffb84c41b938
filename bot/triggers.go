package bot

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"football-matches-notifier-bot/fixtures"
	"football-matches-notifier-bot/mutex"
	"football-matches-notifier-bot/notify"
)

var (
	ErrBusy          = errors.New("another run is in progress")
	ErrNotConfigured = errors.New("trigger is not configured")
)

type Syncer interface {
	SyncWeek(ctx context.Context, from *time.Time) fixtures.Result
}

type NotificationRunner interface {
	Run(ctx context.Context, force bool) notify.Report
}

type Locker interface {
	SyncWeek() mutex.Mutex
	Notify() mutex.Mutex
}

// Triggers are the two externally invoked operations. Each run takes its lock when a Locker is set.
type Triggers struct {
	syncer   Syncer
	notifier NotificationRunner
	locks    Locker
	refresh  time.Duration
	logger   *zap.Logger
}

func NewTriggers(syncer Syncer, notifier NotificationRunner, locks Locker, logger *zap.Logger) *Triggers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Triggers{syncer: syncer, notifier: notifier, locks: locks, refresh: mutex.RefreshInterval, logger: logger}
}

func (t *Triggers) SyncWeek(ctx context.Context, from *time.Time) (fixtures.Result, error) {
	if t.syncer == nil {
		return fixtures.Result{}, ErrNotConfigured
	}
	var result fixtures.Result
	err := t.locked(func(l Locker) mutex.Mutex { return l.SyncWeek() }, func() {
		result = t.syncer.SyncWeek(ctx, from)
	})
	return result, err
}

func (t *Triggers) Notify(ctx context.Context, force bool) (notify.Report, error) {
	if t.notifier == nil {
		return notify.Report{}, ErrNotConfigured
	}
	var report notify.Report
	err := t.locked(func(l Locker) mutex.Mutex { return l.Notify() }, func() {
		report = t.notifier.Run(ctx, force)
	})
	return report, err
}

func (t *Triggers) locked(lock func(Locker) mutex.Mutex, run func()) error {
	if t.locks == nil {
		run()
		return nil
	}
	m := lock(t.locks)
	if err := m.Lock(); err != nil {
		t.logger.Info("run skipped, lock is held", zap.Error(err))
		return errors.Wrap(ErrBusy, err.Error())
	}
	defer func() {
		if _, err := m.Unlock(); err != nil {
			t.logger.Warn("unable to release lock", zap.Error(err))
		}
	}()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t.keepLocked(m, stop)
	}()
	run()
	close(stop)
	wg.Wait()
	return nil
}

// keepLocked extends m until stop is closed, so runs longer than the lock expiry stay exclusive.
func (t *Triggers) keepLocked(m mutex.Mutex, stop <-chan struct{}) {
	ticker := time.NewTicker(t.refresh)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if ok, err := m.Extend(); err != nil || !ok {
				t.logger.Warn("unable to extend lock", zap.Bool("extended", ok), zap.Error(err))
			}
		}
	}
}
