package notify

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"football-matches-notifier-bot/db"
	"football-matches-notifier-bot/timezone"
)

// ErrRecipientUnreachable is returned by a Dispatcher when the chat can never be reached again.
var ErrRecipientUnreachable = errors.New("recipient unreachable")

const (
	// DigestHour is the Tashkent hour during which the daily digest goes out.
	DigestHour = 9

	reminderLead      = time.Hour
	reminderTolerance = time.Minute
	recipientPause    = time.Millisecond * 300
	matchPause        = time.Second * 2
)

// Keyboard is a reply keyboard given as rows of button labels.
type Keyboard [][]string

// Dispatcher delivers one message. A nil keyboard leaves the chat's current keyboard alone.
type Dispatcher interface {
	Send(ctx context.Context, chatId int64, text string, silent bool, keyboard Keyboard) error
}

type Store interface {
	BroadcastExists(ctx context.Context, date string) (bool, error)
	AddBroadcast(ctx context.Context, l db.BroadcastLog) error
	GamesOnDate(ctx context.Context, day time.Time) ([]db.Game, error)
	GamesStartingBetween(ctx context.Context, start, end time.Time) ([]db.Game, error)
	MarkReminderSent(ctx context.Context, gameId int64, at time.Time) error
	ActiveChatIds(ctx context.Context) ([]int64, error)
}

type Notifier struct {
	store      Store
	dispatcher Dispatcher
	logger     *zap.Logger
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewNotifier(store Store, dispatcher Dispatcher, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
		sleep:      sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type Report struct {
	DigestSent    bool `json:"digest_sent"`
	RemindersSent int  `json:"reminders_sent"`
}

// Run performs one notification tick: the daily digest first, then the match reminders.
func (n *Notifier) Run(ctx context.Context, force bool) Report {
	var report Report
	sent, err := n.MaybeSendDailyDigest(ctx, force)
	if err != nil {
		n.logger.Error("daily digest failed", zap.Error(err))
	}
	report.DigestSent = sent
	reminders, err := n.SendMatchReminders(ctx)
	if err != nil {
		n.logger.Error("match reminders failed", zap.Error(err))
	}
	report.RemindersSent = reminders
	return report
}

// MaybeSendDailyDigest sends today's schedule once per Tashkent date.
// Outside DigestHour it does nothing unless force is set; the ledger guard applies either way.
func (n *Notifier) MaybeSendDailyDigest(ctx context.Context, force bool) (bool, error) {
	now := n.now()
	if !force && timezone.Local(now).Hour() != DigestHour {
		return false, nil
	}
	today := timezone.Today(now)
	date := timezone.FormatDate(today)
	exists, err := n.store.BroadcastExists(ctx, date)
	if err != nil {
		return false, errors.Wrapf(err, "unable to check digest ledger for %v", date)
	}
	if exists {
		return false, nil
	}
	games, err := n.store.GamesOnDate(ctx, today)
	if err != nil {
		return false, err
	}
	if len(games) == 0 {
		n.logger.Debug("no games today, digest skipped", zap.String("date", date))
		return false, nil
	}

	chatIds, err := n.store.ActiveChatIds(ctx)
	if err != nil {
		return false, err
	}
	// A started digest always reaches its ledger row.
	ctx = context.WithoutCancel(ctx)
	n.broadcast(ctx, chatIds, FormatDay(today, games))
	// Commit point for the day.
	err = n.store.AddBroadcast(ctx, db.BroadcastLog{BroadcastDate: date, SentAt: n.now()})
	if err != nil {
		return true, errors.Wrapf(err, "digest for %v was sent but not recorded", date)
	}
	n.logger.Info("daily digest sent",
		zap.String("date", date),
		zap.Int("games", len(games)),
		zap.Int("recipients", len(chatIds)))
	return true, nil
}

// SendMatchReminders notifies about every game kicking off in about an hour and marks it, one game at a time.
// Cancellation is honoured between games only; a game whose broadcast started is always marked.
func (n *Notifier) SendMatchReminders(ctx context.Context) (int, error) {
	now := n.now()
	start := now.Add(reminderLead - reminderTolerance)
	end := now.Add(reminderLead + reminderTolerance)
	games, err := n.store.GamesStartingBetween(ctx, start, end)
	if err != nil {
		return 0, err
	}
	if len(games) == 0 {
		return 0, nil
	}
	chatIds, err := n.store.ActiveChatIds(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range games {
		g := &games[i]
		if i > 0 {
			if err := n.sleep(ctx, matchPause); err != nil {
				return sent, err
			}
		}
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		sendCtx := context.WithoutCancel(ctx)
		n.broadcast(sendCtx, chatIds, FormatReminder(g))
		if err := n.store.MarkReminderSent(sendCtx, g.Id, now); err != nil {
			n.logger.Error("unable to mark reminder", zap.String("game", g.ExternalId), zap.Error(err))
			continue
		}
		sent++
		n.logger.Info("match reminder sent", zap.String("game", g.ExternalId), zap.Int("recipients", len(chatIds)))
	}
	return sent, nil
}

// broadcast delivers text to every chat in order. Failed deliveries are logged and skipped.
func (n *Notifier) broadcast(ctx context.Context, chatIds []int64, text string) {
	for _, chatId := range chatIds {
		err := n.dispatcher.Send(ctx, chatId, text, false, nil)
		switch {
		case errors.Is(err, ErrRecipientUnreachable):
			n.logger.Info("recipient unreachable", zap.Int64("chat_id", chatId))
		case err != nil:
			n.logger.Warn("unable to deliver message", zap.Int64("chat_id", chatId), zap.Error(err))
		}
		// Callers pass a context that is never done.
		_ = n.sleep(ctx, recipientPause)
	}
}
