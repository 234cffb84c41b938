package bot

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"football-matches-notifier-bot/clubname"
	"football-matches-notifier-bot/config"
	"football-matches-notifier-bot/db"
	"football-matches-notifier-bot/fixtures"
	"football-matches-notifier-bot/footballdata"
	"football-matches-notifier-bot/mutex"
	"football-matches-notifier-bot/notify"
	"football-matches-notifier-bot/templates"
)

const (
	pollTimeout     = time.Second * 10
	defaultWebhook  = "/telegram"
	shutdownTimeout = time.Second * 10
)

// Deps holds the clients shared by every command.
type Deps struct {
	Config config.Config
	Logger *zap.Logger
	DB     *db.DB
	Locks  *mutex.Builder
}

func Open(c config.Config, logger *zap.Logger) *Deps {
	if logger == nil {
		logger = zap.NewNop()
	}
	dbService := db.New(c.DBAddress, c.DBUser, c.DBPassword, c.DBName)
	dbService.SetTimeout(c.DBTimeout)
	if c.Debug {
		dbService.EnableDebug()
	}
	d := &Deps{Config: c, Logger: logger, DB: dbService}
	if c.RedisAddress != "" {
		d.Locks = mutex.NewBuilder(c.RedisAddress)
	}
	return d
}

func (d *Deps) Close() {
	if err := d.DB.Close(); err != nil {
		d.Logger.Warn("unable to close database", zap.Error(err))
	}
	if d.Locks != nil {
		if err := d.Locks.Close(); err != nil {
			d.Logger.Warn("unable to close redis", zap.Error(err))
		}
	}
}

// Locker returns nil when no redis is configured, so runs go unguarded.
func (d *Deps) Locker() Locker {
	if d.Locks == nil {
		return nil
	}
	return d.Locks
}

func (d *Deps) Syncer() *fixtures.Syncer {
	feed := footballdata.NewService(
		d.Config.FootballDataToken,
		footballdata.WithBaseURL(d.Config.FootballDataBaseURL),
		footballdata.WithLogger(d.Logger.Named("footballdata")),
	)
	return fixtures.NewSyncer(feed, d.DB, clubname.ToUz, d.Logger.Named("fixtures"))
}

func (d *Deps) NewBot(poller tele.Poller) (*tele.Bot, error) {
	b, err := tele.NewBot(tele.Settings{
		Token:     d.Config.TelegramBotToken,
		Poller:    poller,
		ParseMode: tele.ModeHTML,
		OnError: func(err error, c tele.Context) {
			d.Logger.Error("update handling failed", zap.Error(err))
			if c == nil {
				return
			}
			if err := c.Send(templates.UnexpectedError); err != nil {
				d.Logger.Warn("unable to report error", zap.Error(err))
			}
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "error during creation of a new bot")
	}
	return b, nil
}

func (d *Deps) Notifier(b *tele.Bot) *notify.Notifier {
	dispatcher := NewDispatcher(b, d.DB, d.Logger.Named("dispatcher"))
	return notify.NewNotifier(d.DB, dispatcher, d.Logger.Named("notify"))
}

// webhookRoute is the local path Telegram posts updates to, taken from the public webhook URL.
func webhookRoute(publicURL string) string {
	u, err := url.Parse(publicURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return defaultWebhook
	}
	return u.Path
}

// Start runs the chat bot, the schedules and the trigger endpoints until ctx is done.
func Start(ctx context.Context, d *Deps, confirm chan<- struct{}) error {
	if err := d.Config.ValidateServe(); err != nil {
		return err
	}
	logger := d.Logger
	var poller tele.Poller = &tele.LongPoller{Timeout: pollTimeout}
	var webhook *tele.Webhook
	if d.Config.WebhookURL != "" {
		webhook = &tele.Webhook{Endpoint: &tele.WebhookEndpoint{PublicURL: d.Config.WebhookURL}}
		poller = webhook
	}
	b, err := d.NewBot(poller)
	if err != nil {
		return err
	}

	service := NewService(d.DB, logger.Named("bot"))
	b.Handle("/start", service.Start)
	b.Handle("/help", func(c tele.Context) error {
		return c.Send(templates.Help, service.Keyboard())
	})
	for _, command := range []string{"/today", "/tomorrow", "/stats", tele.OnText} {
		b.Handle(command, service.OnText)
	}

	triggers := NewTriggers(d.Syncer(), d.Notifier(b), d.Locker(), logger.Named("triggers"))
	scheduler, err := triggers.Schedule(d.Config.SyncCron, d.Config.NotifyCron)
	if err != nil {
		return err
	}

	router := mux.NewRouter()
	triggers.Routes(router, d.Config.TriggerToken)
	if webhook != nil {
		router.Methods(http.MethodPost).Path(webhookRoute(d.Config.WebhookURL)).Handler(webhook)
	}
	server := &http.Server{Addr: d.Config.HTTPAddress, Handler: router}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		b.Stop()
		<-scheduler.Stop().Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http server shutdown failed", zap.Error(err))
		}
		confirm <- struct{}{}
	}()

	scheduler.Start()
	logger.Info("bot started",
		zap.Bool("webhook", webhook != nil),
		zap.String("http_address", d.Config.HTTPAddress),
		zap.String("sync_cron", d.Config.SyncCron),
		zap.String("notify_cron", d.Config.NotifyCron))
	// Blocks until stop
	b.Start()
	return nil
}
