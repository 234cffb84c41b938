package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"football-matches-notifier-bot/bot"
	"football-matches-notifier-bot/config"
	"football-matches-notifier-bot/logging"
	"football-matches-notifier-bot/timezone"
)

const (
	commandServe   = "serve"
	commandSync    = "sync"
	commandNotify  = "notify"
	commandMigrate = "migrate"
	commandTimeout = time.Minute * 10
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %v [--config path] serve|sync [--from YYYY-MM-DD]|notify [--force]|migrate\n", os.Args[0])
}

func main() {
	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	flags.SetInterspersed(false)
	configPath := flags.String("config", config.DefaultPath, "path to the JSON config file")
	flags.Usage = usage
	_ = flags.Parse(os.Args[1:])

	command := commandServe
	args := flags.Args()
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	c, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("unable to load config: %v", err.Error())
		return
	}
	logger, err := logging.New(c.Debug)
	if err != nil {
		log.Fatalf("unable to create logger: %v", err.Error())
		return
	}
	defer logger.Sync()

	d := bot.Open(c, logger)
	defer d.Close()

	switch command {
	case commandServe:
		err = serve(d)
	case commandSync:
		err = syncWeek(d, args)
	case commandNotify:
		err = notifyOnce(d, args)
	case commandMigrate:
		err = migrate(d)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal("command failed", zap.String("command", command), zap.Error(err))
	}
}

func serve(d *bot.Deps) error {
	ctx, cancel := context.WithCancel(context.Background())
	confirm := make(chan struct{})
	go func() {
		if err := bot.Start(ctx, d, confirm); err != nil {
			d.Logger.Fatal("unable to start bot", zap.Error(err))
		}
	}()
	s := make(chan os.Signal, 1)
	signal.Notify(s, os.Interrupt, syscall.SIGTERM)
	<-s
	cancel()
	<-confirm
	return nil
}

func syncWeek(d *bot.Deps, args []string) error {
	flags := pflag.NewFlagSet(commandSync, pflag.ExitOnError)
	fromFlag := flags.String("from", "", "first day of the window (YYYY-MM-DD, Tashkent), defaults to today")
	_ = flags.Parse(args)
	if err := d.Config.ValidateSync(); err != nil {
		return err
	}

	var from *time.Time
	if *fromFlag != "" {
		day, err := timezone.ParseDate(*fromFlag)
		if err != nil {
			return err
		}
		from = &day
	}
	ctx, cancel := commandContext()
	defer cancel()
	triggers := bot.NewTriggers(d.Syncer(), nil, d.Locker(), d.Logger.Named("triggers"))
	result, err := triggers.SyncWeek(ctx, from)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func notifyOnce(d *bot.Deps, args []string) error {
	flags := pflag.NewFlagSet(commandNotify, pflag.ExitOnError)
	force := flags.Bool("force", false, "send the daily digest again even if it went out today")
	_ = flags.Parse(args)
	if d.Config.TelegramBotToken == "" {
		return errors.New("telegram_bot_token is required")
	}

	b, err := d.NewBot(nil)
	if err != nil {
		return err
	}
	// No deadline: an interrupt stops the run between matches only.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	triggers := bot.NewTriggers(nil, d.Notifier(b), d.Locker(), d.Logger.Named("triggers"))
	report, err := triggers.Notify(ctx, *force)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func migrate(d *bot.Deps) error {
	ctx, cancel := commandContext()
	defer cancel()
	group, err := d.DB.Migrate(ctx)
	if err != nil {
		return err
	}
	if group == "" {
		d.Logger.Info("no new migrations")
		return nil
	}
	d.Logger.Info("migrated", zap.String("group", group))
	return nil
}

// commandContext is cancelled by a timeout or an interrupt.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	return ctx, func() {
		stop()
		cancel()
	}
}

func printJSON(v interface{}) error {
	body, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(body))
	return nil
}
