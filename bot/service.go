package bot

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"football-matches-notifier-bot/db"
	"football-matches-notifier-bot/notify"
	"football-matches-notifier-bot/templates"
	"football-matches-notifier-bot/timezone"
)

const (
	TodayButton    = "📅 Bugun"
	TomorrowButton = "📅 Ertaga"
	clubGamesLimit = 10
	// Shorter queries are answered with help instead of a club search.
	minClubQueryLength = 2
)

var (
	todayCommands = map[string]bool{
		"bugungi o'yinlar": true,
		"bugungi oyinlar":  true,
		"bugungi o'yin":    true,
		"bugun":            true,
		"📅 bugun":          true,
		"/today":           true,
	}
	tomorrowCommands = map[string]bool{
		"ertangi o'yinlar": true,
		"ertangi oyinlar":  true,
		"ertangi o'yin":    true,
		"ertangi":          true,
		"ertaga":           true,
		"📅 ertaga":         true,
		"/tomorrow":        true,
	}
	dateLayouts      = []string{"2006-1-2", "2.1.2006", "2/1/2006", "2-1-2006"}
	monthDayPattern  = regexp.MustCompile(`^(\d{1,2})\s*-\s*([\p{L}]+)$`)
	monthDayIndex    = 1
	monthNameIndex   = 2
	keyboardRowSizes = []int{3, 2}
)

type Store interface {
	AddSubscriber(ctx context.Context, chatId int64) error
	CountActiveSubscribers(ctx context.Context) (int, error)
	GamesOnDate(ctx context.Context, day time.Time) ([]db.Game, error)
	LastGamesByClubName(ctx context.Context, query string, limit int) ([]db.Game, error)
}

type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

func (s *Service) Start(c tele.Context) error {
	ctx := context.Background()
	chatId := c.Chat().ID
	if err := s.store.AddSubscriber(ctx, chatId); err != nil {
		return err
	}
	s.logger.Info("subscriber registered", zap.Int64("chat_id", chatId))
	day, err := s.day(ctx, timezone.Today(s.now()))
	if err != nil {
		return err
	}
	return c.Send(templates.Welcome+"\n\n"+day, s.Keyboard())
}

func (s *Service) OnText(c tele.Context) error {
	reply, err := s.Reply(context.Background(), c.Text())
	if err != nil {
		return err
	}
	return c.Send(reply, s.Keyboard())
}

// Reply builds the answer to a free-text message.
func (s *Service) Reply(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)
	now := s.now()
	switch {
	case text == "":
		return templates.Welcome, nil
	case todayCommands[lower]:
		return s.day(ctx, timezone.Today(now))
	case tomorrowCommands[lower]:
		return s.day(ctx, timezone.Tomorrow(now))
	case lower == "/stats":
		count, err := s.store.CountActiveSubscribers(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(templates.Stats, count), nil
	case lower == "/help":
		return templates.Help, nil
	}
	if day, ok := ParseDate(text, now); ok {
		return s.day(ctx, day)
	}
	if utf8.RuneCountInString(text) >= minClubQueryLength && !strings.HasPrefix(text, "/") {
		return s.clubGames(ctx, text)
	}
	return templates.Help, nil
}

func (s *Service) day(ctx context.Context, day time.Time) (string, error) {
	games, err := s.store.GamesOnDate(ctx, day)
	if err != nil {
		return "", errors.Wrapf(err, "unable to list games of %v", timezone.FormatDate(day))
	}
	return notify.FormatDay(day, games), nil
}

func (s *Service) clubGames(ctx context.Context, query string) (string, error) {
	games, err := s.store.LastGamesByClubName(ctx, query, clubGamesLimit)
	if err != nil {
		return "", err
	}
	if len(games) == 0 {
		return fmt.Sprintf(templates.ClubNotFound, notify.StripMarkup(query)), nil
	}
	return notify.FormatClubGames(query, games), nil
}

// KeyboardLabels returns today and tomorrow, then the five following dates.
func KeyboardLabels(now time.Time) [][]string {
	rows := [][]string{{TodayButton, TomorrowButton}}
	day := timezone.AddDays(timezone.Today(now), 2)
	for _, size := range keyboardRowSizes {
		var row []string
		for i := 0; i < size; i++ {
			row = append(row, notify.DayLabel(day))
			day = timezone.AddDays(day, 1)
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *Service) Keyboard() *tele.ReplyMarkup {
	return replyKeyboard(KeyboardLabels(s.now()))
}

func replyKeyboard(labelRows [][]string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	var rows []tele.Row
	for _, labels := range labelRows {
		var buttons []tele.Btn
		for _, label := range labels {
			buttons = append(buttons, markup.Text(label))
		}
		rows = append(rows, markup.Row(buttons...))
	}
	markup.Reply(rows...)
	return markup
}

// ParseDate understands numeric dates and "30-yanvar" style dates of the current year.
func ParseDate(text string, now time.Time) (time.Time, bool) {
	text = strings.TrimSpace(text)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, text, timezone.Location()); err == nil {
			return t, true
		}
	}
	submatch := monthDayPattern.FindStringSubmatch(strings.ToLower(text))
	if submatch == nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(submatch[monthDayIndex])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	for i, month := range templates.Months {
		if month != submatch[monthNameIndex] {
			continue
		}
		year := timezone.Local(now).Year()
		t := time.Date(year, time.Month(i+1), day, 0, 0, 0, 0, timezone.Location())
		if t.Day() != day {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
