package bot

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"football-matches-notifier-bot/db"
	"football-matches-notifier-bot/templates"
	"football-matches-notifier-bot/timezone"
)

type fakeStore struct {
	subscribers map[int64]bool
	games       []db.Game
	days        []string
	queries     []string
}

func (f *fakeStore) AddSubscriber(_ context.Context, chatId int64) error {
	f.subscribers[chatId] = true
	return nil
}

func (f *fakeStore) CountActiveSubscribers(context.Context) (int, error) {
	return len(f.subscribers), nil
}

func (f *fakeStore) GamesOnDate(_ context.Context, day time.Time) ([]db.Game, error) {
	f.days = append(f.days, timezone.FormatDate(day))
	return f.games, nil
}

func (f *fakeStore) LastGamesByClubName(_ context.Context, query string, limit int) ([]db.Game, error) {
	f.queries = append(f.queries, fmt.Sprintf("%v:%d", query, limit))
	return f.games, nil
}

func newTestService(store *fakeStore) *Service {
	s := NewService(store, nil)
	// 2025-01-28 10:00 in Tashkent.
	s.now = func() time.Time { return time.Date(2025, 1, 28, 5, 0, 0, 0, time.UTC) }
	return s
}

func TestReplyDates(t *testing.T) {
	store := &fakeStore{subscribers: map[int64]bool{}}
	s := newTestService(store)

	for _, text := range []string{"📅 Bugun", "bugun", "/today", "📅 Ertaga", "/tomorrow", "2025-02-01", "01.02.2025", "1/2/2025", "01-02-2025", "30-yanvar", "3 - Fevral"} {
		_, err := s.Reply(context.Background(), text)
		require.NoError(t, err, text)
	}

	assert.Equal(t, []string{
		"2025-01-28", "2025-01-28", "2025-01-28",
		"2025-01-29", "2025-01-29",
		"2025-02-01", "2025-02-01", "2025-02-01", "2025-02-01",
		"2025-01-30", "2025-02-03",
	}, store.days)
}

func TestReplyStatsAndHelp(t *testing.T) {
	store := &fakeStore{subscribers: map[int64]bool{1: true, 2: true}}
	s := newTestService(store)

	reply, err := s.Reply(context.Background(), "/stats")
	require.NoError(t, err)
	assert.Equal(t, "👥 <b>Jami obunachilar:</b> 2 ta.", reply)

	reply, err = s.Reply(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, templates.Help, reply)

	reply, err = s.Reply(context.Background(), "/unknown")
	require.NoError(t, err)
	assert.Equal(t, templates.Help, reply)

	reply, err = s.Reply(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, templates.Welcome, reply)
}

func TestReplyClubSearch(t *testing.T) {
	store := &fakeStore{subscribers: map[int64]bool{}}
	s := newTestService(store)

	reply, err := s.Reply(context.Background(), "<Barselona>")
	require.NoError(t, err)
	assert.Equal(t, "❌ <b>«Barselona»</b> boʻyicha jamoa topilmadi. Barselona, Liverpool, Manchester Yunayted kabi yozing.", reply)

	kickoff := time.Date(2025, 1, 26, 16, 30, 0, 0, time.UTC)
	store.games = []db.Game{{
		HomeClub:    &db.Club{NameOriginal: "Liverpool"},
		AwayClub:    &db.Club{NameOriginal: "Ipswich Town"},
		Competition: &db.Competition{NameOriginal: "Premier League"},
		MatchAt:     kickoff,
		Status:      db.StatusFinished,
	}}
	reply, err = s.Reply(context.Background(), "Liverpool")
	require.NoError(t, err)
	assert.Contains(t, reply, "Liverpool — Ipswich Town")
	assert.Equal(t, []string{"<Barselona>:10", "Liverpool:10"}, store.queries)
}

func TestParseDateRejectsInvalidDates(t *testing.T) {
	now := time.Date(2025, 1, 28, 5, 0, 0, 0, time.UTC)
	for _, text := range []string{"31-fevral", "0-mart", "12-foo", "2025-13-01", "hello"} {
		_, ok := ParseDate(text, now)
		assert.False(t, ok, text)
	}
}

func TestKeyboardLabels(t *testing.T) {
	// 2025-01-29 20:00 UTC is already the 30th in Tashkent.
	labels := KeyboardLabels(time.Date(2025, 1, 29, 20, 0, 0, 0, time.UTC))

	assert.Equal(t, [][]string{
		{TodayButton, TomorrowButton},
		{"1-fevral", "2-fevral", "3-fevral"},
		{"4-fevral", "5-fevral"},
	}, labels)
}
