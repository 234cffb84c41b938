package fixtures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"football-matches-notifier-bot/db"
)

func TestMapStatus(t *testing.T) {
	cases := map[string]db.Status{
		"FINISHED":  db.StatusFinished,
		"TIMED":     db.StatusNotStarted,
		"SCHEDULED": db.StatusNotStarted,
		"scheduled": db.StatusNotStarted,
		"IN_PLAY":   db.StatusLive,
		"PAUSED":    db.StatusLive,
		"POSTPONED": db.StatusCancelled,
		"SUSPENDED": db.StatusCancelled,
		"CANCELLED": db.StatusCancelled,
		"":          db.StatusNotStarted,
		"AWARDED":   db.Status("AWARDED"),
	}
	for in, want := range cases {
		assert.Equal(t, want, MapStatus(in), in)
	}
	assert.False(t, MapStatus("AWARDED").Known())
}

func TestParseKickoff(t *testing.T) {
	want := time.Date(2025, 1, 28, 14, 30, 0, 0, time.UTC)
	for _, value := range []string{
		"2025-01-28T14:30:00Z",
		"2025-01-28T19:30:00+05:00",
		"2025-01-28T14:30:00.000Z",
		"2025-01-28T14:30:00",
		"2025-01-28T14:30",
	} {
		got, err := ParseKickoff(value)
		require.NoError(t, err, value)
		assert.True(t, want.Equal(got), value)
	}

	for _, value := range []string{"", "2025-01-28", "14:30", "2025-01-28Tnoon"} {
		_, err := ParseKickoff(value)
		assert.Error(t, err, value)
	}
}
