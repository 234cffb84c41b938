package fixtures

import (
	"strings"

	"football-matches-notifier-bot/db"
)

var feedStatuses = map[string]db.Status{
	"FINISHED":  db.StatusFinished,
	"TIMED":     db.StatusNotStarted,
	"SCHEDULED": db.StatusNotStarted,
	"IN_PLAY":   db.StatusLive,
	"PAUSED":    db.StatusLive,
	"POSTPONED": db.StatusCancelled,
	"SUSPENDED": db.StatusCancelled,
	"CANCELLED": db.StatusCancelled,
}

// MapStatus translates the feed vocabulary into a game status.
// Unrecognized values pass through verbatim (Known reports false for them), empty means not started.
func MapStatus(feedStatus string) db.Status {
	if feedStatus == "" {
		return db.StatusNotStarted
	}
	if status, ok := feedStatuses[strings.ToUpper(feedStatus)]; ok {
		return status
	}
	return db.Status(feedStatus)
}
