package fixtures

import (
	"time"

	"football-matches-notifier-bot/db"
)

func mergeCompetition(c *db.Competition, code, nameOriginal string) *db.Competition {
	if c.Code != code {
		c.Code = code
	}
	if c.NameOriginal != nameOriginal {
		c.NameOriginal = nameOriginal
	}
	return c
}

// mergeClub refreshes the name; a known translation replaces name_uz, a missing one never clears it.
func mergeClub(c *db.Club, nameOriginal string, translate Translator) *db.Club {
	if c.NameOriginal != nameOriginal {
		c.NameOriginal = nameOriginal
	}
	if translate == nil {
		return c
	}
	if uz, ok := translate(nameOriginal); ok && (c.NameUz == nil || *c.NameUz != uz) {
		c.NameUz = &uz
	}
	return c
}

type gameFields struct {
	home        *db.Club
	away        *db.Club
	competition *db.Competition
	matchAt     time.Time
	matchAtUz   time.Time
	homeScore   *int
	awayScore   *int
	status      db.Status
	venue       *string
}

// mergeGame overwrites every field the feed owns. ReminderSentAt is not one of them.
func mergeGame(g *db.Game, in gameFields) *db.Game {
	g.HomeClub = in.home
	g.HomeClubId = in.home.Id
	g.AwayClub = in.away
	g.AwayClubId = in.away.Id
	g.Competition = in.competition
	g.CompetitionId = in.competition.Id
	g.MatchAt = in.matchAt
	matchAtUz := in.matchAtUz
	g.MatchAtUz = &matchAtUz
	g.HomeScore = in.homeScore
	g.AwayScore = in.awayScore
	g.Status = in.status
	g.Venue = in.venue
	return g
}
