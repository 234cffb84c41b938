package fixtures

import (
	"context"
	"time"

	"football-matches-notifier-bot/db"
)

// Fixture is one match as the remote feed reports it.
type Fixture struct {
	Id              string
	HomeTeamId      string
	HomeTeamName    string
	AwayTeamId      string
	AwayTeamName    string
	CompetitionId   string
	CompetitionCode string
	CompetitionName string
	// KickoffUTC is the feed's absolute kickoff timestamp (ISO-8601).
	KickoffUTC string
	// NominalDate and NominalTime describe the matchday slot and are never used to place a game.
	NominalDate string
	NominalTime string
	Status      string
	HomeScore   *int
	AwayScore   *int
	Venue       string
}

type Result struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

type Feed interface {
	// FetchWindow returns every fixture of the tracked competitions between two local dates, inclusive.
	FetchWindow(ctx context.Context, from, to time.Time) []Fixture
}

type Store interface {
	FindCompetition(ctx context.Context, externalId string) (*db.Competition, error)
	FindClub(ctx context.Context, externalId string) (*db.Club, error)
	FindGame(ctx context.Context, externalId string) (*db.Game, error)
	SaveBatch(ctx context.Context, batch *db.Batch) error
}

// Translator maps an original club name to its Uzbek display name.
type Translator func(nameOriginal string) (string, bool)
