package db

import (
	"time"

	"github.com/uptrace/bun"
)

// Status is the normalized state of a game.
type Status string

const (
	StatusNotStarted Status = "NS"
	StatusLive       Status = "LIVE"
	StatusFinished   Status = "FT"
	StatusCancelled  Status = "CANC"
)

func (s Status) Known() bool {
	switch s {
	case StatusNotStarted, StatusLive, StatusFinished, StatusCancelled:
		return true
	}
	return false
}

type Club struct {
	bun.BaseModel `bun:"table:clubs,alias:club"`

	Id           int64 `bun:",pk,autoincrement"`
	ExternalId   string
	NameOriginal string
	NameUz       *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName prefers the Uzbek name when one is known.
func (c *Club) DisplayName() string {
	if c == nil {
		return ""
	}
	if c.NameUz != nil {
		return *c.NameUz
	}
	return c.NameOriginal
}

type Competition struct {
	bun.BaseModel `bun:"table:competitions,alias:competition"`

	Id           int64 `bun:",pk,autoincrement"`
	ExternalId   string
	Code         string
	NameOriginal string
	NameUz       *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Game struct {
	bun.BaseModel `bun:"table:games,alias:game"`

	Id            int64 `bun:",pk,autoincrement"`
	ExternalId    string
	HomeClubId    int64
	HomeClub      *Club `bun:"rel:belongs-to,join:home_club_id=id"`
	AwayClubId    int64
	AwayClub      *Club `bun:"rel:belongs-to,join:away_club_id=id"`
	CompetitionId int64
	Competition   *Competition `bun:"rel:belongs-to,join:competition_id=id"`
	MatchAt       time.Time
	MatchAtUz     *time.Time
	HomeScore     *int
	AwayScore     *int
	Status        Status
	Venue         *string
	// Written only by the notifier, never by the fixture sync.
	ReminderSentAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Kickoff returns the kickoff on the given wall clock, preferring the stored local time.
func (g *Game) Kickoff(location *time.Location) time.Time {
	if g.MatchAtUz != nil {
		return g.MatchAtUz.In(location)
	}
	return g.MatchAt.In(location)
}

type Subscriber struct {
	bun.BaseModel `bun:"table:subscribers,alias:subscriber"`

	Id        int64 `bun:",pk,autoincrement"`
	ChatId    int64
	IsActive  bool `bun:",notnull"`
	CreatedAt time.Time
}

// BroadcastLog marks the daily digest of BroadcastDate (YYYY-MM-DD, Tashkent) as sent.
type BroadcastLog struct {
	bun.BaseModel `bun:"table:broadcast_logs,alias:broadcast_log"`

	Id            int64 `bun:",pk,autoincrement"`
	BroadcastDate string
	SentAt        time.Time
}

// Batch collects the entities touched by one fixture sync so they can be written at once.
type Batch struct {
	Competitions []*Competition
	Clubs        []*Club
	Games        []*Game
}

func (b *Batch) Empty() bool {
	return len(b.Competitions) == 0 && len(b.Clubs) == 0 && len(b.Games) == 0
}
