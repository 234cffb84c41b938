package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"football-matches-notifier-bot/timezone"
)

var (
	ErrNotFound = errors.New("entity not found")
)

type DB struct {
	db      *bun.DB
	timeout time.Duration
	now     func() time.Time
}

const defaultTimeout = time.Minute

func New(address, user, password, database string) *DB {
	connector := pgdriver.NewConnector(
		pgdriver.WithInsecure(true),
		pgdriver.WithAddr(address),
		pgdriver.WithUser(user),
		pgdriver.WithPassword(password),
		pgdriver.WithDatabase(database),
	)
	sqldb := sql.OpenDB(connector)
	db := bun.NewDB(sqldb, pgdialect.New())
	return &DB{db: db, timeout: defaultTimeout, now: time.Now}
}

// SetTimeout bounds every store call. Non-positive values keep the current timeout.
func (d *DB) SetTimeout(duration time.Duration) {
	if duration <= 0 {
		return
	}
	d.timeout = duration
}

func (d *DB) EnableDebug() {
	d.db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) FindCompetition(ctx context.Context, externalId string) (*Competition, error) {
	var c Competition
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	err := d.db.NewSelect().Model(&c).Where("external_id = ?", externalId).Limit(1).Scan(ctx)
	if err != nil && errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error during querying competition %v", externalId)
	}
	return &c, nil
}

func (d *DB) FindClub(ctx context.Context, externalId string) (*Club, error) {
	var c Club
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	err := d.db.NewSelect().Model(&c).Where("external_id = ?", externalId).Limit(1).Scan(ctx)
	if err != nil && errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error during querying club %v", externalId)
	}
	return &c, nil
}

func (d *DB) FindGame(ctx context.Context, externalId string) (*Game, error) {
	var g Game
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	err := d.db.NewSelect().Model(&g).Where("game.external_id = ?", externalId).Limit(1).Scan(ctx)
	if err != nil && errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error during querying game %v", externalId)
	}
	return &g, nil
}

// SaveBatch writes every pending create and update of a sync run in one transaction.
// Competitions and clubs go first so new games can reference their generated ids.
func (d *DB) SaveBatch(ctx context.Context, batch *Batch) error {
	if batch == nil || batch.Empty() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	now := d.now()
	return d.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, c := range batch.Competitions {
			if err := saveCompetition(ctx, tx, c, now); err != nil {
				return err
			}
		}
		for _, c := range batch.Clubs {
			if err := saveClub(ctx, tx, c, now); err != nil {
				return err
			}
		}
		for _, g := range batch.Games {
			if err := saveGame(ctx, tx, g, now); err != nil {
				return err
			}
		}
		return nil
	})
}

func saveCompetition(ctx context.Context, tx bun.Tx, c *Competition, now time.Time) error {
	c.UpdatedAt = now
	if c.Id != 0 {
		_, err := tx.NewUpdate().Model(c).ExcludeColumn("created_at").WherePK().Exec(ctx)
		return errors.Wrapf(err, "error during updating competition %v", c.ExternalId)
	}
	c.CreatedAt = now
	_, err := tx.NewInsert().Model(c).Returning("id").Exec(ctx)
	return errors.Wrapf(err, "error during adding competition %v", c.ExternalId)
}

func saveClub(ctx context.Context, tx bun.Tx, c *Club, now time.Time) error {
	c.UpdatedAt = now
	if c.Id != 0 {
		_, err := tx.NewUpdate().Model(c).ExcludeColumn("created_at").WherePK().Exec(ctx)
		return errors.Wrapf(err, "error during updating club %v", c.ExternalId)
	}
	c.CreatedAt = now
	_, err := tx.NewInsert().Model(c).Returning("id").Exec(ctx)
	return errors.Wrapf(err, "error during adding club %v", c.ExternalId)
}

func saveGame(ctx context.Context, tx bun.Tx, g *Game, now time.Time) error {
	if g.HomeClub != nil {
		g.HomeClubId = g.HomeClub.Id
	}
	if g.AwayClub != nil {
		g.AwayClubId = g.AwayClub.Id
	}
	if g.Competition != nil {
		g.CompetitionId = g.Competition.Id
	}
	g.UpdatedAt = now
	if g.Id != 0 {
		_, err := tx.NewUpdate().
			Model(g).
			ExcludeColumn("created_at", "reminder_sent_at").
			WherePK().
			Exec(ctx)
		return errors.Wrapf(err, "error during updating game %v", g.ExternalId)
	}
	g.CreatedAt = now
	_, err := tx.NewInsert().Model(g).ExcludeColumn("reminder_sent_at").Returning("id").Exec(ctx)
	return errors.Wrapf(err, "error during adding game %v", g.ExternalId)
}

func (d *DB) selectGames(games *[]Game) *bun.SelectQuery {
	return d.db.NewSelect().
		Model(games).
		Relation("HomeClub").
		Relation("AwayClub").
		Relation("Competition")
}

// GamesOnDate lists games whose UTC kickoff falls on the calendar date of day.
func (d *DB) GamesOnDate(ctx context.Context, day time.Time) ([]Game, error) {
	start, end := timezone.UTCDay(day)
	var games []Game
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	err := d.selectGames(&games).
		Where("game.match_at >= ?", start).
		Where("game.match_at < ?", end).
		OrderExpr("game.match_at ASC").
		OrderExpr("competition.name_original ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error during querying games by date")
	}
	return games, nil
}

// GamesStartingBetween lists games without a reminder whose kickoff is in [start, end).
func (d *DB) GamesStartingBetween(ctx context.Context, start, end time.Time) ([]Game, error) {
	var games []Game
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	err := d.selectGames(&games).
		Where("game.reminder_sent_at IS NULL").
		Where("COALESCE(game.match_at_uz, game.match_at) >= ?", start).
		Where("COALESCE(game.match_at_uz, game.match_at) < ?", end).
		OrderExpr("game.match_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error during querying upcoming games")
	}
	return games, nil
}

// MarkReminderSent flips reminder_sent_at once; an already marked game is left untouched.
func (d *DB) MarkReminderSent(ctx context.Context, gameId int64, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	_, err := d.db.NewUpdate().
		Model((*Game)(nil)).
		Set("reminder_sent_at = ?", at).
		Where("id = ?", gameId).
		Where("reminder_sent_at IS NULL").
		Exec(ctx)
	return errors.Wrapf(err, "error during marking reminder of game %v", gameId)
}

// LastGamesByClubName finds the latest games of clubs whose original or Uzbek name contains query.
func (d *DB) LastGamesByClubName(ctx context.Context, query string, limit int) ([]Game, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"
	var games []Game
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	err := d.selectGames(&games).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("home_club.name_original ILIKE ?", pattern).
				WhereOr("home_club.name_uz ILIKE ?", pattern).
				WhereOr("away_club.name_original ILIKE ?", pattern).
				WhereOr("away_club.name_uz ILIKE ?", pattern)
		}).
		OrderExpr("game.match_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error during searching games by club name")
	}
	return games, nil
}

func (d *DB) BroadcastExists(ctx context.Context, date string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.db.NewSelect().
		Model((*BroadcastLog)(nil)).
		Where("broadcast_date = ?", date).
		Exists(ctx)
}

func (d *DB) AddBroadcast(ctx context.Context, l BroadcastLog) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	_, err := d.db.NewInsert().Model(&l).Exec(ctx)
	if err != nil {
		return errors.Wrapf(err, "error during adding broadcast log for %v", l.BroadcastDate)
	}
	return nil
}

func (d *DB) ActiveChatIds(ctx context.Context) ([]int64, error) {
	var ids []int64
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	err := d.db.NewSelect().
		Model((*Subscriber)(nil)).
		Column("chat_id").
		Where("is_active = ?", true).
		OrderExpr("id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, errors.Wrap(err, "error during querying active subscribers")
	}
	return ids, nil
}

func (d *DB) CountActiveSubscribers(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.db.NewSelect().
		Model((*Subscriber)(nil)).
		Where("is_active = ?", true).
		Count(ctx)
}

// AddSubscriber creates the subscriber or reactivates a previously deactivated one.
func (d *DB) AddSubscriber(ctx context.Context, chatId int64) error {
	s := Subscriber{
		ChatId:    chatId,
		IsActive:  true,
		CreatedAt: d.now(),
	}
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	_, err := d.db.NewInsert().
		Model(&s).
		On("CONFLICT (chat_id) DO UPDATE").
		Set("is_active = TRUE").
		Exec(ctx)
	if err != nil {
		return errors.Wrapf(err, "error during adding subscriber %v", chatId)
	}
	return nil
}

func (d *DB) DeactivateSubscriber(ctx context.Context, chatId int64) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	_, err := d.db.NewUpdate().
		Model((*Subscriber)(nil)).
		Set("is_active = ?", false).
		Where("chat_id = ?", chatId).
		Where("is_active = ?", true).
		Exec(ctx)
	return errors.Wrapf(err, "error during deactivating subscriber %v", chatId)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
