package fixtures

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"football-matches-notifier-bot/db"
	"football-matches-notifier-bot/timezone"
)

// WindowDays is the length of one sync window, both ends inclusive.
const WindowDays = 7

const unknownCompetitionCode = "unknown"

var errNoKickoff = errors.New("no authoritative kickoff")

type Syncer struct {
	feed      Feed
	store     Store
	translate Translator
	logger    *zap.Logger
	now       func() time.Time
}

func NewSyncer(feed Feed, store Store, translate Translator, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		feed:      feed,
		store:     store,
		translate: translate,
		logger:    logger,
		now:       time.Now,
	}
}

// run holds the entities resolved during one SyncWeek call. It is discarded afterwards.
type run struct {
	ctx          context.Context
	competitions map[string]*db.Competition
	clubs        map[string]*db.Club
	games        map[string]*db.Game
	queued       map[any]bool
	batch        db.Batch
	result       Result
}

func newRun(ctx context.Context) *run {
	return &run{
		ctx:          ctx,
		competitions: map[string]*db.Competition{},
		clubs:        map[string]*db.Club{},
		games:        map[string]*db.Game{},
		queued:       map[any]bool{},
		result:       Result{Errors: []string{}},
	}
}

func (r *run) fail(fixtureId string, format string, args ...any) {
	r.result.Errors = append(r.result.Errors, fmt.Sprintf("fixture %v: ", fixtureId)+fmt.Sprintf(format, args...))
	r.result.Skipped++
}

// SyncWeek reconciles the window [from, from+6] with the feed. A nil from means today in Tashkent.
func (s *Syncer) SyncWeek(ctx context.Context, from *time.Time) Result {
	start := timezone.Today(s.now())
	if from != nil {
		start = timezone.DayStart(*from)
	}
	last := timezone.AddDays(start, WindowDays-1)
	end := timezone.AddDays(last, 1)

	r := newRun(ctx)
	items := s.feed.FetchWindow(ctx, start, last)
	s.logger.Info("fetched fixtures",
		zap.String("from", timezone.FormatDate(start)),
		zap.String("to", timezone.FormatDate(last)),
		zap.Int("count", len(items)))

	for _, item := range items {
		s.reconcile(r, item, start, end)
	}

	if err := s.store.SaveBatch(ctx, &r.batch); err != nil {
		s.logger.Error("unable to save fixtures", zap.Error(err))
		r.result.Errors = append(r.result.Errors, "unable to save fixtures: "+err.Error())
	}
	s.logger.Info("fixtures synced",
		zap.Int("created", r.result.Created),
		zap.Int("updated", r.result.Updated),
		zap.Int("skipped", r.result.Skipped),
		zap.Int("errors", len(r.result.Errors)))
	return r.result
}

func (s *Syncer) reconcile(r *run, item Fixture, start, end time.Time) {
	if item.Id == "" {
		r.result.Skipped++
		return
	}
	if item.HomeTeamId == "" || item.AwayTeamId == "" {
		s.logger.Warn("fixture without team id", zap.String("fixture_id", item.Id))
		r.fail(item.Id, "missing team id")
		return
	}

	competition, err := s.competition(r, item)
	if err != nil {
		s.logger.Warn("unable to resolve competition", zap.String("fixture_id", item.Id), zap.Error(err))
		r.fail(item.Id, "%v", err)
		return
	}
	home, err := s.club(r, item.HomeTeamId, item.HomeTeamName)
	if err != nil {
		s.logger.Warn("unable to resolve home club", zap.String("fixture_id", item.Id), zap.Error(err))
		r.fail(item.Id, "%v", err)
		return
	}
	away, err := s.club(r, item.AwayTeamId, item.AwayTeamName)
	if err != nil {
		s.logger.Warn("unable to resolve away club", zap.String("fixture_id", item.Id), zap.Error(err))
		r.fail(item.Id, "%v", err)
		return
	}

	kickoff, err := ParseKickoff(item.KickoffUTC)
	if err != nil {
		s.logger.Warn("fixture without kickoff", zap.String("fixture_id", item.Id), zap.String("utc_date", item.KickoffUTC))
		r.fail(item.Id, "invalid kickoff %q", item.KickoffUTC)
		return
	}
	if kickoff.Before(start) || !kickoff.Before(end) {
		s.logger.Warn("fixture outside window", zap.String("fixture_id", item.Id), zap.Time("kickoff", kickoff))
		r.fail(item.Id, "kickoff %v is outside %v..%v", kickoff.Format(time.RFC3339), timezone.FormatDate(start), timezone.FormatDate(end.Add(-time.Second)))
		return
	}

	game, found, err := s.game(r, item.Id)
	if err != nil {
		s.logger.Warn("unable to resolve game", zap.String("fixture_id", item.Id), zap.Error(err))
		r.fail(item.Id, "%v", err)
		return
	}
	var venue *string
	if v := strings.TrimSpace(item.Venue); v != "" {
		venue = &v
	}
	status := MapStatus(item.Status)
	if !status.Known() {
		s.logger.Warn("unknown fixture status stored as is", zap.String("fixture_id", item.Id), zap.String("status", item.Status))
	}
	mergeGame(game, gameFields{
		home:        home,
		away:        away,
		competition: competition,
		matchAt:     kickoff,
		matchAtUz:   timezone.Local(kickoff),
		homeScore:   item.HomeScore,
		awayScore:   item.AwayScore,
		status:      status,
		venue:       venue,
	})
	r.enqueue(game)
	if found {
		r.result.Updated++
	} else {
		r.result.Created++
	}
}

func competitionExternalId(item Fixture) string {
	if item.CompetitionId != "" {
		return item.CompetitionId
	}
	code := item.CompetitionCode
	if code == "" {
		code = unknownCompetitionCode
	}
	return "code_" + code
}

func (s *Syncer) competition(r *run, item Fixture) (*db.Competition, error) {
	externalId := competitionExternalId(item)
	name := item.CompetitionName
	if name == "" {
		name = item.CompetitionCode
	}
	c, ok := r.competitions[externalId]
	if !ok {
		stored, err := s.store.FindCompetition(r.ctx, externalId)
		switch {
		case errors.Is(err, db.ErrNotFound):
			c = &db.Competition{ExternalId: externalId}
		case err != nil:
			return nil, err
		default:
			c = stored
		}
		r.competitions[externalId] = c
	}
	mergeCompetition(c, item.CompetitionCode, name)
	r.enqueue(c)
	return c, nil
}

func (s *Syncer) club(r *run, externalId, name string) (*db.Club, error) {
	c, ok := r.clubs[externalId]
	if !ok {
		stored, err := s.store.FindClub(r.ctx, externalId)
		switch {
		case errors.Is(err, db.ErrNotFound):
			c = &db.Club{ExternalId: externalId}
		case err != nil:
			return nil, err
		default:
			c = stored
		}
		r.clubs[externalId] = c
	}
	mergeClub(c, name, s.translate)
	r.enqueue(c)
	return c, nil
}

// game reports whether the game existed before this fixture, in the store or earlier in the run.
func (s *Syncer) game(r *run, externalId string) (*db.Game, bool, error) {
	if g, ok := r.games[externalId]; ok {
		return g, true, nil
	}
	stored, err := s.store.FindGame(r.ctx, externalId)
	if errors.Is(err, db.ErrNotFound) {
		g := &db.Game{ExternalId: externalId}
		r.games[externalId] = g
		return g, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	r.games[externalId] = stored
	return stored, true, nil
}

func (r *run) enqueue(entity any) {
	if r.queued[entity] {
		return
	}
	r.queued[entity] = true
	switch e := entity.(type) {
	case *db.Competition:
		r.batch.Competitions = append(r.batch.Competitions, e)
	case *db.Club:
		r.batch.Clubs = append(r.batch.Clubs, e)
	case *db.Game:
		r.batch.Games = append(r.batch.Games, e)
	}
}

var kickoffLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseKickoff reads the feed's absolute kickoff. Values without a zone are UTC.
func ParseKickoff(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if !strings.Contains(value, "T") {
		return time.Time{}, errNoKickoff
	}
	for _, layout := range kickoffLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.Wrapf(errNoKickoff, "unparsable %q", value)
}
