package footballdata

import (
	"context"
	"time"

	"go.uber.org/zap"

	"football-matches-notifier-bot/fixtures"
	"football-matches-notifier-bot/timezone"
)

// FetchWindow collects the fixtures of every tracked competition, one request per code.
// A failing competition is logged and contributes nothing.
func (s *Service) FetchWindow(ctx context.Context, from, to time.Time) []fixtures.Fixture {
	if s.token == "" {
		s.logger.Warn("football-data token is not configured")
		return nil
	}
	var result []fixtures.Fixture
	for _, code := range s.competitions {
		if ctx.Err() != nil {
			break
		}
		matches, err := s.Matches(ctx, code, from, to)
		if err != nil {
			s.logger.Warn("unable to fetch competition", zap.String("competition", code), zap.Error(err))
			continue
		}
		for _, m := range matches {
			result = append(result, toFixture(m, code, from))
		}
	}
	return result
}

func toFixture(m Match, requestedCode string, from time.Time) fixtures.Fixture {
	code := requestedCode
	if code == "" {
		code = m.Competition.Code
	}
	f := fixtures.Fixture{
		Id:              string(m.Id),
		HomeTeamId:      string(m.HomeTeam.Id),
		HomeTeamName:    m.HomeTeam.Name,
		AwayTeamId:      string(m.AwayTeam.Id),
		AwayTeamName:    m.AwayTeam.Name,
		CompetitionId:   string(m.Competition.Id),
		CompetitionCode: code,
		CompetitionName: m.Competition.Name,
		KickoffUTC:      m.UtcDate,
		NominalDate:     timezone.FormatDate(from),
		Status:          m.Status,
		Venue:           m.Venue,
	}
	if len(m.UtcDate) >= len(timezone.DateLayout) {
		if _, err := time.Parse(timezone.DateLayout, m.UtcDate[:len(timezone.DateLayout)]); err == nil {
			f.NominalDate = m.UtcDate[:len(timezone.DateLayout)]
		}
	}
	if kickoff, err := fixtures.ParseKickoff(m.UtcDate); err == nil {
		f.NominalTime = timezone.FormatTime(kickoff)
	}
	if m.Score.FullTime.Home != nil && m.Score.FullTime.Away != nil {
		f.HomeScore = m.Score.FullTime.Home
		f.AwayScore = m.Score.FullTime.Away
	}
	return f
}
