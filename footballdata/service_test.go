package footballdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"football-matches-notifier-bot/timezone"
)

const plMatches = `{
  "matches": [
    {
      "id": 99,
      "utcDate": "2025-01-28T14:30:00Z",
      "status": "SCHEDULED",
      "venue": "Anfield",
      "homeTeam": {"id": 64, "name": "Liverpool FC"},
      "awayTeam": {"id": "61", "name": "Chelsea FC"},
      "competition": {"id": 2021, "code": "PL", "name": "Premier League"},
      "score": {"fullTime": {"home": null, "away": null}}
    },
    {
      "id": 100,
      "utcDate": "2025-01-29T20:00:00Z",
      "status": "FINISHED",
      "venue": null,
      "homeTeam": {"id": 57, "name": "Arsenal FC"},
      "awayTeam": {"id": null, "name": null},
      "competition": {"id": 2021, "code": "", "name": "Premier League"},
      "score": {"fullTime": {"home": 2, "away": 1}}
    }
  ]
}`

func TestFetchWindow(t *testing.T) {
	var requested []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get(AuthHeader))
		assert.Equal(t, "2025-01-28", r.URL.Query().Get("dateFrom"))
		assert.Equal(t, "2025-02-03", r.URL.Query().Get("dateTo"))
		switch r.URL.Path {
		case "/competitions/PL/matches":
			w.Write([]byte(plMatches))
		case "/competitions/PD/matches":
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			w.Write([]byte(`{"matches": []}`))
		}
	}))
	defer server.Close()

	from, err := timezone.ParseDate("2025-01-28")
	require.NoError(t, err)
	s := NewService("secret", WithBaseURL(server.URL+"/"), WithHTTPClient(server.Client()))

	got := s.FetchWindow(context.Background(), from, timezone.AddDays(from, 6))

	assert.Equal(t, []string{
		"/competitions/PL/matches",
		"/competitions/PD/matches",
		"/competitions/BL1/matches",
		"/competitions/SA/matches",
		"/competitions/FL1/matches",
		"/competitions/CL/matches",
	}, requested)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "99", first.Id)
	assert.Equal(t, "64", first.HomeTeamId)
	assert.Equal(t, "61", first.AwayTeamId)
	assert.Equal(t, "2021", first.CompetitionId)
	assert.Equal(t, "PL", first.CompetitionCode)
	assert.Equal(t, "2025-01-28T14:30:00Z", first.KickoffUTC)
	assert.Equal(t, "2025-01-28", first.NominalDate)
	assert.Equal(t, "19:30", first.NominalTime)
	assert.Equal(t, "Anfield", first.Venue)
	assert.Nil(t, first.HomeScore)

	second := got[1]
	assert.Equal(t, "", second.AwayTeamId)
	assert.Equal(t, "PL", second.CompetitionCode)
	require.NotNil(t, second.HomeScore)
	assert.Equal(t, 2, *second.HomeScore)
	assert.Equal(t, 1, *second.AwayScore)
	assert.Equal(t, "", second.Venue)
}

func TestFetchWindowWithoutToken(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	s := NewService(" ", WithBaseURL(server.URL))
	from, _ := timezone.ParseDate("2025-01-28")

	assert.Empty(t, s.FetchWindow(context.Background(), from, from))
	assert.Zero(t, calls)
}

func TestMatchesUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	s := NewService("secret", WithBaseURL(server.URL), WithCompetitions("CL"))
	from, _ := timezone.ParseDate("2025-01-28")

	_, err := s.Matches(context.Background(), "CL", from, from)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
}

func TestIDUnmarshal(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, sonic.Unmarshal([]byte(`{"a": 123, "b": " 45 ", "c": null}`), &v))
	assert.Equal(t, ID("123"), v.A)
	assert.Equal(t, ID("45"), v.B)
	assert.Equal(t, ID(""), v.C)
}
