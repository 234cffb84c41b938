package footballdata

import (
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// ID accepts both numeric and string identifiers; null decodes to an empty id.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return errors.Wrapf(err, "unexpected id %v", raw)
	}
	if f == float64(int64(f)) {
		*id = ID(strconv.FormatInt(int64(f), 10))
		return nil
	}
	*id = ID(raw)
	return nil
}

type Team struct {
	Id   ID     `json:"id"`
	Name string `json:"name"`
}

type Competition struct {
	Id   ID     `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type ScoreLine struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type Score struct {
	FullTime ScoreLine `json:"fullTime"`
}

type Match struct {
	Id          ID          `json:"id"`
	UtcDate     string      `json:"utcDate"`
	Status      string      `json:"status"`
	Venue       string      `json:"venue"`
	HomeTeam    Team        `json:"homeTeam"`
	AwayTeam    Team        `json:"awayTeam"`
	Competition Competition `json:"competition"`
	Score       Score       `json:"score"`
}

type matchesResponse struct {
	Matches []Match `json:"matches"`
}
