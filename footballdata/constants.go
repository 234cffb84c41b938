package footballdata

import "time"

const (
	DefaultBaseURL = "https://api.football-data.org/v4"
	AuthHeader     = "X-Auth-Token"
	matchesPath    = "/competitions/%v/matches"
	dateFromParam  = "dateFrom"
	dateToParam    = "dateTo"
	requestTimeout = time.Second * 20
)

// CompetitionCodes are the tracked competitions: the five top domestic leagues and the Champions League.
var CompetitionCodes = []string{"PL", "PD", "BL1", "SA", "FL1", "CL"}
