package templates

import _ "embed"

var (
	//go:embed resource/welcome.txt
	Welcome string
	//go:embed resource/help.txt
	Help string
	//go:embed resource/unexpectedError.txt
	UnexpectedError string
	//go:embed resource/stats.txt
	Stats string
	//go:embed resource/clubNotFound.txt
	ClubNotFound string
	//go:embed resource/reminder.txt
	Reminder string
	//go:embed resource/dayHeader.txt
	DayHeader string
	//go:embed resource/noGames.txt
	NoGames string
	//go:embed resource/clubGamesHeader.txt
	ClubGamesHeader string
)

const (
	Separator       = "━━━━━━━━━━━━━━━━━━━━"
	LeagueSeparator = "──────────────────"
	// MessageLimit keeps messages below the chat platform's 4096 character cap.
	MessageLimit = 4000
)

var Months = []string{
	"yanvar", "fevral", "mart", "aprel", "may", "iyun",
	"iyul", "avgust", "sentabr", "oktabr", "noyabr", "dekabr",
}
