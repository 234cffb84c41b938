package notify

import (
	"fmt"
	"strings"
	"time"

	"football-matches-notifier-bot/db"
	"football-matches-notifier-bot/templates"
	"football-matches-notifier-bot/timezone"
)

// DayLabel renders a date the way subscribers read it, e.g. "28-yanvar".
func DayLabel(day time.Time) string {
	l := timezone.Local(day)
	return fmt.Sprintf("%d-%v", l.Day(), templates.Months[l.Month()-1])
}

func StatusIcon(status db.Status) string {
	switch strings.ToUpper(string(status)) {
	case "FT":
		return "✅"
	case "NS", "TBD":
		return ""
	case "LIVE", "1H", "2H", "HT":
		return "🔴"
	case "PST", "CANC":
		return "🚫"
	case "":
		return ""
	}
	return fmt.Sprintf(" (%v)", status)
}

func competitionName(g *db.Game) string {
	if g.Competition == nil {
		return ""
	}
	return g.Competition.NameOriginal
}

// FormatDay lists the games of a day grouped by competition, in first-seen order.
func FormatDay(day time.Time, games []db.Game) string {
	header := fmt.Sprintf(templates.DayHeader, fmt.Sprintf("%v %d", DayLabel(day), timezone.Local(day).Year()))
	if len(games) == 0 {
		return header + "\n\n" + templates.NoGames
	}

	var order []string
	byCompetition := map[string][]*db.Game{}
	for i := range games {
		name := competitionName(&games[i])
		if name == "" {
			name = "—"
		}
		if _, ok := byCompetition[name]; !ok {
			order = append(order, name)
		}
		byCompetition[name] = append(byCompetition[name], &games[i])
	}

	lines := []string{header, ""}
	for _, name := range order {
		lines = append(lines, fmt.Sprintf("▸ <b>%v</b>", name), templates.LeagueSeparator)
		for _, g := range byCompetition[name] {
			lines = append(lines, fmt.Sprintf("  🕐 <code>%v</code>  %v — %v  %v",
				timezone.FormatTime(g.Kickoff(timezone.Location())),
				g.HomeClub.DisplayName(),
				g.AwayClub.DisplayName(),
				StatusIcon(g.Status)))
		}
		lines = append(lines, "")
	}
	lines = append(lines, templates.Separator)
	return Truncate(strings.Join(lines, "\n"))
}

func FormatReminder(g *db.Game) string {
	return fmt.Sprintf(templates.Reminder,
		g.HomeClub.DisplayName(),
		g.AwayClub.DisplayName(),
		timezone.FormatTime(g.Kickoff(timezone.Location())),
		competitionName(g))
}

var markupStripper = strings.NewReplacer("<", "", ">", "")

// StripMarkup removes angle brackets so user input can be echoed in HTML messages.
func StripMarkup(s string) string {
	return markupStripper.Replace(s)
}

// FormatClubGames lists the latest games found for a club query, newest first.
func FormatClubGames(query string, games []db.Game) string {
	lines := []string{fmt.Sprintf(templates.ClubGamesHeader, StripMarkup(query)), ""}
	for i := range games {
		g := &games[i]
		kickoff := g.Kickoff(timezone.Location())
		score := " — "
		if g.HomeScore != nil && g.AwayScore != nil {
			score = fmt.Sprintf(" <b>(%d:%d)</b> ", *g.HomeScore, *g.AwayScore)
		}
		league := ""
		if name := competitionName(g); name != "" {
			league = " • " + name
		}
		lines = append(lines, fmt.Sprintf("▸ <code>%v</code> <code>%v</code>  %v — %v%v%v%v",
			kickoff.Format("02.01.2006"),
			kickoff.Format(timezone.TimeLayout),
			g.HomeClub.DisplayName(),
			g.AwayClub.DisplayName(),
			score,
			StatusIcon(g.Status),
			league))
	}
	lines = append(lines, "", templates.Separator)
	return Truncate(strings.Join(lines, "\n"))
}

// Truncate cuts a message to the length limit, counted in characters.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= templates.MessageLimit {
		return text
	}
	return string(runes[:templates.MessageLimit-3]) + "…"
}
