package timezone

import (
	"strings"
	"time"
	_ "time/tzdata"
)

// Name is the civil time zone every schedule and message is expressed in.
const Name = "Asia/Tashkent"

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var location = loadLocation()

func loadLocation() *time.Location {
	location, err := time.LoadLocation(Name)
	if err != nil {
		// Tashkent has no DST, a fixed offset is exact.
		return time.FixedZone("UZT", 5*60*60)
	}
	return location
}

func Location() *time.Location {
	return location
}

// Local re-expresses an instant on the Tashkent wall clock.
func Local(t time.Time) time.Time {
	return t.In(location)
}

// DayStart returns local midnight of the civil date t falls on.
func DayStart(t time.Time) time.Time {
	l := t.In(location)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, location)
}

// AddDays moves a local midnight by whole civil days.
func AddDays(day time.Time, days int) time.Time {
	l := day.In(location)
	return time.Date(l.Year(), l.Month(), l.Day()+days, 0, 0, 0, 0, location)
}

func Today(now time.Time) time.Time {
	return DayStart(now)
}

func Tomorrow(now time.Time) time.Time {
	return AddDays(DayStart(now), 1)
}

// FormatDate renders the civil date as used in ledger keys and feed queries.
func FormatDate(t time.Time) string {
	return t.In(location).Format(DateLayout)
}

func FormatTime(t time.Time) string {
	return t.In(location).Format(TimeLayout)
}

func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(value), location)
}

// UTCDay returns the UTC calendar day carrying the same date as the local day.
func UTCDay(day time.Time) (time.Time, time.Time) {
	l := day.In(location)
	start := time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
