package queryengine

import (
	"strings"
	"time"
)

// DateRange is a half-open [From, To) interval in unix seconds. Zero values
// mean unbounded.
type DateRange struct {
	From int64
	To   int64
}

func (r DateRange) IsZero() bool {
	return r.From == 0 && r.To == 0
}

// relativeDatePhrases maps a phrase to a resolver producing a concrete range
// anchored on the supplied clock. Longer phrases are matched before shorter
// ones so "last week" is not consumed as "week".
var relativeDatePhrases = []struct {
	phrase  string
	resolve func(now time.Time) DateRange
}{
	{"last week", func(now time.Time) DateRange {
		start := startOfWeek(now).AddDate(0, 0, -7)
		return DateRange{From: start.Unix(), To: start.AddDate(0, 0, 7).Unix()}
	}},
	{"this week", func(now time.Time) DateRange {
		start := startOfWeek(now)
		return DateRange{From: start.Unix(), To: start.AddDate(0, 0, 7).Unix()}
	}},
	{"yesterday", func(now time.Time) DateRange {
		start := startOfDay(now).AddDate(0, 0, -1)
		return DateRange{From: start.Unix(), To: start.AddDate(0, 0, 1).Unix()}
	}},
	{"today", func(now time.Time) DateRange {
		start := startOfDay(now)
		return DateRange{From: start.Unix(), To: start.AddDate(0, 0, 1).Unix()}
	}},
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the most recent Monday at midnight.
func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// resolveRelativeDates finds the first relative-date phrase in the lowercased
// query, returning the concrete range and the query with the phrase removed.
func resolveRelativeDates(query string, now time.Time) (DateRange, string) {
	lowered := strings.ToLower(query)
	for _, entry := range relativeDatePhrases {
		idx := strings.Index(lowered, entry.phrase)
		if idx < 0 {
			continue
		}
		stripped := query[:idx] + query[idx+len(entry.phrase):]
		return entry.resolve(now), strings.Join(strings.Fields(stripped), " ")
	}
	return DateRange{}, query
}
