package schedule

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// before reports whether c is an earlier time of day than o.
func (c Clock) before(o Clock) bool {
	if c.Hour != o.Hour {
		return c.Hour < o.Hour
	}
	return c.Minute < o.Minute
}

// clockLayouts are tried in order before falling back to a general parse.
var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
}

// ParseClock resolves a free-text time of day ("7:00 PM", "19:00"). On any
// parse failure it falls back to midnight rather than failing: a malformed
// time must not abort generation of the rest of the calendar, though the
// 00:00 anchor is a known imprecision.
func ParseClock(s string) Clock {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if trimmed == "" {
		return Clock{}
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return Clock{Hour: t.Hour(), Minute: t.Minute()}
		}
	}
	// Strings like "Oct 15 7pm" carry a full date; take the time component.
	if t, err := dateparse.ParseAny(trimmed); err == nil {
		return Clock{Hour: t.Hour(), Minute: t.Minute()}
	}
	return Clock{}
}
