package schedule

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// FirstOccurrence returns the date of the first occurrence of the given
// weekday on or after start (inclusive). The search is a single-count
// weekly rule, so it never looks more than seven days ahead.
func FirstOccurrence(start time.Time, w rrule.Weekday) (time.Time, error) {
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		Byweekday: []rrule.Weekday{w},
		Count:     1,
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("weekly rule for %s: %w", w, err)
	}
	occ := r.All()
	if len(occ) == 0 {
		return time.Time{}, fmt.Errorf("weekly rule for %s produced no occurrence", w)
	}
	return occ[0], nil
}

// UntilBoundary returns the recurrence cutoff: 23:59:59 on the semester end
// date, projected the same way as event times. A boundary earlier than the
// first occurrence simply yields a series with no occurrences.
func (p *Projector) UntilBoundary(semEnd time.Time) time.Time {
	if p.floating {
		return time.Date(semEnd.Year(), semEnd.Month(), semEnd.Day(), 23, 59, 59, 0, time.UTC)
	}
	at := time.Date(semEnd.Year(), semEnd.Month(), semEnd.Day(), 23, 59, 59, 0, p.school)
	return at.In(p.user)
}

// weeklyUntil renders the RRULE value for a weekly series ending at the
// given boundary. The boundary is a floating wall clock, so it carries no
// trailing zone designator.
func weeklyUntil(until time.Time) string {
	return "FREQ=WEEKLY;UNTIL=" + until.Format(icsTimeLayout)
}
