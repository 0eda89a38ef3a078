package schedule

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

// icsTimeLayout is the floating date-time form: wall clock only, no zone
// designator.
const icsTimeLayout = "20060102T150405"

// EventSpec is one resolved calendar event before serialization. Start and
// End are wall-clock values already projected into the output mode.
type EventSpec struct {
	Title       string
	Start       time.Time
	End         time.Time
	Location    string
	Description string

	// RecurUntil, when non-zero, makes the event weekly-recurring with an
	// explicit UNTIL boundary.
	RecurUntil time.Time

	// ReminderMins attaches a display alarm this many minutes before the
	// start. Zero or negative means no alarm.
	ReminderMins int
}

// textEscaper applies RFC 5545 TEXT escaping; the serializer writes
// property values verbatim.
var textEscaper = strings.NewReplacer(
	"\\", "\\\\",
	";", "\\;",
	",", "\\,",
	"\r\n", "\\n",
	"\n", "\\n",
)

// appendEvent serializes spec as a VEVENT on cal.
func appendEvent(cal *ical.Calendar, spec EventSpec) {
	ev := cal.AddEvent(uuid.NewString() + "@syllabuscal")
	ev.SetDtStampTime(time.Now().UTC())
	ev.SetSummary(textEscaper.Replace(spec.Title))
	if spec.Location != "" {
		ev.SetLocation(textEscaper.Replace(spec.Location))
	}
	if spec.Description != "" {
		ev.SetDescription(textEscaper.Replace(spec.Description))
	}

	ev.SetProperty(ical.ComponentPropertyDtStart, spec.Start.Format(icsTimeLayout))
	ev.SetProperty(ical.ComponentPropertyDtEnd, spec.End.Format(icsTimeLayout))

	if !spec.RecurUntil.IsZero() {
		ev.AddRrule(weeklyUntil(spec.RecurUntil))
	}

	if spec.ReminderMins > 0 {
		alarm := ev.AddAlarm()
		alarm.SetAction(ical.ActionDisplay)
		alarm.SetTrigger(reminderTrigger(spec.ReminderMins))
		alarm.SetProperty(ical.ComponentPropertyDescription, textEscaper.Replace("Reminder: "+spec.Title))
	}
}

// reminderTrigger renders a relative before-start trigger: whole days when
// the offset is an exact multiple of a day, minutes otherwise.
func reminderTrigger(mins int) string {
	if mins%1440 == 0 {
		return fmt.Sprintf("-P%dD", mins/1440)
	}
	return fmt.Sprintf("-PT%dM", mins)
}
