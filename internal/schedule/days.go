package schedule

import (
	"strings"

	"github.com/teambition/rrule-go"
)

// DayRule pairs a canonical day name with its weekly recurrence weekday.
type DayRule struct {
	Name    string
	Weekday rrule.Weekday
}

// dayForms lists, per canonical day, the accepted prefixes from longest to
// shortest. Tokens are scanned against these at every position, so
// concatenated specifiers like "MonWed" or "TuTh" resolve to multiple days.
var dayForms = []struct {
	name    string
	weekday rrule.Weekday
	forms   []string
}{
	{"Mon", rrule.MO, []string{"monday", "mon", "mo"}},
	{"Tue", rrule.TU, []string{"tuesday", "tues", "tue", "tu"}},
	{"Wed", rrule.WE, []string{"wednesday", "wed", "we"}},
	{"Thu", rrule.TH, []string{"thursday", "thurs", "thur", "thu", "th"}},
	{"Fri", rrule.FR, []string{"friday", "fri", "fr"}},
	{"Sat", rrule.SA, []string{"saturday", "sat", "sa"}},
	{"Sun", rrule.SU, []string{"sunday", "sun", "su"}},
}

// ParseDays resolves a free-text day specifier ("Mon/Wed", "Tue, Thu",
// "TuTh") into an ordered, de-duplicated list of day rules. Text matching
// no day name is dropped without error; the input comes from AI-extracted
// syllabi and is handled best-effort.
func ParseDays(s string) []DayRule {
	clean := strings.ToLower(s)
	clean = strings.ReplaceAll(clean, ",", " ")
	clean = strings.ReplaceAll(clean, "/", " ")

	var found []DayRule
	seen := make(map[string]bool)

	for _, token := range strings.Fields(clean) {
		for i := 0; i < len(token); {
			rule, n := matchDayAt(token[i:])
			if n == 0 {
				i++
				continue
			}
			if !seen[rule.Name] {
				seen[rule.Name] = true
				found = append(found, rule)
			}
			i += n
		}
	}
	return found
}

// matchDayAt reports the day rule whose prefix form matches the start of s,
// preferring longer forms, and the number of bytes consumed. n == 0 means
// no day name starts here.
func matchDayAt(s string) (DayRule, int) {
	var best DayRule
	n := 0
	for _, d := range dayForms {
		for _, form := range d.forms {
			if len(form) > n && strings.HasPrefix(s, form) {
				best = DayRule{Name: d.name, Weekday: d.weekday}
				n = len(form)
			}
		}
	}
	return best, n
}
