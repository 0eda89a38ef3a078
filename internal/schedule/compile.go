package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	ical "github.com/arran4/golang-ical"

	appLog "syllabuscal/internal/log"
	"syllabuscal/internal/model"
)

// typeCodes maps assignment type labels to the short codes used in event
// titles. Unknown labels fall back to HW.
var typeCodes = map[string]string{
	"Lecture":    "LEC",
	"Laboratory": "LAB",
	"Discussion": "DIS",
	"Quiz":       "QZ",
	"Homework":   "HW",
	"Exam":       "EXAM",
	"Midterm":    "MID",
	"Final":      "FIN",
}

// examKeywords classify an assignment into the exam reminder category when
// its type label contains any of them, case-insensitively.
var examKeywords = []string{"exam", "midterm", "final", "test"}

const (
	defaultExamWindowMins   = 120
	deadlineLeadExamMins    = 120
	deadlineLeadDefaultMins = 30
	recurringLeadMins       = 30
	defaultDueClock         = "23:59"
)

// Skipped records an input entry that produced no events. The calendar is
// still generated; callers can surface these as non-fatal diagnostics.
type Skipped struct {
	Title  string
	Reason string
}

// Result is the compiled calendar plus diagnostics.
type Result struct {
	ICS     string
	Events  int
	Skipped []Skipped
}

// Compile turns structured course data into a serialized iCalendar stream.
// It is a pure transformation with no shared state, safe for concurrent
// callers. Malformed entries are skipped and reported in Result.Skipped;
// only unparseable semester dates abort the compile.
func Compile(course model.CourseData, reminders model.ReminderConfig, tz model.TimezoneConfig) (Result, error) {
	var res Result

	semStart, err := dateparse.ParseAny(course.SemesterStart)
	if err != nil {
		return res, fmt.Errorf("parse semester start %q: %w", course.SemesterStart, err)
	}
	semEnd, err := dateparse.ParseAny(course.SemesterEnd)
	if err != nil {
		return res, fmt.Errorf("parse semester end %q: %w", course.SemesterEnd, err)
	}

	proj := NewProjector(tz)
	until := proj.UntilBoundary(semEnd)

	cal := ical.NewCalendar()
	cal.SetProductId("-//syllabuscal//EN")

	for i, lec := range course.Lectures {
		n := compileLecture(cal, course, lec, semStart, until, reminders.Lecture, proj)
		if n == 0 {
			res.Skipped = append(res.Skipped, Skipped{
				Title:  fmt.Sprintf("lecture %d (%s)", i+1, lec.Day),
				Reason: fmt.Sprintf("day specifier %q matched no weekday", lec.Day),
			})
		}
		res.Events += n
	}

	for _, task := range course.Assignments {
		n, reason := compileAssignment(cal, course, task, semStart, until, reminders, proj)
		if n == 0 {
			res.Skipped = append(res.Skipped, Skipped{Title: task.Title, Reason: reason})
		}
		res.Events += n
	}

	res.ICS = cal.Serialize()
	return res, nil
}

// compileLecture emits one weekly-recurring event per weekday resolved from
// the lecture's day field and returns how many it produced.
func compileLecture(cal *ical.Calendar, course model.CourseData, lec model.Lecture, semStart, until time.Time, reminderMins int, proj *Projector) int {
	startC := ParseClock(lec.StartTime)
	endC := ParseClock(lec.EndTime)

	title := course.CourseCode + " " + typeCodes["Lecture"]
	if lec.Section != "" {
		title += " " + lec.Section
	}

	loc := lec.FullAddress
	if loc == "" {
		loc = joinNonEmpty(lec.Building, course.SchoolName)
	}
	desc := fmt.Sprintf("Type: Lecture\nRoom: %s\nSection: %s", orNA(lec.Room), orNA(lec.Section))

	events := 0
	for _, day := range ParseDays(lec.Day) {
		first, err := FirstOccurrence(semStart, day.Weekday)
		if err != nil {
			appLog.Error("first occurrence failed", err, "course", course.CourseCode, "day", day.Name)
			continue
		}
		// Overnight spans push the end to the next day. Compared on time of
		// day only, before projection, since projection can itself shift
		// calendar days.
		endDate := first
		if endC.before(startC) {
			endDate = first.AddDate(0, 0, 1)
		}
		appendEvent(cal, EventSpec{
			Title:        title,
			Start:        proj.Project(first, startC),
			End:          proj.Project(endDate, endC),
			Location:     loc,
			Description:  desc,
			RecurUntil:   until,
			ReminderMins: reminderMins,
		})
		events++
	}
	return events
}

// compileAssignment places one assignment using the first matching shape:
// a timed exam window, a weekly rule, or a single deadline. It returns the
// number of events produced and, when zero, the reason.
func compileAssignment(cal *ical.Calendar, course model.CourseData, task model.Assignment, semStart, until time.Time, reminders model.ReminderConfig, proj *Projector) (int, string) {
	taskType := task.Type
	if taskType == "" {
		taskType = "Assignment"
	}
	code, ok := typeCodes[taskType]
	if !ok {
		code = "HW"
	}
	title := fmt.Sprintf("%s %s: %s", course.CourseCode, code, task.Title)

	loc := task.Location
	if loc != "" && !strings.Contains(strings.ToLower(loc), "online") && !strings.Contains(loc, course.SchoolName) {
		loc += ", " + course.SchoolName
	}
	desc := fmt.Sprintf("Type: %s\nDetails: %s", taskType, task.Details)

	isExam := examClassified(taskType)
	mins := reminders.Assignment
	if isExam {
		mins = reminders.Exam
	}

	switch {
	case task.ExamDate != "" && task.StartTime != "":
		// Fixed time window on a known date.
		examDate, err := dateparse.ParseAny(task.ExamDate)
		if err != nil {
			appLog.Error("exam date unparseable", err, "title", task.Title, "exam_date", task.ExamDate)
			return 0, fmt.Sprintf("exam date %q unparseable", task.ExamDate)
		}
		startC := ParseClock(task.StartTime)
		start := proj.Project(examDate, startC)
		var end time.Time
		if task.EndTime != "" {
			endC := ParseClock(task.EndTime)
			endDate := examDate
			if endC.before(startC) {
				endDate = examDate.AddDate(0, 0, 1)
			}
			end = proj.Project(endDate, endC)
		} else {
			end = start.Add(defaultExamWindowMins * time.Minute)
		}
		appendEvent(cal, EventSpec{
			Title:        title,
			Start:        start,
			End:          end,
			Location:     loc,
			Description:  desc,
			ReminderMins: mins,
		})
		return 1, ""

	case task.Recurring && task.RecurringDay != "":
		days := ParseDays(task.RecurringDay)
		if len(days) == 0 {
			return 0, fmt.Sprintf("recurring day %q matched no weekday", task.RecurringDay)
		}
		dueStr := task.RecurringTime
		if dueStr == "" {
			dueStr = defaultDueClock
		}
		dueC := ParseClock(dueStr)
		events := 0
		for _, day := range days {
			first, err := FirstOccurrence(semStart, day.Weekday)
			if err != nil {
				appLog.Error("first occurrence failed", err, "title", task.Title, "day", day.Name)
				continue
			}
			due := proj.Project(first, dueC)
			appendEvent(cal, EventSpec{
				Title:        title,
				Start:        due.Add(-recurringLeadMins * time.Minute),
				End:          due,
				Location:     loc,
				Description:  desc,
				RecurUntil:   until,
				ReminderMins: mins,
			})
			events++
		}
		if events == 0 {
			return 0, "weekly rule produced no events"
		}
		return events, ""

	case task.DueDate != "":
		// A deadline without an explicit zone is read in the school zone.
		due, err := dateparse.ParseIn(task.DueDate, proj.School())
		if err != nil {
			appLog.Error("due date unparseable", err, "title", task.Title, "due_date", task.DueDate)
			return 0, fmt.Sprintf("due date %q unparseable", task.DueDate)
		}
		due = proj.ProjectTime(due)
		lead := deadlineLeadDefaultMins
		if isExam {
			lead = deadlineLeadExamMins
		}
		appendEvent(cal, EventSpec{
			Title:        title,
			Start:        due.Add(-time.Duration(lead) * time.Minute),
			End:          due,
			Location:     loc,
			Description:  desc,
			ReminderMins: mins,
		})
		return 1, ""

	default:
		return 0, "no usable exam window, weekly rule, or due date"
	}
}

func examClassified(label string) bool {
	l := strings.ToLower(label)
	for _, kw := range examKeywords {
		if strings.Contains(l, kw) {
			return true
		}
	}
	return false
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + ", " + b
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
