package schedule

import (
	"strings"
	"testing"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"syllabuscal/internal/model"
)

var testReminders = model.ReminderConfig{Lecture: 10, Exam: 1440, Assignment: 30}

var floatingTZ = model.TimezoneConfig{School: "America/Chicago"}

func baseCourse() model.CourseData {
	return model.CourseData{
		SchoolName:    "Example University",
		CourseCode:    "CS 101",
		CourseName:    "Intro to Computer Science",
		SemesterStart: "2025-01-06",
		SemesterEnd:   "2025-05-16",
	}
}

func TestCompileLectureFanOut(t *testing.T) {
	t.Parallel()

	course := baseCourse()
	course.Lectures = []model.Lecture{
		{Day: "MonWed", StartTime: "10:00", EndTime: "10:50", Building: "Altgeld Hall", Room: "101"},
	}

	res, err := Compile(course, testReminders, floatingTZ)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Events)
	assert.Empty(t, res.Skipped)

	// First occurrences: Monday 2025-01-06 and Wednesday 2025-01-08.
	assert.Contains(t, res.ICS, "DTSTART:20250106T100000")
	assert.Contains(t, res.ICS, "DTEND:20250106T105000")
	assert.Contains(t, res.ICS, "DTSTART:20250108T100000")
	assert.Contains(t, res.ICS, "SUMMARY:CS 101 LEC")
	assert.Contains(t, res.ICS, `LOCATION:Altgeld Hall\, Example University`)
	assert.Equal(t, 2, strings.Count(res.ICS, "RRULE:FREQ=WEEKLY;UNTIL=20250516T235959"))
	assert.Equal(t, 2, strings.Count(res.ICS, "TRIGGER:-PT10M"))
	assert.Equal(t, 2, strings.Count(res.ICS, "ACTION:DISPLAY"))
}

func TestCompileLectureSectionAndAddress(t *testing.T) {
	t.Parallel()

	course := baseCourse()
	course.Lectures = []model.Lecture{
		{Day: "Fri", StartTime: "2:00 PM", EndTime: "3:15 PM", Section: "AB1", FullAddress: "123 Main St"},
	}

	res, err := Compile(course, testReminders, floatingTZ)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Events)
	assert.Contains(t, res.ICS, "SUMMARY:CS 101 LEC AB1")
	assert.Contains(t, res.ICS, "LOCATION:123 Main St")
	assert.Contains(t, res.ICS, "DTSTART:20250110T140000")
	assert.Contains(t, res.ICS, "DTEND:20250110T151500")
}

func TestCompileOvernightLecture(t *testing.T) {
	t.Parallel()

	course := baseCourse()
	course.Lectures = []model.Lecture{
		{Day: "Mon", StartTime: "23:00", EndTime: "00:30"},
	}

	res, err := Compile(course, testReminders, floatingTZ)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Events)
	assert.Contains(t, res.ICS, "DTSTART:20250106T230000")
	assert.Contains(t, res.ICS, "DTEND:20250107T003000")
}

func TestCompileTimedExamWindow(t *testing.T) {
	t.Parallel()

	course := baseCourse()
	course.Assignments = []model.Assignment{
		{Title: "Final", Type: "Final", ExamDate: "2025-05-10", StartTime: "7:00 PM", EndTime: "9:00 PM"},
	}

	res, err := Compile(course, testReminders, floatingTZ)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Events)
	assert.Contains(t, res.ICS, "SUMMARY:CS 101 FIN: Final")
	assert.Contains(t, res.ICS, "DTSTART:20250510T190000")
	assert.Contains(t, res.ICS, "DTEND:20250510T210000")
	// Exam-classified: day-offset alarm from the exam reminder setting.
	assert.Contains(t, res.ICS, "TRIGGER:-P1D")
	assert.NotContains(t, res.ICS, "RRULE")
}

func TestCompileExamWindowDefaultDuration(t *testing.T) {
	t.Parallel()

	course := baseCourse()
	course.Assignments = []model.Assignment{
		{Title: "Midterm", Type: "Midterm", ExamDate: "2025-03-03", StartTime: "19:00"},
	}

	res, err := Compile(course, testReminders, floatingTZ)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Events)
	assert.Contains(t, res.ICS, "DTSTART:20250303T190000")
	assert.Contains(t, res.ICS, "DTEND:20250303T210000")
}

func TestCompileRecurringAssignment(t *testing.T) {
	t.Parallel()

	course := baseCourse()
	course.Assignments = []model.Assignment{
		{Title: "Weekly Quiz", Type: "Quiz", Recurring: true, RecurringDay: "Tuesday", RecurringTime: "11:59 PM"},
	}

	res, err := Compile(course, testReminders, floatingTZ)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Events)
	assert.Contains(t, res.ICS, "SUMMARY:CS 101 QZ: Weekly Quiz")
	// Due Tuesday 2025-01-07 23:59, visible start 30 minutes earlier.
	assert.Contains(t, res.ICS, "DTSTART:20250107T232900")
	assert.Contains(t, res.ICS, "DTEND:20250107T235900")
	assert.Contains(t, res.ICS, "RRULE:FREQ=WEEKLY;UNTIL=20250516T235959")
	// Quiz is assignment-classified for reminders.
	assert.Contains(t, res.ICS, "TRIGGER:-PT30M")
}

func TestCompileRecurringAssignmentDefaultTime(t *testing.T) {
	t.Parallel()

	course := baseCourse()
	course.Assignments = []model.Assignment{
		{Title: "Reading Response", Type: "Homework", Recurring: true, RecurringDay: "Thu"},
	}

	res, err := Compile(course, testReminders, floatingTZ)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Events)
	assert.Contains(t, res.ICS, "DTEND:20250109T235900")
	assert.Contains(t, res.ICS, "DTSTART:20250109T232900")
}

func TestCompileDeadlineOnly(t *testing.T) {
	t.Parallel()

	course := baseCourse()
	course.Assignments = []model.Assignment{
		{Title: "Homework 3", Type: "Homework", DueDate: "2025-03-14 17:00"},
		{Title: "Take-home Exam", Type: "Exam", DueDate: "2025-04-01 09:00"},
	}

	res, err := Compile(course, testReminders, floatingTZ)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Events)
	// Assignment-classified: 30 minute lead.
	assert.Contains(t, res.ICS, "DTEND:20250314T170000")
	assert.Contains(t, res.ICS, "DTSTART:20250314T163000")
	// Exam-classified: 120 minute lead.
	assert.Contains(t, res.ICS, "DTEND:20250401T090000")
	assert.Contains(t, res.ICS, "DTSTART:20250401T070000")
}

func TestCompilePlacementPriority(t *testing.T) {
	t.Parallel()

	// Satisfies both the exam-window and weekly-rule shapes; only the exam
	// window may be used.
	course := baseCourse()
	course.Assignments = []model.Assignment{
		{
			Title:    "Conflicted",
			Type:     "Exam",
			ExamDate: "2025-04-20", StartTime: "10:00", EndTime: "12:00",
			Recurring: true, RecurringDay: "Monday", RecurringTime: "23:59",
			DueDate: "2025-04-25",
		},
	}

	res, err := Compile(course, testReminders, floatingTZ)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Events)
	assert.Contains(t, res.ICS, "DTSTART:20250420T100000")
	assert.NotContains(t, res.ICS, "RRULE")
}

func TestCompileUnplaceableAssignmentSkipped(t *testing.T) {
	t.Parallel()

	course := baseCourse()
	course.Assignments = []model.Assignment{
		{Title: "Mystery Task", Type: "Homework"},
	}

	res, err := Compile(course, testReminders, floatingTZ)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Events)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "Mystery Task", res.Skipped[0].Title)
	assert.NotContains(t, res.ICS, "BEGIN:VEVENT")
}

func TestCompileLectureNoDayMatchSkipped(t *testing.T) {
	t.Parallel()

	course := baseCourse()
	course.Lectures = []model.Lecture{
		{Day: "whenever", StartTime: "10:00", EndTime: "11:00"},
	}

	res, err := Compile(course, testReminders, floatingTZ)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Events)
	require.Len(t, res.Skipped, 1)
	assert.Contains(t, res.Skipped[0].Reason, "matched no weekday")
}

func TestCompileDualTimezone(t *testing.T) {
	t.Parallel()

	course := baseCourse()
	course.Lectures = []model.Lecture{
		{Day: "Mon", StartTime: "10:00", EndTime: "10:50"},
	}
	tz := model.TimezoneConfig{School: "America/Chicago", User: "America/New_York"}

	res, err := Compile(course, testReminders, tz)
	require.NoError(t, err)

	// Wall clocks shifted Central to Eastern, still serialized floating.
	assert.Contains(t, res.ICS, "DTSTART:20250106T110000")
	assert.Contains(t, res.ICS, "DTEND:20250106T115000")
	assert.Contains(t, res.ICS, "RRULE:FREQ=WEEKLY;UNTIL=20250517T005959")
	assert.NotContains(t, res.ICS, "DTSTART:20250106T110000Z")
}

func TestCompileOnlineLocationUntouched(t *testing.T) {
	t.Parallel()

	course := baseCourse()
	course.Assignments = []model.Assignment{
		{Title: "Quiz 1", Type: "Quiz", DueDate: "2025-02-01 12:00", Location: "Online via Canvas"},
	}

	res, err := Compile(course, testReminders, floatingTZ)
	require.NoError(t, err)

	assert.Contains(t, res.ICS, "LOCATION:Online via Canvas")
	assert.NotContains(t, res.ICS, `Online via Canvas\, Example University`)
}

func TestCompileLocationGetsSchoolAppended(t *testing.T) {
	t.Parallel()

	course := baseCourse()
	course.Assignments = []model.Assignment{
		{Title: "Final", Type: "Final", ExamDate: "2025-05-10", StartTime: "19:00", Location: "Room 204"},
	}

	res, err := Compile(course, testReminders, floatingTZ)
	require.NoError(t, err)

	assert.Contains(t, res.ICS, `LOCATION:Room 204\, Example University`)
}

func TestCompileUnknownTypeDefaultsToHW(t *testing.T) {
	t.Parallel()

	course := baseCourse()
	course.Assignments = []model.Assignment{
		{Title: "Essay", Type: "Reflection Paper", DueDate: "2025-02-10 23:59"},
	}

	res, err := Compile(course, testReminders, floatingTZ)
	require.NoError(t, err)

	assert.Contains(t, res.ICS, "SUMMARY:CS 101 HW: Essay")
}

func TestCompileBadSemesterDates(t *testing.T) {
	t.Parallel()

	course := baseCourse()
	course.SemesterStart = "not a date"

	_, err := Compile(course, testReminders, floatingTZ)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "semester start")
}

func TestCompileInvertedSemesterTolerated(t *testing.T) {
	t.Parallel()

	// End before start is not validated; the series just has no
	// occurrences past its boundary.
	course := baseCourse()
	course.SemesterStart = "2025-05-16"
	course.SemesterEnd = "2025-01-06"
	course.Lectures = []model.Lecture{
		{Day: "Mon", StartTime: "10:00", EndTime: "11:00"},
	}

	res, err := Compile(course, testReminders, floatingTZ)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Events)
	assert.Contains(t, res.ICS, "RRULE:FREQ=WEEKLY;UNTIL=20250106T235959")
}

func TestCompileRoundTripParses(t *testing.T) {
	t.Parallel()

	course := baseCourse()
	course.Lectures = []model.Lecture{
		{Day: "Tue/Thu", StartTime: "9:30 AM", EndTime: "10:45 AM", Building: "Grainger"},
	}
	course.Assignments = []model.Assignment{
		{Title: "Final", Type: "Final", ExamDate: "2025-05-10", StartTime: "19:00", EndTime: "21:00"},
		{Title: "Weekly Quiz", Type: "Quiz", Recurring: true, RecurringDay: "Friday"},
	}

	res, err := Compile(course, testReminders, floatingTZ)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Events)

	cal, err := ical.ParseCalendar(strings.NewReader(res.ICS))
	require.NoError(t, err)
	assert.Len(t, cal.Events(), 4)
}

func TestExamClassified(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label string
		want  bool
	}{
		{label: "Midterm Exam", want: true},
		{label: "Final", want: true},
		{label: "Pop Quiz — Test", want: true},
		{label: "midterm", want: true},
		{label: "Homework 3", want: false},
		{label: "Quiz", want: false},
		{label: "Project", want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, examClassified(tt.label), tt.label)
	}
}
