package model

// CourseData is the structured course description produced by the
// document-extraction service. Field names follow the extractor's JSON
// schema; the schedule compiler never sees raw document bytes.
type CourseData struct {
	SchoolName    string       `json:"school_name"`
	CourseCode    string       `json:"course_code"`
	CourseName    string       `json:"course_name"`
	SemesterStart string       `json:"semester_start"`
	SemesterEnd   string       `json:"semester_end"`
	Lectures      []Lecture    `json:"lectures"`
	Assignments   []Assignment `json:"assignments"`
}

// Lecture is one weekly class meeting. Day may encode several weekdays
// ("Mon/Wed", "TuTh"); the times are free-text as extracted.
type Lecture struct {
	Day         string `json:"day"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Building    string `json:"building,omitempty"`
	Room        string `json:"room,omitempty"`
	Section     string `json:"section,omitempty"`
	FullAddress string `json:"full_address,omitempty"`
}

// Assignment is a graded item. Its temporal fields are priority-ordered
// alternatives: a timed exam window (ExamDate+StartTime), a weekly rule
// (Recurring+RecurringDay), or a single deadline (DueDate). The first shape
// that is populated wins.
type Assignment struct {
	Title         string `json:"title"`
	Type          string `json:"type"`
	DueDate       string `json:"due_date,omitempty"`
	ExamDate      string `json:"exam_date,omitempty"`
	StartTime     string `json:"start_time,omitempty"`
	EndTime       string `json:"end_time,omitempty"`
	Details       string `json:"details,omitempty"`
	Location      string `json:"location,omitempty"`
	Recurring     bool   `json:"recurring,omitempty"`
	RecurringDay  string `json:"recurring_day,omitempty"`
	RecurringTime string `json:"recurring_time,omitempty"`
}

// ReminderConfig holds alarm lead times, in minutes before event start,
// per event category.
type ReminderConfig struct {
	Lecture    int
	Exam       int
	Assignment int
}

// TimezoneConfig selects the output mode. School is the zone syllabus
// times are written in. An empty User means floating output: events keep
// their stated wall-clock time with no zone attached. A non-empty User
// shifts every wall clock from School into User before serialization.
type TimezoneConfig struct {
	School string
	User   string
}
