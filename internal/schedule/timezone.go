package schedule

import (
	"time"

	appLog "syllabuscal/internal/log"
	"syllabuscal/internal/model"
)

const (
	defaultSchoolZone = "America/Chicago"
	defaultUserZone   = "America/New_York"
)

// Projector converts wall-clock values between the school timezone and the
// user timezone. With no user zone configured it operates in floating mode:
// values pass through unchanged and are serialized without a zone, so
// calendar clients show the stated local time wherever they run. In
// dual-zone mode a wall clock is interpreted in the school zone, shifted to
// the user zone, and the shifted wall clock is what gets serialized (still
// as a floating value; no further conversion happens downstream).
type Projector struct {
	school   *time.Location
	user     *time.Location
	floating bool
}

// NewProjector builds a Projector from the timezone configuration. Unknown
// zone identifiers fall back to fixed defaults instead of failing the
// request.
func NewProjector(cfg model.TimezoneConfig) *Projector {
	p := &Projector{floating: cfg.User == ""}
	p.school = loadZoneOrDefault(cfg.School, defaultSchoolZone)
	if !p.floating {
		p.user = loadZoneOrDefault(cfg.User, defaultUserZone)
	}
	return p
}

func loadZoneOrDefault(name, fallback string) *time.Location {
	if name == "" {
		name = fallback
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("unknown timezone, using default", err, "zone", name, "default", fallback)
		loc, err = time.LoadLocation(fallback)
		if err != nil {
			return time.UTC
		}
	}
	return loc
}

// Floating reports whether output carries no timezone.
func (p *Projector) Floating() bool { return p.floating }

// School returns the source timezone used to interpret naive inputs.
func (p *Projector) School() *time.Location { return p.school }

// Project combines a calendar date with a time of day and returns the wall
// clock to serialize. In floating mode the pair passes through as-is; the
// UTC location is only a carrier and is dropped at serialization.
func (p *Projector) Project(date time.Time, c Clock) time.Time {
	if p.floating {
		return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, time.UTC)
	}
	at := time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, p.school)
	return at.In(p.user)
}

// ProjectTime applies the same treatment to an already-located instant,
// such as a due date parsed with an explicit zone offset.
func (p *Projector) ProjectTime(t time.Time) time.Time {
	if p.floating {
		return t
	}
	return t.In(p.user)
}
