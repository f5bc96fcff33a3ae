package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for course start dates.
const DateLayout = "2006-01-02"

// CourseSession is the persisted state of one course: its plan and where
// the learner currently is in it. CourseName is the unique key.
type CourseSession struct {
	CourseName string    `json:"course_name"`
	Subject    string    `json:"subject"`
	Level      Level     `json:"level"`
	StudyPlan  StudyPlan `json:"study_plan"`
	StartDate  string    `json:"start_date"`
	CurrentDay int       `json:"current_day"`
	MaxDay     int       `json:"max_day"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewCourseSession creates a course positioned on day 1 of plan.
// Returns an error if validation fails.
func NewCourseSession(
	name, subject string,
	level Level,
	startDate time.Time,
	plan StudyPlan,
) (*CourseSession, error) {
	now := time.Now().UTC()
	course := &CourseSession{
		CourseName: strings.TrimSpace(name),
		Subject:    strings.TrimSpace(subject),
		Level:      level,
		StudyPlan:  plan.Clone(),
		StartDate:  startDate.Format(DateLayout),
		CurrentDay: 1,
		MaxDay:     1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := course.Validate(); err != nil {
		return nil, err
	}

	return course, nil
}

// Validate checks if the CourseSession has valid data.
func (c *CourseSession) Validate() error {
	if c.CourseName == "" {
		return ErrEmptyCourseName
	}

	if c.Subject == "" {
		return ErrEmptySubject
	}

	if !c.Level.Valid() {
		return ErrInvalidLevel
	}

	if len(c.StudyPlan) == 0 {
		return ErrEmptyPlan
	}

	if _, err := time.Parse(DateLayout, c.StartDate); err != nil {
		return fmt.Errorf("%w: start date %q", ErrValidation, c.StartDate)
	}

	if c.CurrentDay < 1 || c.CurrentDay > len(c.StudyPlan) {
		return fmt.Errorf("%w: current day %d", ErrDayOutOfRange, c.CurrentDay)
	}

	if c.MaxDay < c.CurrentDay || c.MaxDay > len(c.StudyPlan) {
		return fmt.Errorf("%w: max day %d", ErrDayOutOfRange, c.MaxDay)
	}

	return nil
}

// Next moves to the following day, never past the last day of the plan.
// It reports whether the position changed.
func (c *CourseSession) Next() bool {
	if c.CurrentDay >= len(c.StudyPlan) {
		return false
	}
	c.CurrentDay++
	if c.CurrentDay > c.MaxDay {
		c.MaxDay = c.CurrentDay
	}
	c.UpdatedAt = time.Now().UTC()
	return true
}

// Previous moves to the preceding day, never before day 1.
// It reports whether the position changed.
func (c *CourseSession) Previous() bool {
	if c.CurrentDay <= 1 {
		return false
	}
	c.CurrentDay--
	c.UpdatedAt = time.Now().UTC()
	return true
}

// CurrentTopic returns the topic for the current day.
func (c *CourseSession) CurrentTopic() (string, error) {
	return c.StudyPlan.TopicFor(c.CurrentDay)
}

// DateFor returns the calendar date of the given 1-based day.
func (c *CourseSession) DateFor(day int) (time.Time, error) {
	start, err := time.Parse(DateLayout, c.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: start date %q", ErrValidation, c.StartDate)
	}
	if day < 1 || day > len(c.StudyPlan) {
		return time.Time{}, fmt.Errorf("%w: day %d", ErrDayOutOfRange, day)
	}
	return start.AddDate(0, 0, day-1), nil
}

// Clone returns a deep copy of the course.
func (c *CourseSession) Clone() *CourseSession {
	if c == nil {
		return nil
	}
	out := *c
	out.StudyPlan = c.StudyPlan.Clone()
	return &out
}
