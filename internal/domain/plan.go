package domain

import "fmt"

// StudyPlan is the ordered list of daily topics for a course. Day N of the
// course studies StudyPlan[N-1].
type StudyPlan []string

// Days returns the number of days covered by the plan.
func (p StudyPlan) Days() int {
	return len(p)
}

// TopicFor returns the topic scheduled for the given 1-based day.
func (p StudyPlan) TopicFor(day int) (string, error) {
	if day < 1 || day > len(p) {
		return "", fmt.Errorf("%w: day %d, plan has %d days", ErrDayOutOfRange, day, len(p))
	}
	return p[day-1], nil
}

// Clone returns a copy of the plan that shares no backing array with p.
func (p StudyPlan) Clone() StudyPlan {
	if p == nil {
		return nil
	}
	out := make(StudyPlan, len(p))
	copy(out, p)
	return out
}
