package domain

import (
	"encoding/json"
	"sort"
)

// Progress is the set of completed study days for a course. It serializes
// as a sorted JSON list of day numbers.
type Progress map[int]struct{}

// NewProgress builds a Progress from a list of completed days.
func NewProgress(days ...int) Progress {
	p := make(Progress, len(days))
	for _, d := range days {
		p[d] = struct{}{}
	}
	return p
}

// Complete marks a day as completed.
func (p Progress) Complete(day int) {
	p[day] = struct{}{}
}

// IsComplete reports whether the given day has been completed.
func (p Progress) IsComplete(day int) bool {
	_, ok := p[day]
	return ok
}

// Days returns the completed days in ascending order.
func (p Progress) Days() []int {
	days := make([]int, 0, len(p))
	for d := range p {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// MarshalJSON implements json.Marshaler.
func (p Progress) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Days())
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Progress) UnmarshalJSON(data []byte) error {
	var days []int
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	*p = NewProgress(days...)
	return nil
}
