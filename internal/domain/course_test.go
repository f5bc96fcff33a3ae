package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan(days int) StudyPlan {
	plan := make(StudyPlan, days)
	for i := range plan {
		plan[i] = "topic"
	}
	return plan
}

func TestNewCourseSession(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid course starts on day one", func(t *testing.T) {
		course, err := NewCourseSession(" Go ", "Go programming", LevelBeginner, start, testPlan(3))
		require.NoError(t, err)
		assert.Equal(t, "Go", course.CourseName)
		assert.Equal(t, 1, course.CurrentDay)
		assert.Equal(t, 1, course.MaxDay)
		assert.Equal(t, "2025-03-01", course.StartDate)
		assert.False(t, course.CreatedAt.IsZero())
	})

	t.Run("plan is copied", func(t *testing.T) {
		plan := StudyPlan{"a", "b"}
		course, err := NewCourseSession("c", "s", LevelAdvanced, start, plan)
		require.NoError(t, err)
		plan[0] = "changed"
		assert.Equal(t, "a", course.StudyPlan[0])
	})

	tests := []struct {
		name    string
		course  string
		subject string
		level   Level
		plan    StudyPlan
		wantErr error
	}{
		{"empty name", "", "s", LevelBeginner, testPlan(1), ErrEmptyCourseName},
		{"empty subject", "c", " ", LevelBeginner, testPlan(1), ErrEmptySubject},
		{"bad level", "c", "s", Level("expert"), testPlan(1), ErrInvalidLevel},
		{"empty plan", "c", "s", LevelBeginner, nil, ErrEmptyPlan},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCourseSession(tc.course, tc.subject, tc.level, start, tc.plan)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCourseSessionNavigation(t *testing.T) {
	t.Parallel()

	course, err := NewCourseSession("c", "s", LevelBeginner, time.Now(), testPlan(3))
	require.NoError(t, err)

	assert.False(t, course.Previous(), "cannot move before day 1")
	assert.Equal(t, 1, course.CurrentDay)

	assert.True(t, course.Next())
	assert.True(t, course.Next())
	assert.False(t, course.Next(), "cannot move past the last day")
	assert.Equal(t, 3, course.CurrentDay)
	assert.Equal(t, 3, course.MaxDay)

	assert.True(t, course.Previous())
	assert.Equal(t, 2, course.CurrentDay)
	assert.Equal(t, 3, course.MaxDay, "max day keeps the furthest day reached")
	assert.NoError(t, course.Validate())
}

func TestCourseSessionDateFor(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, time.January, 30, 0, 0, 0, 0, time.UTC)
	course, err := NewCourseSession("c", "s", LevelBeginner, start, testPlan(5))
	require.NoError(t, err)

	date, err := course.DateFor(3)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-01", date.Format(DateLayout))

	_, err = course.DateFor(6)
	assert.ErrorIs(t, err, ErrDayOutOfRange)
}

func TestCourseSessionValidateRejectsBadDays(t *testing.T) {
	t.Parallel()

	course, err := NewCourseSession("c", "s", LevelBeginner, time.Now(), testPlan(2))
	require.NoError(t, err)

	clone := course.Clone()
	clone.CurrentDay = 3
	assert.ErrorIs(t, clone.Validate(), ErrDayOutOfRange)

	clone = course.Clone()
	clone.StartDate = "yesterday"
	assert.ErrorIs(t, clone.Validate(), ErrValidation)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	level, err := ParseLevel("  Intermediate ")
	require.NoError(t, err)
	assert.Equal(t, LevelIntermediate, level)

	_, err = ParseLevel("guru")
	assert.ErrorIs(t, err, ErrInvalidLevel)
}
