package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "generic error",
			err:      errors.New("some error"),
			expected: false,
		},
		{
			name:     "ErrNotFound",
			err:      ErrNotFound,
			expected: true,
		},
		{
			name:     "wrapped ErrCourseNotFound",
			err:      fmt.Errorf("failed to open course: %w", ErrCourseNotFound),
			expected: true,
		},
		{
			name:     "StoreError wrapping ErrCourseNotFound",
			err:      NewStoreError("session", "load", "no file", ErrCourseNotFound),
			expected: true,
		},
		{
			name:     "ErrCorrupt",
			err:      ErrCorrupt,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFoundError(tt.err); got != tt.expected {
				t.Errorf("IsNotFoundError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestStoreError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStoreError("progress", "save", "failed to write file", cause)

	assert.Equal(t, "save operation on progress failed: failed to write file: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("session", "list", "data dir missing", nil)
	assert.Equal(t, "list operation on session failed: data dir missing", bare.Error())
}

func TestValidateCourseName(t *testing.T) {
	valid := []string{"Go", "Linear Algebra 101", "c++ basics", "intro.v2"}
	for _, name := range valid {
		assert.NoError(t, ValidateCourseName(name), name)
	}

	invalid := []string{"", "  ", " padded", "a/b", `a\b`, "..", "x..y", "nul\x00"}
	for _, name := range invalid {
		assert.ErrorIs(t, ValidateCourseName(name), ErrInvalidCourseName, "%q", name)
	}
}
