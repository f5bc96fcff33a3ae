package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/service"
)

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
	// APIKey is the user's language model key. The server key is used
	// when it is empty.
	APIKey string `json:"api_key,omitempty"`
}

// AuthResponse defines the successful response of the login endpoint.
type AuthResponse struct {
	SessionID   uuid.UUID `json:"session_id"`
	AccessToken string    `json:"token"`
	// ExpiresAt is the RFC 3339 expiry of the token
	ExpiresAt string `json:"expires_at"`
	Model     string `json:"model"`
}

// CreateCourseRequest defines the payload for creating a course.
type CreateCourseRequest struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Subject string `json:"subject" validate:"required"`
	Days    int    `json:"days"    validate:"required,gte=1"`
	Level   string `json:"level"   validate:"required"`
	// StartDate is YYYY-MM-DD and defaults to today.
	StartDate string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// NavigateRequest moves the current day of a course.
type NavigateRequest struct {
	Direction string `json:"direction" validate:"required,oneof=next previous"`
}

// SubmitAnswersRequest carries one letter per question, in question order.
type SubmitAnswersRequest struct {
	Answers []string `json:"answers" validate:"required"`
}

// TextRequest carries free text, such as a paper summary to narrate.
type TextRequest struct {
	Text string `json:"text" validate:"required"`
}

// CourseListResponse lists course names.
type CourseListResponse struct {
	Courses []string `json:"courses"`
	Active  string   `json:"active,omitempty"`
}

// CourseResponse is a newly created course. Warnings lists the quota retries
// paid while generating its plan.
type CourseResponse struct {
	*service.CourseView
	Warnings []string `json:"warnings,omitempty"`
}

// PaperAnalysisResponse is a summarized paper plus any retry warnings.
type PaperAnalysisResponse struct {
	*domain.PaperAnalysis
	Warnings []string `json:"warnings,omitempty"`
}

// QuestionResponse is a test question without its answer.
type QuestionResponse struct {
	Number   int      `json:"number"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// TestResponse is a test as shown before it is graded.
type TestResponse struct {
	CourseName string             `json:"course_name"`
	Day        int                `json:"day"`
	Questions  []QuestionResponse `json:"questions"`
	Warnings   []string           `json:"warnings,omitempty"`
}

// FlashcardsResponse is the deck of a day in its current order.
type FlashcardsResponse struct {
	CourseName string             `json:"course_name"`
	Day        int                `json:"day"`
	Flashcards []domain.Flashcard `json:"flashcards"`
	Warnings   []string           `json:"warnings,omitempty"`
}

// PodcastResponse carries a generated podcast script.
type PodcastResponse struct {
	Script   string   `json:"script"`
	Warnings []string `json:"warnings,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string    `json:"status"`
	Sessions int       `json:"sessions"`
	Time     time.Time `json:"time"`
}

func newTestResponse(name string, day int, questions []domain.Question, warnings []string) TestResponse {
	out := TestResponse{
		CourseName: name,
		Day:        day,
		Questions:  make([]QuestionResponse, 0, len(questions)),
		Warnings:   warnings,
	}
	for i, q := range questions {
		out.Questions = append(out.Questions, QuestionResponse{
			Number:   i + 1,
			Question: q.Text,
			Options:  q.Options,
		})
	}
	return out
}
