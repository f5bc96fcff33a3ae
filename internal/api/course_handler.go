package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/events"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/service"
)

// CourseHandler serves the study plan endpoints. Every request runs
// against the StudyService and AppState of the caller's session.
type CourseHandler struct{}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler() *CourseHandler {
	return &CourseHandler{}
}

// List handles GET /api/courses.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	names, err := s.Workspace.Study.ListCourses(r.Context(), s.State)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list courses")
		return
	}

	active := s.State.ActiveCourse()
	shared.RespondWithJSON(w, r, http.StatusOK, CourseListResponse{Courses: names, Active: active})
}

// Create handles POST /api/courses. Plan generation may take minutes for
// long courses.
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req CreateCourseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	r, warnings := collectWarnings(r)

	level, err := domain.ParseLevel(req.Level)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	in := service.CreateCourseInput{
		Name:    req.Name,
		Subject: req.Subject,
		Days:    req.Days,
		Level:   level,
	}
	if req.StartDate != "" {
		start, err := time.Parse(domain.DateLayout, req.StartDate)
		if err != nil {
			HandleAPIError(w, r, domain.ErrValidation, "Invalid start_date, use YYYY-MM-DD")
			return
		}
		in.StartDate = start
	}

	view, err := s.Workspace.Study.CreateCourse(r.Context(), s.State, in)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContext(r.Context()).InfoContext(r.Context(), "course created via API",
		"course_name", view.Course.CourseName,
		"days", req.Days)

	shared.RespondWithJSON(w, r, http.StatusCreated, CourseResponse{CourseView: view, Warnings: warnings.List()})
}

// Get handles GET /api/courses/{name}. The course becomes the active one.
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	view, err := s.Workspace.Study.OpenCourse(r.Context(), s.State, chi.URLParam(r, "name"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// Navigate handles POST /api/courses/{name}/navigate.
func (h *CourseHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req NavigateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	view, err := s.Workspace.Study.Navigate(r.Context(), s.State,
		chi.URLParam(r, "name"), events.Direction(req.Direction))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// CompleteDay handles POST /api/courses/{name}/days/{day}/complete.
func (h *CourseHandler) CompleteDay(w http.ResponseWriter, r *http.Request) {
	s, name, day, ok := courseAndDay(w, r)
	if !ok {
		return
	}

	view, err := s.Workspace.Study.CompleteDay(r.Context(), s.State, name, day)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// Explain handles POST /api/courses/{name}/days/{day}/explain.
func (h *CourseHandler) Explain(w http.ResponseWriter, r *http.Request) {
	s, name, day, ok := courseAndDay(w, r)
	if !ok {
		return
	}

	explanation, err := s.Workspace.Study.ExplainTopic(r.Context(), s.State, name, day)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, explanation)
}

// GenerateTest handles POST /api/courses/{name}/days/{day}/test. Answers
// are not included in the response.
func (h *CourseHandler) GenerateTest(w http.ResponseWriter, r *http.Request) {
	s, name, day, ok := courseAndDay(w, r)
	if !ok {
		return
	}

	r, warnings := collectWarnings(r)
	questions, err := s.Workspace.Study.GenerateTest(r.Context(), s.State, name, day)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newTestResponse(name, day, questions, warnings.List()))
}

// SubmitAnswers handles POST /api/courses/{name}/days/{day}/test/answers.
func (h *CourseHandler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	s, name, day, ok := courseAndDay(w, r)
	if !ok {
		return
	}

	var req SubmitAnswersRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := s.Workspace.Study.SubmitTest(r.Context(), s.State, name, day, req.Answers)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// RetakeTest handles POST /api/courses/{name}/days/{day}/test/retake.
func (h *CourseHandler) RetakeTest(w http.ResponseWriter, r *http.Request) {
	s, name, day, ok := courseAndDay(w, r)
	if !ok {
		return
	}

	r, warnings := collectWarnings(r)
	questions, err := s.Workspace.Study.RetakeTest(r.Context(), s.State, name, day)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newTestResponse(name, day, questions, warnings.List()))
}

// GenerateFlashcards handles POST /api/courses/{name}/days/{day}/flashcards.
func (h *CourseHandler) GenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	s, name, day, ok := courseAndDay(w, r)
	if !ok {
		return
	}

	r, warnings := collectWarnings(r)
	cards, err := s.Workspace.Study.GenerateFlashcards(r.Context(), s.State, name, day)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, FlashcardsResponse{
		CourseName: name,
		Day:        day,
		Flashcards: cards,
		Warnings:   warnings.List(),
	})
}

// ShuffleFlashcards handles POST /api/courses/{name}/days/{day}/flashcards/shuffle.
func (h *CourseHandler) ShuffleFlashcards(w http.ResponseWriter, r *http.Request) {
	s, name, day, ok := courseAndDay(w, r)
	if !ok {
		return
	}

	cards, err := s.Workspace.Study.ShuffleFlashcards(r.Context(), s.State, name, day)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, FlashcardsResponse{CourseName: name, Day: day, Flashcards: cards})
}
