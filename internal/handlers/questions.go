package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"mindtrack-backend/internal/middleware"
	"mindtrack-backend/internal/models"
	"mindtrack-backend/internal/services"
)

// QuestionHandler serves the adaptive question-and-answer surface: question
// lookup, batch selection, answer submission, and progress snapshots.
type QuestionHandler struct {
	catalog     services.QuestionCatalog
	selector    *services.Selector
	progress    *services.ProgressService
	recommender *services.Recommender
}

func NewQuestionHandler(catalog services.QuestionCatalog, selector *services.Selector, progress *services.ProgressService, recommender *services.Recommender) *QuestionHandler {
	return &QuestionHandler{
		catalog:     catalog,
		selector:    selector,
		progress:    progress,
		recommender: recommender,
	}
}

// Get returns one question with canonical answers stripped.
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	question, err := h.catalog.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, question)
}

// Next returns up to {count} adaptively selected questions.
func (h *QuestionHandler) Next(w http.ResponseWriter, r *http.Request) {
	count, err := strconv.Atoi(chi.URLParam(r, "count"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Count must be a number between 1 and 10", r))
		return
	}

	filters := services.SelectorFilters{
		Difficulty: r.URL.Query().Get("difficulty"),
		Subject:    r.URL.Query().Get("subject"),
		Topic:      r.URL.Query().Get("topic"),
	}

	userID := middleware.GetUserID(r.Context())
	questions, err := h.selector.Next(r.Context(), userID, count, filters)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, questions)
}

// SubmitAnswer evaluates an answer, records it, and recommends a follow-up.
// Progress-write failures surface to the client so it can retry.
func (h *QuestionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	question, err := h.catalog.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	result, err := services.Evaluate(question, req.Answer)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.progress.RecordAnswer(r.Context(), userID, question, req.Answer, result, req.TimeTaken); err != nil {
		handleServiceError(w, r, err)
		return
	}

	performance, err := h.progress.Performance(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	nextID, err := h.recommender.Next(r.Context(), userID, question, result.IsCorrect)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.SubmitAnswerResponse{
		Correct:        result.IsCorrect,
		Score:          result.Score,
		Feedback:       result.Feedback,
		Performance:    performance,
		NextQuestionID: nextID,
	})
}

// Progress returns the caller's full progress document plus derived
// performance metrics.
func (h *QuestionHandler) Progress(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	progress, err := h.progress.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	performance, err := h.progress.Performance(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"progress":    progress,
		"performance": performance,
	})
}
