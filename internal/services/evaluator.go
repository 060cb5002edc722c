package services

import (
	"fmt"
	"strings"

	"mindtrack-backend/internal/models"
)

const (
	feedbackCorrect       = "Correct!"
	feedbackWrongChoice   = "Incorrect choice."
	feedbackWrongAnswer   = "Incorrect answer."
	defaultQuestionPoints = 10
)

// AnswerResult is the evaluator's verdict on one submission.
type AnswerResult struct {
	IsCorrect bool
	Score     int
	Feedback  string
}

// Evaluate scores a raw answer against a question's canonical answer. It is
// a pure function; persisting the outcome is the caller's job.
//
// A question whose type is not in the known set yields a ConfigError rather
// than being scored as multiple-choice.
func Evaluate(q *models.Question, answer string) (*AnswerResult, error) {
	switch q.Type {
	case models.QuestionTypeMultipleChoice:
		return evaluateMultipleChoice(q, answer), nil
	case models.QuestionTypeText:
		return evaluateText(q, answer), nil
	default:
		return nil, &ConfigError{
			Message: fmt.Sprintf("question %s has unknown type %q", q.ID.Hex(), q.Type),
		}
	}
}

func evaluateMultipleChoice(q *models.Question, answer string) *AnswerResult {
	if answer == q.CorrectAnswer {
		return &AnswerResult{
			IsCorrect: true,
			Score:     pointsFor(q),
			Feedback:  feedbackCorrect,
		}
	}

	// Feedback registered for the specific wrong choice, if the author
	// provided one.
	feedback := feedbackWrongChoice
	if text, ok := q.Explanations[answer]; ok && text != "" {
		feedback = text
	}
	return &AnswerResult{Feedback: feedback}
}

func evaluateText(q *models.Question, answer string) *AnswerResult {
	submitted := strings.ToLower(strings.TrimSpace(answer))
	expected := strings.ToLower(strings.TrimSpace(q.CorrectAnswer))

	if submitted == expected {
		return &AnswerResult{
			IsCorrect: true,
			Score:     pointsFor(q),
			Feedback:  feedbackCorrect,
		}
	}

	feedback := feedbackWrongAnswer
	if q.Explanation != "" {
		feedback = q.Explanation
	}
	return &AnswerResult{Feedback: feedback}
}

func pointsFor(q *models.Question) int {
	if q.Points > 0 {
		return q.Points
	}
	return defaultQuestionPoints
}
