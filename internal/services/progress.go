package services

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mindtrack-backend/internal/models"
)

// masteryDecay blends the previous smoothed mastery with the skill's
// lifetime accuracy, weighted 90/10.
const masteryDecay = 0.9

// ProgressStore is the persisted per-user learning state.
type ProgressStore interface {
	Get(ctx context.Context, userID string) (*models.UserProgress, error)
	ApplyAnswer(ctx context.Context, userID, questionID string, skills []string, isCorrect bool) (*models.UserProgress, error)
	SetMastery(ctx context.Context, userID string, levels map[string]float64) error
}

// AnswerLog appends submission records.
type AnswerLog interface {
	Insert(ctx context.Context, record *models.AnswerRecord) error
}

// ProgressService owns all writes to a user's learning state and the
// derived performance summary. Store failures on this path are never
// swallowed: a lost update corrupts mastery tracking, so the client must
// see the error and retry.
type ProgressService struct {
	store   ProgressStore
	answers AnswerLog
}

func NewProgressService(store ProgressStore, answers AnswerLog) *ProgressService {
	return &ProgressService{store: store, answers: answers}
}

// RecordAnswer appends the answer record, applies the atomic progress
// update, and recomputes mastery for every skill on the question.
func (s *ProgressService) RecordAnswer(ctx context.Context, userID string, q *models.Question, rawAnswer string, result *AnswerResult, timeTaken float64) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return &NotFoundError{Message: "User not found"}
	}

	record := &models.AnswerRecord{
		UserID:     uid,
		QuestionID: q.ID,
		UserAnswer: rawAnswer,
		IsCorrect:  result.IsCorrect,
		TimeTaken:  timeTaken,
		Score:      result.Score,
	}
	if err := s.answers.Insert(ctx, record); err != nil {
		return err
	}

	progress, err := s.store.ApplyAnswer(ctx, userID, q.ID.Hex(), q.Skills, result.IsCorrect)
	if err != nil {
		return err
	}

	if len(q.Skills) == 0 {
		return nil
	}

	// The returned document carries post-increment counters but the mastery
	// level from before this submission, which is exactly what the decay
	// formula needs.
	levels := make(map[string]float64, len(q.Skills))
	for _, skill := range q.Skills {
		sp := progress.Skills[skill]
		levels[skill] = updatedMastery(sp.MasteryLevel, sp.Attempts, sp.Correct)
	}

	return s.store.SetMastery(ctx, userID, levels)
}

// Get returns the user's progress, creating it on first access.
func (s *ProgressService) Get(ctx context.Context, userID string) (*models.UserProgress, error) {
	return s.store.Get(ctx, userID)
}

// Performance derives accuracy and the strongest/weakest skills from the
// user's progress document.
func (s *ProgressService) Performance(ctx context.Context, userID string) (*models.Performance, error) {
	progress, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	perf := &models.Performance{
		TotalQuestionsAttempted:  progress.TotalAttempts,
		UniqueQuestionsCompleted: len(progress.CompletedQuestions),
		UniqueQuestionsAttempted: len(progress.AttemptedQuestions),
	}
	if progress.TotalAttempts > 0 {
		perf.Accuracy = 100 * float64(progress.CorrectAnswers) / float64(progress.TotalAttempts)
	}

	levels := make([]models.SkillLevel, 0, len(progress.Skills))
	for skill, sp := range progress.Skills {
		levels = append(levels, models.SkillLevel{
			Skill:        skill,
			MasteryLevel: sp.MasteryLevel,
			Attempts:     sp.Attempts,
		})
	}
	sort.Slice(levels, func(i, j int) bool {
		if levels[i].MasteryLevel != levels[j].MasteryLevel {
			return levels[i].MasteryLevel < levels[j].MasteryLevel
		}
		return levels[i].Skill < levels[j].Skill
	})

	if n := len(levels); n > 0 {
		weak := 3
		if n < weak {
			weak = n
		}
		perf.Weaknesses = levels[:weak]

		strong := 3
		if n < strong {
			strong = n
		}
		perf.Strengths = levels[n-strong:]
	}

	return perf, nil
}

// updatedMastery applies the forgetting-curve decay: the previous smoothed
// level weighted by 0.9, plus the skill's lifetime accuracy weighted by 0.1.
// Attempts and correct are all-time counts including the current event.
func updatedMastery(old float64, attempts, correct int) float64 {
	if attempts <= 0 {
		return clampMastery(old)
	}
	accuracy := 100 * float64(correct) / float64(attempts)
	return clampMastery(old*masteryDecay + accuracy*(1-masteryDecay))
}

func clampMastery(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
