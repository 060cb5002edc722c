package services

import (
	"context"

	"mindtrack-backend/internal/models"
)

const (
	minQuestionCount = 1
	maxQuestionCount = 10
)

// QuestionCatalog is read-only access to authored questions.
type QuestionCatalog interface {
	GetByID(ctx context.Context, id string) (*models.Question, error)
	Find(ctx context.Context, f models.QuestionFilter, limit int) ([]models.Question, error)
	FindOne(ctx context.Context, f models.QuestionFilter) (*models.Question, error)
}

// SelectorFilters narrow the pool of candidate questions. Empty fields are
// ignored.
type SelectorFilters struct {
	Difficulty string
	Subject    string
	Topic      string
}

// Selector picks the next batch of questions for a learner. When the exact
// filters cannot fill the batch it relaxes them in stages rather than
// returning short.
type Selector struct {
	catalog QuestionCatalog
	store   ProgressStore
}

func NewSelector(catalog QuestionCatalog, store ProgressStore) *Selector {
	return &Selector{catalog: catalog, store: store}
}

// Next returns up to count questions the user has not yet completed.
//
// Stage 1 applies the caller's filters plus the user's single weakest skill,
// sorted by ascending priority. Stage 2 drops the topic filter and tops up.
// Stage 3 fills remaining slots from anywhere in the catalog. Later-stage
// fill-ins never duplicate an earlier pick or a completed question.
func (s *Selector) Next(ctx context.Context, userID string, count int, filters SelectorFilters) ([]models.Question, error) {
	if count < minQuestionCount || count > maxQuestionCount {
		return nil, &ValidationError{Fields: map[string]string{
			"count": "Count must be between 1 and 10",
		}}
	}

	progress, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	completed := progress.CompletedQuestions

	f := models.QuestionFilter{
		Subject:    filters.Subject,
		Topic:      filters.Topic,
		ExcludeIDs: completed,
		ByPriority: true,
	}
	if filters.Difficulty != "" {
		f.Difficulties = []string{filters.Difficulty}
	}
	// Steer toward the user's weakest skill by merging it into the query,
	// not by re-ranking results afterwards.
	if skill := weakestSkill(progress.Skills); skill != "" {
		f.Skill = skill
	}

	questions, err := s.catalog.Find(ctx, f, count)
	if err != nil {
		return nil, err
	}

	// Stage 2: the topic filter is the first to go.
	if len(questions) < count && f.Topic != "" {
		f.Topic = ""
		f.ExcludeIDs = excludeSet(completed, questions)
		more, err := s.catalog.Find(ctx, f, count-len(questions))
		if err != nil {
			return nil, err
		}
		questions = append(questions, more...)
	}

	// Stage 3: anything not already picked or completed, catalog order.
	if len(questions) < count {
		fallback := models.QuestionFilter{ExcludeIDs: excludeSet(completed, questions)}
		more, err := s.catalog.Find(ctx, fallback, count-len(questions))
		if err != nil {
			return nil, err
		}
		questions = append(questions, more...)
	}

	if len(questions) == 0 {
		return nil, &NotFoundError{Message: "No questions available with the specified criteria"}
	}
	return questions, nil
}

// weakestSkill returns the tracked skill with the lowest mastery level,
// ties broken by name so selection is deterministic. Empty when the user
// has no skill data yet.
func weakestSkill(skills map[string]models.SkillProgress) string {
	weakest := ""
	lowest := 0.0
	for skill, sp := range skills {
		if weakest == "" || sp.MasteryLevel < lowest ||
			(sp.MasteryLevel == lowest && skill < weakest) {
			weakest = skill
			lowest = sp.MasteryLevel
		}
	}
	return weakest
}

func excludeSet(completed []string, chosen []models.Question) []string {
	out := make([]string, 0, len(completed)+len(chosen))
	out = append(out, completed...)
	for _, q := range chosen {
		out = append(out, q.ID.Hex())
	}
	return out
}
