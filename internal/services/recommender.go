package services

import (
	"context"
	"errors"

	"mindtrack-backend/internal/models"
	"mindtrack-backend/internal/repository"
)

// Recommender picks the single next question after an evaluated answer.
type Recommender struct {
	catalog QuestionCatalog
	store   ProgressStore
}

func NewRecommender(catalog QuestionCatalog, store ProgressStore) *Recommender {
	return &Recommender{catalog: catalog, store: store}
}

// Next returns the id of the recommended follow-up question, or "" when the
// user has exhausted the pool. Exhaustion is a normal outcome, not an error.
//
// A correct answer advances to a strictly harder question on the same topic;
// an incorrect one stays at or below the current difficulty, preferring
// questions that share a skill with the one just missed.
func (r *Recommender) Next(ctx context.Context, userID string, q *models.Question, wasCorrect bool) (string, error) {
	progress, err := r.store.Get(ctx, userID)
	if err != nil {
		return "", err
	}

	var f models.QuestionFilter
	if wasCorrect {
		f = models.QuestionFilter{
			Topic:        q.Topic,
			Difficulties: models.HarderThan(q.Difficulty),
			ExcludeIDs:   append([]string{q.ID.Hex()}, progress.CompletedQuestions...),
		}
	} else {
		f = models.QuestionFilter{
			Topic:        q.Topic,
			Difficulties: models.AtMost(q.Difficulty),
			SkillsAny:    q.Skills,
			ExcludeIDs:   []string{q.ID.Hex()},
		}
	}

	next, err := r.catalog.FindOne(ctx, f)
	if err == nil {
		return next.ID.Hex(), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	// Neither branch matched: fall back to any question the user has not
	// completed, excluding the one just answered.
	fallback := models.QuestionFilter{
		ExcludeIDs: append([]string{q.ID.Hex()}, progress.CompletedQuestions...),
	}
	next, err = r.catalog.FindOne(ctx, fallback)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return next.ID.Hex(), nil
}
